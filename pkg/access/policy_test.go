package access

import (
	"errors"
	"testing"
	"time"

	"github.com/small-frappuccino/rolepanel/pkg/files"
)

func TestHasAccess(t *testing.T) {
	t.Parallel()

	cfg := files.DefaultGuildConfig("g", time.Unix(0, 0))
	cfg.AdminUsers = []string{"admin"}
	cfg.AdminRoles = []string{"staff"}

	cases := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"owner", Actor{UserID: "owner"}, true},
		{"admin user", Actor{UserID: "admin"}, true},
		{"admin role", Actor{UserID: "m", RoleIDs: []string{"x", "staff"}}, true},
		{"member", Actor{UserID: "m", RoleIDs: []string{"x"}}, false},
		{"anonymous", Actor{}, false},
	}
	for _, tc := range cases {
		if got := HasAccess(tc.actor, "owner", cfg); got != tc.want {
			t.Fatalf("%s: HasAccess=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOwnerGate(t *testing.T) {
	t.Parallel()

	if err := RequireOwner(Actor{UserID: "owner"}, "owner"); err != nil {
		t.Fatalf("owner must pass: %v", err)
	}
	err := RequireOwner(Actor{UserID: "admin"}, "owner")
	var denied DeniedError
	if !errors.As(err, &denied) || !denied.OwnerOnly {
		t.Fatalf("expected owner-only denial, got %v", err)
	}
	if denied.Message() != OwnerOnlyMessage {
		t.Fatalf("unexpected message %q", denied.Message())
	}
	if IsOwner(Actor{}, "") {
		t.Fatalf("empty ids never match")
	}
}

func TestRequireAccessDeniesWithGeneralMessage(t *testing.T) {
	t.Parallel()

	err := RequireAccess(Actor{UserID: "m"}, "owner", nil)
	var denied DeniedError
	if !errors.As(err, &denied) || denied.OwnerOnly {
		t.Fatalf("expected general denial, got %v", err)
	}
	if denied.Message() != DeniedMessage {
		t.Fatalf("unexpected message %q", denied.Message())
	}
}
