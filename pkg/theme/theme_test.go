package theme

import "testing"

func TestRegisterAndSwitchTheme(t *testing.T) {
	if err := Register(&Theme{Name: "night", Primary: 0x123456}); err != nil {
		t.Fatalf("register: %v", err)
	}
	t.Cleanup(func() { _ = SetCurrent("") })

	if err := Register(&Theme{Name: "night"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := SetCurrent("missing"); err == nil {
		t.Fatalf("expected unknown theme to fail")
	}

	if err := SetCurrent("night"); err != nil {
		t.Fatalf("set current: %v", err)
	}
	if Primary() != 0x123456 {
		t.Fatalf("expected override, got %#x", Primary())
	}
	if Success() != 0x57F287 || ActivityDenied() != 0xFEE75C {
		t.Fatalf("expected unset roles to inherit defaults")
	}

	cur := Current()
	cur.Primary = 0
	if Primary() != 0x123456 {
		t.Fatalf("Current must return a copy")
	}
}
