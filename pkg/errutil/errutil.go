package errutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jpillora/backoff"
	"github.com/small-frappuccino/rolepanel/pkg/log"
)

// HandleDiscordError executes fn and logs any error as a Discord failure.
// The error from fn is returned unmodified.
func HandleDiscordError(operation string, fn func() error) error {
	if fn == nil {
		return fmt.Errorf("nil function provided")
	}

	err := fn()
	if err == nil {
		return nil
	}

	log.ErrorLogger().Error("Discord operation failed",
		"operation", operation,
		"code", DiscordCode(err),
		"error", err,
	)
	return err
}

// RetryPolicy bounds Retry. Zero fields fall back to 1s..30s, factor 2, 5 attempts.
type RetryPolicy struct {
	Min         time.Duration
	Max         time.Duration
	Factor      float64
	MaxAttempts int
}

// Retry runs fn until it succeeds, ctx ends or the attempts are exhausted,
// sleeping with jittered exponential backoff between attempts.
func Retry(ctx context.Context, operation string, policy RetryPolicy, fn func() error) error {
	b := &backoff.Backoff{
		Min:    policy.Min,
		Max:    policy.Max,
		Factor: policy.Factor,
		Jitter: true,
	}
	if b.Min <= 0 {
		b.Min = time.Second
	}
	if b.Max <= 0 {
		b.Max = 30 * time.Second
	}
	if b.Factor <= 0 {
		b.Factor = 2
	}
	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 5
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		wait := b.Duration()
		log.ErrorLogger().Warn("Retrying after failure",
			"operation", operation,
			"attempt", i+1,
			"wait", wait.String(),
			"error", err,
		)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%s: %w", operation, errors.Join(err, context.Cause(ctx)))
		case <-t.C:
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, err)
}

// DiscordCode extracts the JSON error code of a Discord REST failure, or 0.
func DiscordCode(err error) int {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code
	}
	return 0
}

// HTTPStatus extracts the HTTP status of a Discord REST failure, or 0.
func HTTPStatus(err error) int {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode
	}
	return 0
}

// IsUnknownMessage reports a deleted or never-existing message.
func IsUnknownMessage(err error) bool {
	return DiscordCode(err) == discordgo.ErrCodeUnknownMessage
}

// IsUnknownChannel reports a deleted channel.
func IsUnknownChannel(err error) bool {
	return DiscordCode(err) == discordgo.ErrCodeUnknownChannel
}

// IsAlreadyAcknowledged reports an interaction that was answered already.
func IsAlreadyAcknowledged(err error) bool {
	return DiscordCode(err) == discordgo.ErrCodeInteractionHasAlreadyBeenAcknowledged
}

// IsMissingPermissions reports a permission or hierarchy refusal.
func IsMissingPermissions(err error) bool {
	return DiscordCode(err) == discordgo.ErrCodeMissingPermissions || HTTPStatus(err) == http.StatusForbidden
}

// Describe returns a short, user-safe reason for err.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Message != "" {
		return restErr.Message.Message
	}
	return err.Error()
}
