package session

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/errutil"
	"github.com/small-frappuccino/rolepanel/pkg/log"
)

// Error messages
const (
	ErrSessionCreationFailed   = "failed to create Discord session: %w"
	ErrSessionConnectionFailed = "failed to connect to Discord: %w"
)

// Intents the bot runs with. Role buttons read member roles from the
// interaction payload, so the privileged member intent is not needed.
const Intents = discordgo.IntentsGuilds

// ConnectPolicy bounds the gateway connection attempts.
var ConnectPolicy = errutil.RetryPolicy{MaxAttempts: 5}

// Replaced in tests.
var (
	newSession   = discordgo.New
	openSession  = func(s *discordgo.Session) error { return s.Open() }
	closeSession = func(s *discordgo.Session) error { return s.Close() }
)

// Create builds a session without connecting, so handlers can be added
// before the first Ready event.
func Create(token string) (*discordgo.Session, error) {
	if token == "" {
		log.ErrorLogger().Error("Discord bot token is empty. Please set the token before starting the bot.")
		return nil, fmt.Errorf("discord bot token is empty")
	}

	var s *discordgo.Session
	if err := errutil.HandleDiscordError("create_session", func() error {
		var err error
		s, err = newSession("Bot " + token)
		return err
	}); err != nil {
		return nil, fmt.Errorf(ErrSessionCreationFailed, err)
	}
	s.Identify.Intents = Intents
	return s, nil
}

// Connect opens the gateway, retrying with backoff until ctx ends or
// ConnectPolicy is exhausted.
func Connect(ctx context.Context, s *discordgo.Session) error {
	logger := log.DiscordLogger()
	logger.Info("Connecting to Discord...")
	err := errutil.Retry(ctx, "connect", ConnectPolicy, func() error {
		err := openSession(s)
		if err != nil {
			// A failed Open can leave a half-open websocket behind.
			_ = closeSession(s)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf(ErrSessionConnectionFailed, err)
	}
	logger.Info("Connected to Discord successfully")
	return nil
}
