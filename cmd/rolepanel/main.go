package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/small-frappuccino/rolepanel/pkg/app"
	"github.com/small-frappuccino/rolepanel/pkg/log"
	"github.com/spf13/pflag"
)

// version is set at build time: -ldflags "-X main.version=v1.0.0".
var version = "dev"

// main is the entry point of the Discord bot.
func main() {
	if err := run(os.Args[1:]); err != nil {
		log.ErrorLogger().Error("Fatal", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, showVersion, err := parseFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if showVersion {
		fmt.Println("rolepanel", version)
		return nil
	}
	app.SetAppVersion(version)
	return app.Run(opts)
}

func parseFlags(args []string) (app.Options, bool, error) {
	opts := app.Options{AppName: "rolepanel"}
	var showVersion bool

	flagSet := pflag.NewFlagSet("rolepanel", pflag.ContinueOnError)
	flagSet.StringVar(&opts.SettingsPath, "config", "", "path to the YAML settings file (default: <config dir>/settings.yaml)")
	flagSet.StringVar(&opts.DataDir, "data-dir", "", "directory for guild documents, activity logs and the journal")
	flagSet.StringVar(&opts.TokenEnv, "token-env", "DISCORD_TOKEN", "environment variable holding the bot token")
	flagSet.BoolVar(&opts.SyncCommands, "sync-commands", true, "register the slash commands with Discord on startup")
	flagSet.BoolVar(&opts.ClearCommands, "clear-commands", false, "remove every global slash command and exit")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")

	if err := flagSet.Parse(args); err != nil {
		return opts, false, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, false, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if opts.ClearCommands && flagSet.Changed("sync-commands") && opts.SyncCommands {
		return opts, false, errors.New("--clear-commands and --sync-commands are mutually exclusive")
	}
	return opts, showVersion, nil
}
