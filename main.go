// partner - terminal chat client for the Bravura AI sales partner.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/auth"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/cli"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/clipboard"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/config"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/logging"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/reply"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/storage"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/stream"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/ui/chat"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/ui/styles"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	cli.ConfigureColor()

	cmd, args, err := cli.Parse(argv)
	if err != nil {
		cli.PrintError(os.Stderr, err)
		return cli.ExitCode(err)
	}

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return cli.ExitSuccess
	}

	if cmd == cli.CmdConfig && len(args.Raw) > 0 {
		return runConfigCommand(os.Stdout, args)
	}

	cfg, path, err := loadConfig(args)
	if err != nil {
		err = cli.ConfigError(err)
		cli.PrintError(os.Stderr, err)
		return cli.ExitCode(err)
	}

	if cmd == cli.CmdConfig {
		if path != "" {
			fmt.Printf("# %s\n", path)
		}
		if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
			cli.PrintError(os.Stderr, err)
			return cli.ExitGeneralError
		}
		return cli.ExitSuccess
	}

	if err := cli.RequireTerminal(); err != nil {
		cli.PrintError(os.Stderr, err)
		return cli.ExitCode(err)
	}

	if err := runTUI(cfg, path, args); err != nil {
		cli.PrintError(os.Stderr, err)
		return cli.ExitCode(err)
	}
	return cli.ExitSuccess
}

// runConfigCommand handles "partner config <sub>".
func runConfigCommand(w io.Writer, args cli.Args) int {
	sub, rest := args.Raw[0], args.Raw[1:]
	if sub != "init" {
		err := cli.UsageError(fmt.Sprintf("unknown config command %q", sub))
		cli.PrintError(os.Stderr, err)
		return cli.ExitCode(err)
	}

	force := slices.Contains(rest, "--force") || slices.Contains(rest, "-f")
	path, err := config.Init(args.ConfigPath, force)
	if err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			err = fmt.Errorf("%w (use --force to overwrite)", err)
		}
		err = &cli.CommandError{Code: cli.ExitConfigError, Message: "could not write configuration", Cause: err}
		cli.PrintError(os.Stderr, err)
		return cli.ExitCode(err)
	}
	fmt.Fprintln(w, styles.RenderSuccess("wrote "+path))
	return cli.ExitSuccess
}

// loadConfig reads the config file, applies flag overrides and fills in the
// database and log paths.
func loadConfig(args cli.Args) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if args.ConfigPath != "" {
		path = args.ConfigPath
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}

	applyFlags(cfg, args)
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.ResolvePaths(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// applyFlags lets command-line flags win over the file and environment.
func applyFlags(cfg *config.Config, args cli.Args) {
	if args.Endpoint != "" {
		cfg.Endpoint.URL = args.Endpoint
	}
	if args.LogLevel != "" {
		cfg.Log.Level = args.LogLevel
	}
	if args.Theme != "" {
		cfg.UI.Theme = args.Theme
	}
}

// chatConfigFor builds the chat collaborators from cfg.
func chatConfigFor(cfg *config.Config) chat.Config {
	minDelay, maxDelay := cfg.Stream.Delays()
	return chat.Config{
		Fetcher: reply.NewClient(reply.Config{
			URL:       cfg.Endpoint.URL,
			Timeout:   cfg.Endpoint.Timeout(),
			UserAgent: cfg.Endpoint.UserAgent,
		}),
		Delay:          stream.RandomDelay(minDelay, maxDelay),
		Clipboard:      clipboard.System{},
		CopyWindow:     cfg.Clipboard.Window(),
		AssistantName:  cfg.UI.AssistantName,
		MaxInputHeight: cfg.UI.MaxInputHeight,
	}
}

func runTUI(cfg *config.Config, path string, args cli.Args) error {
	logCloser, err := logging.Setup(cfg.Log.Path, logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return err
	}
	defer logCloser.Close()
	log := logging.For("main")

	store, err := storage.Open(cfg.Auth.DBPath)
	if err != nil {
		return cli.StorageError(err)
	}
	defer store.Close()

	session := auth.NewLocalSession(store, auth.LocalConfig{
		SignInPerMinute: cfg.Auth.SignInPerMinute,
		Remember:        cfg.Auth.RememberSession,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := newApp(ctx, cfg, session, session.Restore, chatConfigFor)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if path != "" {
		err := config.Watch(ctx, path, func(c *config.Config, err error) {
			if c != nil {
				applyFlags(c, args)
			}
			p.Send(configReloadedMsg{cfg: c, err: err})
		})
		if err != nil {
			log.Warn("config_watch_failed", "path", path, "error", err)
		}
	}

	if !(clipboard.System{}).Available() {
		log.Warn("clipboard_unavailable", "effect", "copy actions will fail")
	}
	log.Info("app_started", "endpoint", cfg.Endpoint.URL, "db", cfg.Auth.DBPath)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running partner: %w", err)
	}
	app.shutdown()
	log.Info("app_stopped")
	return nil
}
