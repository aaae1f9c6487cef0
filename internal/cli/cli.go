// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "tui"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// ConfigPath overrides the default config file lookup.
	ConfigPath string
	// Endpoint overrides endpoint.url from the config file.
	Endpoint string
	// LogLevel overrides log.level.
	LogLevel string
	// Theme overrides ui.theme.
	Theme string

	// Raw args left after flag parsing
	Raw []string
}

const usageText = `partner - terminal chat with your AI sales partner

Usage:
  partner [flags]            Start the chat (default)
  partner config             Print the effective configuration
  partner config init        Write a default config file (--force overwrites)
  partner version            Show version information
  partner help               Show this help

Flags:
  -c, --config <path>        Config file (TOML or YAML)
      --endpoint <url>       Reply endpoint URL
      --log-level <level>    debug, info, warn or error
      --theme <mode>         auto, dark or light

In the chat:
  Enter                      Send the message
  Alt+Enter / Ctrl+J         New line
  Ctrl+Y                     Copy the last reply
  Ctrl+O                     Sign out
  Ctrl+C                     Quit

Version: %s
`

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "partner version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments (without the program name) and
// returns the command and args.
func Parse(argv []string) (Command, Args, error) {
	remaining, parsed, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, parsed, err
	}
	if len(remaining) == 0 {
		return CmdTUI, parsed, nil
	}

	cmd := strings.ToLower(remaining[0])
	parsed.Raw = remaining[1:]

	switch cmd {
	case "tui", "chat":
		return CmdTUI, parsed, nil
	case "config":
		return CmdConfig, parsed, nil
	case "version", "--version", "-V":
		return CmdVersion, parsed, nil
	case "help", "--help", "-h":
		return CmdHelp, parsed, nil
	default:
		return CmdHelp, parsed, UsageError(fmt.Sprintf("unknown command %q", cmd))
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args, error) {
	var remaining []string
	var parsed Args

	valueFlags := map[string]*string{
		"--config":    &parsed.ConfigPath,
		"-c":          &parsed.ConfigPath,
		"--endpoint":  &parsed.Endpoint,
		"--log-level": &parsed.LogLevel,
		"--theme":     &parsed.Theme,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, value, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(name, "-") {
			if dst, known := valueFlags[name]; known {
				*dst = value
				continue
			}
		}
		if dst, known := valueFlags[arg]; known {
			if i+1 >= len(args) {
				return nil, parsed, UsageError(fmt.Sprintf("flag %s needs a value", arg))
			}
			i++
			*dst = args[i]
			continue
		}
		remaining = append(remaining, arg)
	}

	return remaining, parsed, nil
}
