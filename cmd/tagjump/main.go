// Copyright 2025 The tagjump Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the tagjump IPC server and its interactive CLI.

Note: This is a BETA release. APIs and functionality may rapidly change.

tagjump labels every occurrence of a search query in a document with a short
tag of one or two keys. Typing the tag right after the query jumps to that
occurrence; no separate "select" key is ever needed. Tags stay stable while
the query grows, and a tag is never handed out if typing it could also be
read as more of the query.

# Usage

Start the server for an editor plugin:

	tagjump

Try it on a file in the terminal, with debug logs:

	tagjump -c -file main.go -d

# Configuration

Runtime configuration lives in a TOML file which is created with defaults
on first run:

	[tagger]
	keys = "asdfghjklqwertyuiopzxcvbnm"
	shorten_tags = true

	[server]
	max_sessions = 16
	max_query_len = 120

	[cli]
	view_lines = 20
	show_offsets = false

Server mode watches the file and applies changes to new sessions without a
restart.

# IPC Protocol

The server speaks msgpack over stdin/stdout, see package server for the
message shapes. A typical exchange opens a session and streams the query
after each keystroke:

	{"id": "1", "action": "open", "text": "...", "vs": 0, "ve": 2400}
	{"id": "2", "action": "query", "sid": "...", "q": "e", "search": true}
	{"id": "3", "action": "query", "sid": "...", "q": "ea", "search": true}

The last response carries the jump offset in "j".

# CLI Mode

Each line typed at the prompt is fed to the tagger one character at a time,
exactly as an editor would. Commands start with a colon:

	:back    remove the last query character
	:reset   clear the query and tags
	:next    jump to the nearest visible tag after the caret
	:down    scroll one page down (:up for up)
	:regex   toggle regex queries
	:quit    exit

# Command Line Flags

	-c        Run the interactive CLI instead of the server
	-file     Document to open in CLI mode
	-config   Path to a config file
	-keys     Override the tag keys from config
	-lines    Override the number of visible lines in CLI mode
	-d        Enable debug logging
	-version  Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/tagjump/internal/cli"
	"github.com/bastiangx/tagjump/internal/logger"
	"github.com/bastiangx/tagjump/internal/utils"
	"github.com/bastiangx/tagjump/pkg/alphabet"
	"github.com/bastiangx/tagjump/pkg/config"
	"github.com/bastiangx/tagjump/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "tagjump"
	gh      = "https://github.com/bastiangx/tagjump"
)

// main wires flags, config and the chosen mode together. The modes
// themselves live in internal/cli and pkg/server.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for trying tags on a file")
	inputFile := flag.String("file", "", "Document to open in CLI mode")
	configPath := flag.String("config", "", "Path to a config file")
	keys := flag.String("keys", "", "Tag keys in preference order (overrides config)")
	viewLines := flag.Int("lines", 0, "Visible lines in CLI mode (overrides config)")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *keys != "" {
		cfg.Tagger.Keys = *keys
	}
	if *viewLines > 0 {
		cfg.CLI.ViewLines = *viewLines
	}
	cfg.Validate()
	log.Debugf("Using config file: (%s)", utils.GetAbsolutePath(activePath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *cliMode {
		if err := runCLI(cfg, *inputFile); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	srv := server.NewServer(cfg, os.Stdin, os.Stdout)
	if activePath != "" {
		go func() {
			if err := config.Watch(ctx, activePath, srv.UpdateConfig); err != nil {
				log.Warnf("Config reload disabled: %v", err)
			}
		}()
	}

	showStartupInfo()
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func runCLI(cfg *config.Config, name string) error {
	if name == "" {
		return fmt.Errorf("-file is required in CLI mode")
	}
	resolver, err := utils.NewPathResolver()
	if err != nil {
		return err
	}
	path, err := resolver.ResolveInput(name)
	if err != nil {
		return fmt.Errorf("cannot find %s: %w", name, err)
	}
	text, err := utils.ReadText(path)
	if err != nil {
		return err
	}
	log.Debugf("Loaded %s (%s chars)", path, utils.FormatWithCommas(len(text)))

	term := cli.NewTerminal(os.Stdout, cfg.CLI.ShowOffsets)
	handler := cli.NewInputHandler(text, alphabet.NewKeyboard(cfg.Tagger.Keys), cfg.CLI.ViewLines, cfg.Tagger.ShortenTags, term, os.Stdout)
	return handler.Start()
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})
	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ tagjump ] Jump anywhere by typing what you see")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo() {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Info("status: ready")
	log.SetLevel(currentLevel)
}
