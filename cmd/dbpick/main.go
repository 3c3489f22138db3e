// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// dbpick is an interactive checkbox picker over a resource catalog.
//
// The catalog is a local JSON, JSONC, JSONL or YAML file listing
// resources (name, optional domain, optional display name). An
// optional YAML config groups them into a category tree with glob
// matchers, sets the identity policy and the initial selection. The
// picker runs in the terminal on stderr; when the user accepts, the
// selection is printed to stdout as text, JSON, YAML or CBOR so that
// dbpick composes in pipelines:
//
//	dbpick --catalog databases.yaml --format json | jq -r '.resources[].name'
//
// With --watch the catalog file is watched with inotify and reloaded
// while the picker is open. With --batch no terminal is used: the
// initial selection is resolved against the catalog and printed.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/dbpick/lib/catalog"
	"github.com/bureau-foundation/dbpick/lib/codec"
	"github.com/bureau-foundation/dbpick/lib/config"
	"github.com/bureau-foundation/dbpick/lib/databasesview"
	"github.com/bureau-foundation/dbpick/lib/pickerui"
	"github.com/bureau-foundation/dbpick/lib/resource"
	"github.com/bureau-foundation/dbpick/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errCancelled) {
			os.Exit(exitCancelled)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// flags holds the parsed command line.
type flags struct {
	catalogPath string
	configPath  string
	format      string
	identity    string
	force       bool
	watch       bool
	batch       bool
	selections  []string
	logOutput   string
}

func run(args []string, stdout, stderr io.Writer) error {
	var options flags

	flagSet := pflag.NewFlagSet("dbpick", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&options.catalogPath, "catalog", "c", "", "catalog file (.json, .jsonc, .jsonl, .yaml); overrides the config's catalog")
	flagSet.StringVar(&options.configPath, "config", "", "config file (default: $"+config.EnvironmentVariable+" if set)")
	flagSet.StringVarP(&options.format, "format", "f", "", "output format: text, json, yaml or cbor (default: the config's output)")
	flagSet.StringVar(&options.identity, "identity", "", "identity policy: name or domain-name (default: the config's identity)")
	flagSet.BoolVar(&options.force, "force", false, "forbid an empty selection")
	flagSet.BoolVarP(&options.watch, "watch", "w", false, "reload the catalog when it changes on disk")
	flagSet.BoolVar(&options.batch, "batch", false, "print the initial selection without starting the picker")
	flagSet.StringArrayVarP(&options.selections, "select", "s", nil, "initially select a resource, as DOMAIN:NAME or NAME (repeatable)")
	flagSet.StringVar(&options.logOutput, "log-output", "", "write JSON log records to this file (in addition to the status bar)")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Bool("version", false, "print version and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet, stderr)
			return nil
		}
		return usageError("%w", err)
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet, stderr)
		return nil
	}
	if showVersion, _ := flagSet.GetBool("version"); showVersion {
		fmt.Fprintf(stdout, "dbpick %s\n", version.Info())
		return nil
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return usageError("unexpected argument: %s", extra[0])
	}

	cfg, err := loadConfig(options.configPath)
	if err != nil {
		return usageError("%w", err)
	}
	if err := applyFlags(cfg, options); err != nil {
		return usageError("%w", err)
	}
	if cfg.Catalog == "" {
		return usageError("no catalog: pass --catalog or set catalog in the config file")
	}

	identity, err := cfg.IdentityPolicy()
	if err != nil {
		return usageError("%w", err)
	}
	categories, err := cfg.CompileCategories()
	if err != nil {
		return usageError("%w", err)
	}

	resources, err := catalog.ReadFile(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	initial := slices.Clone(cfg.InitialSelection)
	for _, value := range options.selections {
		initial = append(initial, parseIdentifier(identity, value))
	}

	// The collection starts pending and receives the catalog as its
	// first load, so that delayed selection applies to it.
	databases := resource.NewCollection(identity)
	databases.Request()
	selected := resource.NewCollection(identity)

	viewOptions := databasesview.Options{
		Databases:           databases,
		Selected:            selected,
		Categories:          categories,
		TopLevelDisplayName: cfg.TopLevelDisplayName,
		EmptyMessage:        cfg.EmptyMessage,
		ForceSelection:      cfg.ForceSelection,
		CurrentSelection:    initial,
	}
	if cfg.DelayedSelection != "" {
		viewOptions.DelayedSelection = cfg.DelayedSelectionFunc(identity, categories)
	}
	loaded := catalog.Event{Kind: catalog.EventLoaded, Resources: resources}

	var picker *databasesview.View
	if options.batch {
		viewOptions.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		picker = databasesview.New(viewOptions)
		defer picker.Close()
		catalog.Apply(databases, loaded)
	} else {
		picker, err = runInteractive(cfg, options, viewOptions, loaded)
		if err != nil {
			return err
		}
		defer picker.Close()
	}

	return writeSelection(stdout, config.Format(cfg.Output), buildSelection(identity, picker, selected))
}

// loadConfig reads the config from --config, then $DBPICK_CONFIG, and
// falls back to the defaults when neither is set.
func loadConfig(path string) (*config.Config, error) {
	switch {
	case path != "":
		return config.LoadFile(path)
	case os.Getenv(config.EnvironmentVariable) != "":
		return config.Load()
	default:
		return config.Default(), nil
	}
}

// applyFlags overrides config values with the flags that were given.
func applyFlags(cfg *config.Config, options flags) error {
	if options.catalogPath != "" {
		cfg.Catalog = options.catalogPath
	}
	if options.identity != "" {
		cfg.Identity = options.identity
	}
	if options.force {
		cfg.ForceSelection = true
	}
	if options.format != "" {
		format, err := config.ParseFormat(options.format)
		if err != nil {
			return err
		}
		cfg.Output = format
	}
	return nil
}

// parseIdentifier reads a --select value. Under an identity that
// includes the domain, the part before the first colon is the domain.
func parseIdentifier(identity resource.Identity, value string) resource.Identifier {
	if slices.Contains(identity.Attributes, resource.AttributeDomain) {
		if domain, name, found := strings.Cut(value, ":"); found {
			return resource.Identifier{Domain: domain, Name: name}
		}
	}
	return resource.Identifier{Name: value}
}

// runInteractive runs the picker on the terminal and returns its view
// once the user accepts. Quitting returns errCancelled.
func runInteractive(cfg *config.Config, options flags, viewOptions databasesview.Options, loaded catalog.Event) (*databasesview.View, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil, usageError("the picker needs a terminal on stdin and stderr; use --batch to run without one")
	}

	// The picker draws on stderr; stdout is reserved for the result
	// and is usually a pipe.
	lipgloss.SetColorProfile(termenv.NewOutput(os.Stderr).EnvColorProfile())

	statusHandler := pickerui.NewLogHandler(slog.LevelWarn)
	var handler slog.Handler = statusHandler
	if options.logOutput != "" {
		fileHandler, closeFile, err := openFileLogHandler(options.logOutput)
		if err != nil {
			return nil, usageError("cannot open log file %s: %w", options.logOutput, err)
		}
		defer closeFile()
		handler = fanoutHandler{statusHandler, fileHandler}
	}
	logger := slog.New(handler)
	viewOptions.Logger = logger

	modelOptions := pickerui.Options{View: viewOptions}
	if options.watch {
		watcher, err := catalog.Watch(cfg.Catalog, catalog.WatchOptions{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("watching catalog: %w", err)
		}
		defer watcher.Close()
		modelOptions.CatalogEvents = watcher.Events()
	}

	model := pickerui.NewModel(modelOptions)
	// The event loop has not started yet, so this is still the only
	// goroutine touching the collection.
	catalog.Apply(viewOptions.Databases, loaded)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	statusHandler.SetProgram(program)

	final, err := program.Run()
	statusHandler.SetProgram(nil)
	if err != nil {
		model.Close()
		return nil, err
	}
	result := final.(pickerui.Model)
	if !result.Accepted() {
		result.Close()
		return nil, errCancelled
	}
	return result.Picker(), nil
}

// buildSelection reads the result out of the picker. The resources
// come from the synchronized selected collection, which holds exactly
// the materialized selection.
func buildSelection(identity resource.Identity, picker *databasesview.View, selected *resource.Collection) codec.Selection {
	return codec.Selection{
		Identity:  identity.Name,
		All:       picker.Explicit() == nil,
		Resources: append([]resource.Identifier{}, selected.Identifiers()...),
	}
}

func printHelp(flagSet *pflag.FlagSet, output io.Writer) {
	fmt.Fprintf(output, `dbpick: pick resources from a catalog with a checkbox tree.

The picker draws on stderr. Space toggles a resource or a whole
category, "a" selects everything, "/" filters, Enter accepts and
prints the selection to stdout, q quits without printing.

Usage:
  dbpick --catalog FILE [flags]

Examples:
  # Pick from a YAML catalog and print DOMAIN:NAME lines
  dbpick --catalog databases.yaml

  # Group resources with a config file and print JSON
  dbpick --config dbpick.yaml --format json

  # Resolve the configured initial selection without a terminal
  dbpick --config dbpick.yaml --batch --format yaml

Flags:
`)
	flagSet.SetOutput(output)
	flagSet.PrintDefaults()
}
