package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vovakirdan/gemfusion/internal/config"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/levels"
	"github.com/vovakirdan/gemfusion/internal/registry"
	"github.com/vovakirdan/gemfusion/internal/storage"
)

// printer formats numbers for terminal output.
var printer = message.NewPrinter(language.English)

// fatalf prints an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// newLogger builds the application logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "gemfusion",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openLogFile opens the interactive log file for appending. The terminal
// belongs to the game while it runs, so logs cannot go to stderr.
func openLogFile() (*os.File, error) {
	path := expandHome(flagLogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}

// fileLogger returns a logger writing to the log file, or discarding output
// when the file cannot be opened. Call done when the program exits.
func fileLogger() (logger *log.Logger, done func()) {
	f, err := openLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return newLogger(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// loadConfig reads the engine config and applies the --difficulty flag.
func loadConfig(logger *log.Logger) config.GemFusionConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		logger.Error("failed to load config, using defaults", "path", flagConfig, "err", err)
		cfg = config.DefaultGemFusionConfig()
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			fatalf("%v", err)
		}
		config.ApplyPreset(&cfg, preset)
	}
	return cfg
}

// newLoader returns the level source selected by --levels-dir.
func newLoader() *levels.Loader {
	if flagLevelsDir == "" {
		return levels.Builtin()
	}
	return levels.NewLoader(expandHome(flagLevelsDir))
}

// openStore opens the scores database. Play continues without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// registerGame registers the game factory with the given options.
func registerGame(cfg config.GemFusionConfig, logger *log.Logger, store *storage.Store, extra ...gemfusion.Option) {
	opts := []gemfusion.Option{
		gemfusion.WithLogger(logger),
		gemfusion.WithRules(cfg.Rules()),
		gemfusion.WithLoader(newLoader()),
		gemfusion.WithDifficulty(config.NewDifficultyManager(cfg.Difficulty)),
		gemfusion.WithFlashTicks(cfg.Presentation.FlashTicks),
	}
	if store != nil {
		opts = append(opts, gemfusion.WithProgressSaver(store))
	}
	opts = append(opts, extra...)

	registry.Register(gemfusion.ID, func() registry.Game {
		return gemfusion.New(opts...)
	})
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// loadLevel finds a level by ID using the configured loader.
func loadLevel(id string) levels.Level {
	lvl, err := newLoader().LoadByID(id)
	if err != nil {
		fatalf("%v", err)
	}
	return lvl
}
