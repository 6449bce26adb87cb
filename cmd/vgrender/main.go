// Command vgrender runs a Lua or JavaScript drawing script through the
// software backend and writes the result as a PNG.
//
// Usage:
//
//	vgrender [flags] script.lua|script.js
//
// With -watch the script is rendered again whenever it changes.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/vg"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		slog.Error("invalid arguments", "err", err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	vg.SetLogger(logger)

	if err := run(cfg); err != nil {
		slog.Error("vgrender failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	if err := render(cfg); err != nil {
		if !cfg.Watch {
			return err
		}
		slog.Error("render failed", "script", cfg.Script, "err", err)
	}
	if !cfg.Watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	w, err := newScriptWatcher(cfg.Script, cfg.Debounce, func() error { return render(cfg) })
	if err != nil {
		return err
	}
	slog.Info("watching", "script", cfg.Script)
	return w.Run(ctx)
}
