package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/vg"
)

// DefaultDebounce is the delay between a script change and the re-render.
const DefaultDebounce = 300 * time.Millisecond

// Config holds the command line settings.
type Config struct {
	Script     string
	Output     string
	Width      int
	Height     int
	Ratio      float64
	Background vg.Color

	Watch    bool
	Debounce time.Duration

	// CPULimit bounds Lua scripts; Timeout bounds JavaScript.
	CPULimit uint64
	Timeout  time.Duration

	Verbose bool
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Output:   "out.png",
		Width:    800,
		Height:   600,
		Ratio:    1,
		Debounce: DefaultDebounce,
		CPULimit: 100_000_000,
		Timeout:  10 * time.Second,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Script == "" {
		return errors.New("no script given")
	}
	if lang(c.Script) == "" {
		return fmt.Errorf("script %s: unknown language, want .lua or .js", c.Script)
	}
	if c.Output == "" {
		return errors.New("no output file given")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Ratio <= 0 {
		return fmt.Errorf("invalid device pixel ratio %v", c.Ratio)
	}
	if c.Watch && c.Debounce <= 0 {
		return fmt.Errorf("invalid debounce %v", c.Debounce)
	}
	return nil
}

// DeviceSize returns the target size in device pixels.
func (c Config) DeviceSize() (int, int) {
	return int(float64(c.Width)*c.Ratio + 0.5), int(float64(c.Height)*c.Ratio + 0.5)
}

// lang returns "lua" or "js" for a script path, or "" when unknown.
func lang(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		return "lua"
	case ".js", ".mjs":
		return "js"
	}
	return ""
}

// parseFlags fills a Config from args, starting from DefaultConfig.
func parseFlags(args []string) (Config, error) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("vgrender", flag.ContinueOnError)
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output PNG file")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "canvas width in logical pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "canvas height in logical pixels")
	fs.Float64Var(&cfg.Ratio, "ratio", cfg.Ratio, "device pixel ratio")
	bg := fs.String("background", "", "background color as #rrggbb or #rrggbbaa (default transparent)")
	fs.BoolVar(&cfg.Watch, "watch", false, "re-render whenever the script changes")
	fs.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "delay before re-rendering in watch mode")
	fs.Uint64Var(&cfg.CPULimit, "cpu-limit", cfg.CPULimit, "Lua CPU step limit (0 for none)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "JavaScript time limit (0 for none)")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: vgrender [flags] script.lua|script.js\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return cfg, errors.New("expected exactly one script")
	}
	cfg.Script = fs.Arg(0)
	if *bg != "" {
		c, err := parseColor(*bg)
		if err != nil {
			return cfg, err
		}
		cfg.Background = c
	}
	return cfg, cfg.Validate()
}

// parseColor parses #rgb, #rrggbb or #rrggbbaa.
func parseColor(s string) (vg.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return vg.Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return vg.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return vg.RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
