package main

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend/soft"
	"github.com/gogpu/vg/internal/imageio"
	"github.com/gogpu/vg/script/js"
	"github.com/gogpu/vg/script/lua"
)

// DefaultFont is the name of the built-in font scripts can select.
const DefaultFont = "sans"

// script is the part of the Lua and JavaScript hosts the renderer uses.
type script interface {
	RunFile(path string) error
	HasFunction(name string) bool
	Call(name string, args ...float64) error
}

func newScript(cfg Config, ctx *vg.Context) (script, func(), error) {
	switch lang(cfg.Script) {
	case "lua":
		r, err := lua.New(ctx, lua.Config{CPULimit: cfg.CPULimit, MemoryLimit: lua.DefaultConfig().MemoryLimit, Stdout: logWriter{}})
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	case "js":
		e, err := js.New(ctx, js.Config{Timeout: cfg.Timeout, Stdout: logWriter{}})
		if err != nil {
			return nil, nil, err
		}
		return e, func() {}, nil
	}
	return nil, nil, fmt.Errorf("script %s: unknown language", cfg.Script)
}

// render runs the script once and writes the PNG.
//
// The script body runs inside the frame. When it defines
// draw(width, height, ratio), that function is called afterwards.
func render(cfg Config) error {
	start := time.Now()
	w, h := cfg.DeviceSize()
	b := soft.New(w, h)
	ctx, err := vg.NewContext(b, vg.Antialias)
	if err != nil {
		return err
	}
	defer ctx.Delete()
	if _, err := ctx.CreateFontMem(DefaultFont, goregular.TTF); err != nil {
		return fmt.Errorf("load default font: %w", err)
	}
	b.Clear(cfg.Background)

	s, closeScript, err := newScript(cfg, ctx)
	if err != nil {
		return err
	}
	defer closeScript()

	if err := ctx.BeginFrame(float32(cfg.Width), float32(cfg.Height), float32(cfg.Ratio)); err != nil {
		return err
	}
	if err := s.RunFile(cfg.Script); err != nil {
		_ = ctx.CancelFrame()
		return err
	}
	if s.HasFunction("draw") {
		if err := s.Call("draw", float64(cfg.Width), float64(cfg.Height), cfg.Ratio); err != nil {
			_ = ctx.CancelFrame()
			return err
		}
	}
	if err := ctx.EndFrame(); err != nil {
		return err
	}
	if err := imageio.SavePNG(cfg.Output, b.Image()); err != nil {
		return err
	}

	st := ctx.Stats()
	slog.Info("rendered", "script", cfg.Script, "output", cfg.Output,
		"size", fmt.Sprintf("%dx%d", w, h), "draw_calls", st.DrawCalls,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// logWriter forwards script print output to the logger.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	msg := string(p)
	for len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	slog.Info("script", "output", msg)
	return len(p), nil
}
