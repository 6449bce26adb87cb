// Package js runs JavaScript drawing scripts against a vg.Context.
//
// Scripts see the drawing API as the global object vg with camelCase
// names (vg.beginPath, vg.fillColor, vg.text, ...). Colors are arrays
// [r, g, b, a] of floats in [0, 1]. Gradients and image patterns are
// opaque objects passed to vg.fillPaint and vg.strokePaint.
package js

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/gogpu/vg"
)

var (
	// ErrNilContext is returned by New when no context is given.
	ErrNilContext = errors.New("js: nil context")
	// ErrTimeout is returned when a script runs past Config.Timeout.
	ErrTimeout = errors.New("js: script timed out")
)

// Config bounds script execution.
type Config struct {
	// Timeout interrupts a script running longer. 0 means no limit.
	Timeout time.Duration
	// Stdout receives console output. Nil discards it.
	Stdout io.Writer
}

// DefaultConfig returns limits suitable for drawing one frame.
func DefaultConfig() Config {
	return Config{Timeout: 5 * time.Second, Stdout: os.Stdout}
}

// Engine is a JavaScript VM bound to one context. It is not safe for
// concurrent use.
type Engine struct {
	config Config
	vm     *goja.Runtime
	ctx    *vg.Context
}

// New creates an engine with console and vg globals.
func New(ctx *vg.Context, config Config) (*Engine, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if config.Stdout == nil {
		config.Stdout = io.Discard
	}
	e := &Engine{config: config, vm: goja.New(), ctx: ctx}
	e.registerConsole()
	e.register()
	return e, nil
}

// Context returns the context scripts draw to.
func (e *Engine) Context() *vg.Context { return e.ctx }

// RunString runs a script.
func (e *Engine) RunString(name, code string) error {
	prg, err := goja.Compile(name, code, false)
	if err != nil {
		return fmt.Errorf("js: compile %s: %w", name, err)
	}
	return e.guard(name, func() error {
		_, err := e.vm.RunProgram(prg)
		return err
	})
}

// RunFile reads and runs a script file.
func (e *Engine) RunFile(path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("js: read script: %w", err)
	}
	return e.RunString(path, string(code))
}

// HasFunction reports whether the script defined a global function name.
func (e *Engine) HasFunction(name string) bool {
	_, ok := goja.AssertFunction(e.vm.Get(name))
	return ok
}

// Call calls the global function name with numeric arguments.
func (e *Engine) Call(name string, args ...float64) error {
	fn, ok := goja.AssertFunction(e.vm.Get(name))
	if !ok {
		return fmt.Errorf("js: function %s not found", name)
	}
	vals := make([]goja.Value, len(args))
	for i, a := range args {
		vals[i] = e.vm.ToValue(a)
	}
	return e.guard(name, func() error {
		_, err := fn(goja.Undefined(), vals...)
		return err
	})
}

// Global returns a global variable exported to Go, or nil.
func (e *Engine) Global(name string) any {
	v := e.vm.Get(name)
	if v == nil {
		return nil
	}
	return v.Export()
}

// guard runs fn with the timeout armed and converts interrupts.
func (e *Engine) guard(name string, fn func() error) error {
	var timer *time.Timer
	if e.config.Timeout > 0 {
		timer = time.AfterFunc(e.config.Timeout, func() { e.vm.Interrupt(ErrTimeout) })
	}
	err := fn()
	if timer != nil {
		timer.Stop()
	}
	e.vm.ClearInterrupt()
	if err == nil {
		return nil
	}
	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		return fmt.Errorf("%w: %s", ErrTimeout, name)
	}
	return fmt.Errorf("js: %s: %w", name, err)
}

func (e *Engine) registerConsole() {
	console := e.vm.NewObject()
	logTo := func(prefix string) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			fmt.Fprintln(e.config.Stdout, prefix+strings.Join(parts, " "))
			return goja.Undefined()
		}
	}
	console.Set("log", logTo(""))
	console.Set("warn", logTo("WARN: "))
	console.Set("error", logTo("ERROR: "))
	e.vm.Set("console", console)
}
