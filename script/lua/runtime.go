// Package lua runs Lua drawing scripts against a vg.Context.
//
// Scripts see the drawing API as the global table vg, with snake_case
// names (vg.begin_path, vg.fill_color, vg.text, ...). Colors are tables
// {r, g, b, a} of floats in [0, 1]; vg.rgba, vg.rgbaf and vg.hsl build
// them. Gradients and image patterns are userdata passed to
// vg.fill_paint and vg.stroke_paint.
//
// Execution is bounded by the CPU and memory limits of Config.
package lua

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"

	"github.com/gogpu/vg"
)

var (
	// ErrNilContext is returned by New when no context is given.
	ErrNilContext = errors.New("lua: nil context")
	// ErrLimitExceeded is returned when a script runs past the CPU or
	// memory limit.
	ErrLimitExceeded = errors.New("lua: resource limit exceeded")
)

// Config bounds the resources a script may use.
type Config struct {
	// CPULimit is the maximum number of CPU steps per execution. 0 means
	// unlimited.
	CPULimit uint64
	// MemoryLimit is the maximum memory in bytes per execution. 0 means
	// unlimited.
	MemoryLimit uint64
	// Stdout receives print output. Nil discards it.
	Stdout io.Writer
}

// DefaultConfig returns limits suitable for drawing one frame.
func DefaultConfig() Config {
	return Config{
		CPULimit:    10_000_000,
		MemoryLimit: 50 * 1024 * 1024,
		Stdout:      os.Stdout,
	}
}

// Runtime is a Lua state bound to one context. It is not safe for
// concurrent use, like the context it draws to.
type Runtime struct {
	config  Config
	runtime *rt.Runtime
	ctx     *vg.Context
	cleanup func()
}

// New creates a runtime with the standard library and the vg table
// loaded.
func New(ctx *vg.Context, config Config) (*Runtime, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	stdout := config.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	runtime := rt.New(stdout)
	r := &Runtime{
		config:  config,
		runtime: runtime,
		ctx:     ctx,
		cleanup: lib.LoadAll(runtime),
	}
	r.register()
	return r, nil
}

// Context returns the context scripts draw to.
func (r *Runtime) Context() *vg.Context { return r.ctx }

// Load compiles a chunk without running it.
func (r *Runtime) Load(name string, code []byte) (*rt.Closure, error) {
	closure, err := r.runtime.CompileAndLoadLuaChunk(name, code, rt.TableValue(r.runtime.GlobalEnv()))
	if err != nil {
		return nil, fmt.Errorf("lua: load %s: %w", name, err)
	}
	return closure, nil
}

// RunString compiles and runs a chunk.
func (r *Runtime) RunString(name, code string) error {
	closure, err := r.Load(name, []byte(code))
	if err != nil {
		return err
	}
	_, err = r.call(rt.FunctionValue(closure))
	if err != nil {
		return fmt.Errorf("lua: run %s: %w", name, err)
	}
	return nil
}

// RunFile reads, compiles and runs a script file.
func (r *Runtime) RunFile(path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("lua: read script: %w", err)
	}
	return r.RunString(path, string(code))
}

// HasFunction reports whether the script defined a global function name.
func (r *Runtime) HasFunction(name string) bool {
	return r.runtime.GlobalEnv().Get(rt.StringValue(name)).Type() == rt.FunctionType
}

// Call calls the global function name with numeric arguments.
func (r *Runtime) Call(name string, args ...float64) error {
	fn := r.runtime.GlobalEnv().Get(rt.StringValue(name))
	if fn == rt.NilValue {
		return fmt.Errorf("lua: function %s not found", name)
	}
	vals := make([]rt.Value, len(args))
	for i, a := range args {
		vals[i] = rt.FloatValue(a)
	}
	if _, err := r.call(fn, vals...); err != nil {
		return fmt.Errorf("lua: call %s: %w", name, err)
	}
	return nil
}

// Global returns a global variable.
func (r *Runtime) Global(name string) rt.Value {
	return r.runtime.GlobalEnv().Get(rt.StringValue(name))
}

// call runs fn under the configured limits. golua panics when a hard
// limit is hit; the panic is returned as ErrLimitExceeded.
func (r *Runtime) call(fn rt.Value, args ...rt.Value) (v rt.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			v, err = rt.NilValue, fmt.Errorf("%w: %v", ErrLimitExceeded, p)
		}
	}()
	r.runtime.PushContext(rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    r.config.CPULimit,
			Memory: r.config.MemoryLimit,
		},
	})
	defer r.runtime.PopContext()
	return rt.Call1(r.runtime.MainThread(), fn, args...)
}

// Close releases the Lua state. The context is not deleted.
func (r *Runtime) Close() error {
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
	return nil
}
