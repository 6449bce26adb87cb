package lua

import (
	"fmt"

	rt "github.com/arnodel/golua/runtime"

	"github.com/gogpu/vg"
)

func floatArg(args []rt.Value, idx int) (float32, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("argument %d out of range (have %d)", idx+1, len(args))
	}
	if f, ok := args[idx].TryFloat(); ok {
		return float32(f), nil
	}
	if i, ok := args[idx].TryInt(); ok {
		return float32(i), nil
	}
	return 0, fmt.Errorf("argument %d is not a number", idx+1)
}

// floats reads the first n arguments as numbers.
func floats(args []rt.Value, n int) ([]float32, error) {
	return floatsOpt(args, n, n, 0)
}

// floatsOpt reads between required and total numbers; missing optional
// ones are set to def.
func floatsOpt(args []rt.Value, required, total int, def float32) ([]float32, error) {
	if len(args) < required {
		return nil, fmt.Errorf("expected %d arguments, have %d", required, len(args))
	}
	out := make([]float32, total)
	for i := range out {
		if i >= len(args) || args[i] == rt.NilValue {
			if i < required {
				return nil, fmt.Errorf("argument %d is nil", i+1)
			}
			out[i] = def
			continue
		}
		f, err := floatArg(args, i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func intArg(args []rt.Value, idx int) (int64, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("argument %d out of range (have %d)", idx+1, len(args))
	}
	if i, ok := args[idx].TryInt(); ok {
		return i, nil
	}
	if f, ok := args[idx].TryFloat(); ok {
		return int64(f), nil
	}
	return 0, fmt.Errorf("argument %d is not an integer", idx+1)
}

func stringArg(args []rt.Value, idx int) (string, error) {
	if idx >= len(args) {
		return "", fmt.Errorf("argument %d out of range (have %d)", idx+1, len(args))
	}
	if s, ok := args[idx].TryString(); ok {
		return s, nil
	}
	return "", fmt.Errorf("argument %d is not a string", idx+1)
}

// floatsAndString reads n numbers followed by a string.
func floatsAndString(args []rt.Value, n int) ([]float32, string, error) {
	a, err := floats(args, n)
	if err != nil {
		return nil, "", err
	}
	s, err := stringArg(args, n)
	if err != nil {
		return nil, "", err
	}
	return a, s, nil
}

func numbers(vs ...float32) []rt.Value {
	out := make([]rt.Value, len(vs))
	for i, v := range vs {
		out[i] = rt.FloatValue(float64(v))
	}
	return out
}

// colorValue returns c as a Lua table {r, g, b, a}.
func colorValue(c vg.Color) rt.Value {
	tbl := rt.NewTable()
	for i, v := range [4]float32{c.R, c.G, c.B, c.A} {
		tbl.Set(rt.IntValue(int64(i+1)), rt.FloatValue(float64(v)))
	}
	return rt.TableValue(tbl)
}

// colorValueArg reads a {r, g, b[, a]} table.
func colorValueArg(v rt.Value) (vg.Color, error) {
	tbl, ok := v.TryTable()
	if !ok {
		return vg.Color{}, fmt.Errorf("color is not a table")
	}
	var ch [4]float32
	ch[3] = 1
	for i := range ch {
		e := tbl.Get(rt.IntValue(int64(i + 1)))
		if e == rt.NilValue {
			if i < 3 {
				return vg.Color{}, fmt.Errorf("color has no component %d", i+1)
			}
			continue
		}
		f, err := floatArg([]rt.Value{e}, 0)
		if err != nil {
			return vg.Color{}, fmt.Errorf("color component %d: %w", i+1, err)
		}
		ch[i] = f
	}
	return vg.RGBAf(ch[0], ch[1], ch[2], ch[3]), nil
}

// colorArgs accepts either a color table or r, g, b[, a] floats.
func colorArgs(args []rt.Value) (vg.Color, error) {
	if len(args) == 1 {
		return colorValueArg(args[0])
	}
	a, err := floatsOpt(args, 3, 4, 1)
	if err != nil {
		return vg.Color{}, err
	}
	return vg.RGBAf(a[0], a[1], a[2], a[3]), nil
}

func paintArg(args []rt.Value) (*vg.Paint, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("expected a paint")
	}
	ud, ok := args[0].TryUserData()
	if !ok {
		return nil, fmt.Errorf("argument 1 is not a paint")
	}
	p, ok := ud.Value().(*vg.Paint)
	if !ok {
		return nil, fmt.Errorf("argument 1 is not a paint")
	}
	return p, nil
}
