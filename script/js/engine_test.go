package js

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend/recorder"
)

func newEngine(t *testing.T, config Config) (*Engine, *recorder.Recorder) {
	t.Helper()
	rec := recorder.New()
	ctx, err := vg.NewContext(rec, vg.Antialias)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	t.Cleanup(ctx.Delete)
	e, err := New(ctx, config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, rec
}

func run(t *testing.T, e *Engine, rec *recorder.Recorder, code string) []recorder.Call {
	t.Helper()
	ctx := e.Context()
	if err := ctx.BeginFrame(200, 100, 1); err != nil {
		t.Fatal(err)
	}
	if err := e.RunString("test.js", code); err != nil {
		_ = ctx.CancelFrame()
		t.Fatalf("RunString: %v", err)
	}
	if err := ctx.EndFrame(); err != nil {
		t.Fatal(err)
	}
	if len(rec.Frames) == 0 {
		t.Fatal("no frame recorded")
	}
	return rec.Frames[len(rec.Frames)-1].Calls
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func TestNewNilContext(t *testing.T) {
	if _, err := New(nil, DefaultConfig()); !errors.Is(err, ErrNilContext) {
		t.Errorf("err = %v, want ErrNilContext", err)
	}
}

func TestFillAndStroke(t *testing.T) {
	e, rec := newEngine(t, Config{})
	calls := run(t, e, rec, `
		vg.beginPath();
		vg.rect(10, 10, 50, 30);
		vg.fillColor(vg.rgba(255, 0, 0));
		vg.fill();
		vg.beginPath();
		vg.moveTo(0, 50);
		vg.lineTo(200, 50);
		vg.strokeColor(0, 1, 0, 0.5);
		vg.strokeWidth(2);
		vg.lineCap(vg.ROUND);
		vg.stroke();
	`)
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	if calls[0].Op != recorder.OpFill || calls[1].Op != recorder.OpStroke {
		t.Fatalf("ops = %s, %s", calls[0].Op, calls[1].Op)
	}
	if got := calls[0].Paint.InnerColor; got != vg.RGBAf(1, 0, 0, 1) {
		t.Errorf("fill color = %+v", got)
	}
	if got := calls[1].Paint.InnerColor; got != vg.RGBAf(0, 1, 0, 0.5) {
		t.Errorf("stroke color = %+v", got)
	}
	if calls[1].StrokeWidth != 2 {
		t.Errorf("stroke width = %v", calls[1].StrokeWidth)
	}
}

func TestDrawFunction(t *testing.T) {
	e, rec := newEngine(t, Config{})
	if err := e.RunString("defs.js", `
		function draw(w, h) {
			vg.beginPath();
			vg.rect(0, 0, w, h);
			vg.fill();
		}
	`); err != nil {
		t.Fatal(err)
	}
	if !e.HasFunction("draw") {
		t.Fatal("draw not defined")
	}
	if e.HasFunction("missing") {
		t.Error("HasFunction reported an undefined function")
	}
	ctx := e.Context()
	if err := ctx.BeginFrame(200, 100, 1); err != nil {
		t.Fatal(err)
	}
	if err := e.Call("draw", 150, 60); err != nil {
		t.Fatal(err)
	}
	if err := ctx.EndFrame(); err != nil {
		t.Fatal(err)
	}
	calls := rec.Frames[0].Calls
	if len(calls) != 1 {
		t.Fatalf("got %d calls", len(calls))
	}
	if b := calls[0].Bounds; math.Abs(float64(b[2]-150)) > 1e-3 || math.Abs(float64(b[3]-60)) > 1e-3 {
		t.Errorf("bounds = %v", b)
	}
	if err := e.Call("missing"); err == nil {
		t.Error("calling an undefined function succeeded")
	}
}

func TestGradientPaint(t *testing.T) {
	e, rec := newEngine(t, Config{})
	calls := run(t, e, rec, `
		const p = vg.radialGradient(50, 50, 10, 40, [1, 1, 1], [0, 0, 1, 0]);
		vg.beginPath();
		vg.circle(50, 50, 40);
		vg.fillPaint(p);
		vg.fill();
	`)
	if len(calls) != 1 {
		t.Fatalf("got %d calls", len(calls))
	}
	p := calls[0].Paint
	if p.InnerColor != vg.RGBAf(1, 1, 1, 1) || p.OuterColor != vg.RGBAf(0, 0, 1, 0) {
		t.Errorf("colors = %+v, %+v", p.InnerColor, p.OuterColor)
	}
	if p.Radius != 25 || p.Feather != 30 {
		t.Errorf("radius, feather = %v, %v; want 25, 30", p.Radius, p.Feather)
	}
}

func TestCurrentTransform(t *testing.T) {
	e, _ := newEngine(t, Config{})
	if err := e.RunString("xf.js", `
		vg.translate(10, 20);
		vg.scale(2, 3);
		var xf = vg.currentTransform();
	`); err != nil {
		t.Fatal(err)
	}
	got, ok := e.Global("xf").([]any)
	if !ok || len(got) != 6 {
		t.Fatalf("xf = %#v", e.Global("xf"))
	}
	want := []float64{2, 0, 0, 3, 10, 20}
	for i, w := range want {
		if v, ok := toFloat(got[i]); !ok || v != w {
			t.Errorf("xf[%d] = %v, want %v", i, got[i], w)
		}
	}
}

func TestConstants(t *testing.T) {
	e, _ := newEngine(t, Config{})
	if err := e.RunString("consts.js", `
		if (vg.SOLID !== vg.CCW || vg.HOLE !== vg.CW) throw new Error("winding");
		if (vg.BEVEL !== 2 || vg.XOR !== 10) throw new Error("styles");
	`); err != nil {
		t.Fatal(err)
	}
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	e, _ := newEngine(t, Config{Stdout: &out})
	if err := e.RunString("log.js", `console.log("hello", 42); console.warn("careful");`); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "hello 42\nWARN: careful\n" {
		t.Errorf("console output = %q", got)
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"missing", "vg.moveTo(1);", "vg.moveTo"},
		{"not a number", `vg.lineTo("a", 1);`, "not a number"},
		{"not a paint", "vg.fillPaint(1);", "not a paint"},
		{"bad color", "vg.linearGradient(0, 0, 1, 1, 5, [0, 0, 0]);", "color must be an array"},
		{"unknown font", `vg.fontFace("nope");`, "font"},
		{"syntax", "vg.beginPath(", "compile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEngine(t, Config{})
			err := e.RunString("bad.js", tt.code)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	e, _ := newEngine(t, Config{Timeout: 50 * time.Millisecond})
	err := e.RunString("loop.js", "for (;;) {}")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	// The engine stays usable after an interrupt.
	if err := e.RunString("ok.js", "var x = 1;"); err != nil {
		t.Errorf("run after timeout: %v", err)
	}
}
