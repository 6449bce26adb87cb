package js

import (
	"math"

	"github.com/dop251/goja"

	"github.com/gogpu/vg"
)

// register builds the vg object and installs it as a global.
func (e *Engine) register() {
	vm, ctx := e.vm, e.ctx
	obj := vm.NewObject()
	set := func(name string, fn func(call goja.FunctionCall) goja.Value) {
		obj.Set(name, fn)
	}
	// numeric registers a function taking exactly n numbers.
	numeric := func(name string, n int, fn func(a []float32)) {
		set(name, func(call goja.FunctionCall) goja.Value {
			fn(e.floats(name, call, n))
			return goja.Undefined()
		})
	}

	numeric("beginPath", 0, func([]float32) { ctx.BeginPath() })
	numeric("moveTo", 2, func(a []float32) { ctx.MoveTo(a[0], a[1]) })
	numeric("lineTo", 2, func(a []float32) { ctx.LineTo(a[0], a[1]) })
	numeric("bezierTo", 6, func(a []float32) { ctx.BezierTo(a[0], a[1], a[2], a[3], a[4], a[5]) })
	numeric("quadTo", 4, func(a []float32) { ctx.QuadTo(a[0], a[1], a[2], a[3]) })
	numeric("arcTo", 5, func(a []float32) { ctx.ArcTo(a[0], a[1], a[2], a[3], a[4]) })
	numeric("arc", 6, func(a []float32) { ctx.Arc(a[0], a[1], a[2], a[3], a[4], vg.Winding(a[5])) })
	numeric("rect", 4, func(a []float32) { ctx.Rect(a[0], a[1], a[2], a[3]) })
	numeric("roundedRect", 5, func(a []float32) { ctx.RoundedRect(a[0], a[1], a[2], a[3], a[4]) })
	numeric("roundedRectVarying", 8, func(a []float32) {
		ctx.RoundedRectVarying(a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7])
	})
	numeric("ellipse", 4, func(a []float32) { ctx.Ellipse(a[0], a[1], a[2], a[3]) })
	numeric("circle", 3, func(a []float32) { ctx.Circle(a[0], a[1], a[2]) })
	numeric("closePath", 0, func([]float32) { ctx.ClosePath() })
	numeric("pathWinding", 1, func(a []float32) { ctx.PathWinding(vg.Winding(a[0])) })
	numeric("fill", 0, func([]float32) { ctx.Fill() })
	numeric("stroke", 0, func([]float32) { ctx.Stroke() })

	numeric("save", 0, func([]float32) { ctx.Save() })
	numeric("restore", 0, func([]float32) { ctx.Restore() })
	numeric("reset", 0, func([]float32) { ctx.Reset() })
	numeric("strokeWidth", 1, func(a []float32) { ctx.StrokeWidth(a[0]) })
	numeric("miterLimit", 1, func(a []float32) { ctx.MiterLimit(a[0]) })
	numeric("lineCap", 1, func(a []float32) { ctx.LineCap(vg.LineCap(a[0])) })
	numeric("lineJoin", 1, func(a []float32) { ctx.LineJoin(vg.LineJoin(a[0])) })
	numeric("globalAlpha", 1, func(a []float32) { ctx.GlobalAlpha(a[0]) })
	numeric("globalCompositeOperation", 1, func(a []float32) {
		ctx.GlobalCompositeOperation(vg.CompositeOperation(a[0]))
	})
	numeric("globalCompositeBlendFunc", 2, func(a []float32) {
		ctx.GlobalCompositeBlendFunc(vg.BlendFactor(a[0]), vg.BlendFactor(a[1]))
	})
	set("shapeAntiAlias", func(call goja.FunctionCall) goja.Value {
		ctx.ShapeAntiAlias(call.Argument(0).ToBoolean())
		return goja.Undefined()
	})

	numeric("resetTransform", 0, func([]float32) { ctx.ResetTransform() })
	numeric("transform", 6, func(a []float32) { ctx.Transform(a[0], a[1], a[2], a[3], a[4], a[5]) })
	numeric("translate", 2, func(a []float32) { ctx.Translate(a[0], a[1]) })
	numeric("rotate", 1, func(a []float32) { ctx.Rotate(a[0]) })
	numeric("skewX", 1, func(a []float32) { ctx.SkewX(a[0]) })
	numeric("skewY", 1, func(a []float32) { ctx.SkewY(a[0]) })
	numeric("scale", 2, func(a []float32) { ctx.Scale(a[0], a[1]) })
	set("currentTransform", func(goja.FunctionCall) goja.Value {
		xf := ctx.CurrentTransform()
		return e.array(xf[:]...)
	})
	set("degToRad", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(vg.DegToRad(e.floats("degToRad", call, 1)[0]))
	})

	numeric("scissor", 4, func(a []float32) { ctx.Scissor(a[0], a[1], a[2], a[3]) })
	numeric("intersectScissor", 4, func(a []float32) { ctx.IntersectScissor(a[0], a[1], a[2], a[3]) })
	numeric("resetScissor", 0, func([]float32) { ctx.ResetScissor() })

	e.registerPaints(set)
	e.registerResources(set)

	for name, v := range constants {
		obj.Set(name, v)
	}
	vm.Set("vg", obj)
}

func (e *Engine) registerPaints(set func(string, func(goja.FunctionCall) goja.Value)) {
	vm, ctx := e.vm, e.ctx
	colorFn := func(name string, alpha float32, build func(a []float32) vg.Color) {
		set(name, func(call goja.FunctionCall) goja.Value {
			a := e.floatsOpt(name, call, 3, 4, alpha)
			c := build(a)
			return e.array(c.R, c.G, c.B, c.A)
		})
	}
	colorFn("rgba", 255, func(a []float32) vg.Color {
		return vg.RGBA(channel(a[0]), channel(a[1]), channel(a[2]), channel(a[3]))
	})
	colorFn("rgbaf", 1, func(a []float32) vg.Color { return vg.RGBAf(a[0], a[1], a[2], a[3]) })
	colorFn("hsl", 1, func(a []float32) vg.Color {
		c := vg.HSL(a[0], a[1], a[2])
		c.A = a[3]
		return c
	})

	set("fillColor", func(call goja.FunctionCall) goja.Value {
		ctx.FillColor(e.colorArgs("fillColor", call))
		return goja.Undefined()
	})
	set("strokeColor", func(call goja.FunctionCall) goja.Value {
		ctx.StrokeColor(e.colorArgs("strokeColor", call))
		return goja.Undefined()
	})

	gradient := func(name string, n int, build func(a []float32, icol, ocol vg.Color) vg.Paint) {
		set(name, func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < n+2 {
				panic(vm.NewTypeError("vg.%s: expected %d arguments, have %d", name, n+2, len(call.Arguments)))
			}
			a := e.floats(name, call, n)
			icol := e.color(name, call.Argument(n))
			ocol := e.color(name, call.Argument(n+1))
			p := build(a, icol, ocol)
			return vm.ToValue(&p)
		})
	}
	gradient("linearGradient", 4, func(a []float32, icol, ocol vg.Color) vg.Paint {
		return vg.LinearGradient(a[0], a[1], a[2], a[3], icol, ocol)
	})
	gradient("radialGradient", 4, func(a []float32, icol, ocol vg.Color) vg.Paint {
		return vg.RadialGradient(a[0], a[1], a[2], a[3], icol, ocol)
	})
	gradient("boxGradient", 6, func(a []float32, icol, ocol vg.Color) vg.Paint {
		return vg.BoxGradient(a[0], a[1], a[2], a[3], a[4], a[5], icol, ocol)
	})
	set("imagePattern", func(call goja.FunctionCall) goja.Value {
		a := e.floatsOpt("imagePattern", call, 6, 7, 1)
		p := vg.ImagePattern(a[0], a[1], a[2], a[3], a[4], int(a[5]), a[6])
		return vm.ToValue(&p)
	})
	set("fillPaint", func(call goja.FunctionCall) goja.Value {
		ctx.FillPaint(*e.paint("fillPaint", call))
		return goja.Undefined()
	})
	set("strokePaint", func(call goja.FunctionCall) goja.Value {
		ctx.StrokePaint(*e.paint("strokePaint", call))
		return goja.Undefined()
	})
}

func (e *Engine) registerResources(set func(string, func(goja.FunctionCall) goja.Value)) {
	vm, ctx := e.vm, e.ctx
	set("createImage", func(call goja.FunctionCall) goja.Value {
		id, err := ctx.CreateImage(call.Argument(0).String(), vg.ImageFlags(call.Argument(1).ToInteger()))
		e.check(err)
		return vm.ToValue(id)
	})
	set("imageSize", func(call goja.FunctionCall) goja.Value {
		w, h, err := ctx.ImageSize(int(call.Argument(0).ToInteger()))
		e.check(err)
		return vm.NewArray(w, h)
	})
	set("deleteImage", func(call goja.FunctionCall) goja.Value {
		e.check(ctx.DeleteImage(int(call.Argument(0).ToInteger())))
		return goja.Undefined()
	})

	set("createFont", func(call goja.FunctionCall) goja.Value {
		id, err := ctx.CreateFont(call.Argument(0).String(), call.Argument(1).String())
		e.check(err)
		return vm.ToValue(id)
	})
	set("fontFace", func(call goja.FunctionCall) goja.Value {
		e.check(ctx.FontFace(call.Argument(0).String()))
		return goja.Undefined()
	})
	set("addFallbackFont", func(call goja.FunctionCall) goja.Value {
		e.check(ctx.AddFallbackFont(call.Argument(0).String(), call.Argument(1).String()))
		return goja.Undefined()
	})
	numeric := func(name string, fn func(float32)) {
		set(name, func(call goja.FunctionCall) goja.Value {
			fn(e.floats(name, call, 1)[0])
			return goja.Undefined()
		})
	}
	numeric("fontSize", ctx.FontSize)
	numeric("fontBlur", ctx.FontBlur)
	numeric("textLetterSpacing", ctx.TextLetterSpacing)
	numeric("textLineHeight", ctx.TextLineHeight)
	numeric("textAlign", func(v float32) { ctx.TextAlign(vg.Align(v)) })

	set("text", func(call goja.FunctionCall) goja.Value {
		a := e.floats("text", call, 2)
		return vm.ToValue(ctx.Text(a[0], a[1], call.Argument(2).String()))
	})
	set("textBox", func(call goja.FunctionCall) goja.Value {
		a := e.floats("textBox", call, 3)
		ctx.TextBox(a[0], a[1], a[2], call.Argument(3).String())
		return goja.Undefined()
	})
	set("textBounds", func(call goja.FunctionCall) goja.Value {
		a := e.floats("textBounds", call, 2)
		adv, b := ctx.TextBounds(a[0], a[1], call.Argument(2).String())
		res := vm.NewObject()
		res.Set("advance", adv)
		res.Set("bounds", e.array(b[:]...))
		return res
	})
	set("textMetrics", func(goja.FunctionCall) goja.Value {
		asc, desc, lineh := ctx.TextMetrics()
		return vm.ToValue(map[string]any{"ascender": asc, "descender": desc, "lineHeight": lineh})
	})
}

// check raises err as a JavaScript exception.
func (e *Engine) check(err error) {
	if err != nil {
		panic(e.vm.NewGoError(err))
	}
}

func (e *Engine) floats(name string, call goja.FunctionCall, n int) []float32 {
	return e.floatsOpt(name, call, n, n, 0)
}

// floatsOpt reads between required and total numbers; missing optional
// ones are set to def. Bad arguments throw a TypeError.
func (e *Engine) floatsOpt(name string, call goja.FunctionCall, required, total int, def float32) []float32 {
	if len(call.Arguments) < required {
		panic(e.vm.NewTypeError("vg.%s: expected %d arguments, have %d", name, required, len(call.Arguments)))
	}
	out := make([]float32, total)
	for i := range out {
		v := call.Argument(i)
		if goja.IsUndefined(v) || goja.IsNull(v) {
			if i < required {
				panic(e.vm.NewTypeError("vg.%s: argument %d is missing", name, i+1))
			}
			out[i] = def
			continue
		}
		f := v.ToFloat()
		if math.IsNaN(f) {
			panic(e.vm.NewTypeError("vg.%s: argument %d is not a number", name, i+1))
		}
		out[i] = float32(f)
	}
	return out
}

// color reads an [r, g, b, a?] array.
func (e *Engine) color(name string, v goja.Value) vg.Color {
	var ch []float64
	if err := e.vm.ExportTo(v, &ch); err != nil || len(ch) < 3 {
		panic(e.vm.NewTypeError("vg.%s: color must be an array [r, g, b, a]", name))
	}
	a := 1.0
	if len(ch) > 3 {
		a = ch[3]
	}
	return vg.RGBAf(float32(ch[0]), float32(ch[1]), float32(ch[2]), float32(a))
}

// colorArgs accepts either a color array or r, g, b[, a] numbers.
func (e *Engine) colorArgs(name string, call goja.FunctionCall) vg.Color {
	if len(call.Arguments) == 1 {
		return e.color(name, call.Argument(0))
	}
	a := e.floatsOpt(name, call, 3, 4, 1)
	return vg.RGBAf(a[0], a[1], a[2], a[3])
}

func (e *Engine) paint(name string, call goja.FunctionCall) *vg.Paint {
	p, ok := call.Argument(0).Export().(*vg.Paint)
	if !ok {
		panic(e.vm.NewTypeError("vg.%s: argument is not a paint", name))
	}
	return p
}

// array returns vs as a native JavaScript array of numbers.
func (e *Engine) array(vs ...float32) goja.Value {
	items := make([]any, len(vs))
	for i, v := range vs {
		items[i] = float64(v)
	}
	return e.vm.NewArray(items...)
}

func channel(v float32) uint8 {
	return uint8(min(max(v, 0), 255))
}

var constants = map[string]int{
	"CCW":   int(vg.CCW),
	"CW":    int(vg.CW),
	"SOLID": int(vg.Solid),
	"HOLE":  int(vg.Hole),

	"BUTT":   int(vg.Butt),
	"ROUND":  int(vg.RoundCap),
	"SQUARE": int(vg.SquareCap),
	"MITER":  int(vg.Miter),
	"BEVEL":  int(vg.Bevel),

	"ALIGN_LEFT":     int(vg.AlignLeft),
	"ALIGN_CENTER":   int(vg.AlignCenter),
	"ALIGN_RIGHT":    int(vg.AlignRight),
	"ALIGN_TOP":      int(vg.AlignTop),
	"ALIGN_MIDDLE":   int(vg.AlignMiddle),
	"ALIGN_BOTTOM":   int(vg.AlignBottom),
	"ALIGN_BASELINE": int(vg.AlignBaseline),

	"SOURCE_OVER":      int(vg.SourceOver),
	"SOURCE_IN":        int(vg.SourceIn),
	"SOURCE_OUT":       int(vg.SourceOut),
	"ATOP":             int(vg.Atop),
	"DESTINATION_OVER": int(vg.DestinationOver),
	"DESTINATION_IN":   int(vg.DestinationIn),
	"DESTINATION_OUT":  int(vg.DestinationOut),
	"DESTINATION_ATOP": int(vg.DestinationAtop),
	"LIGHTER":          int(vg.Lighter),
	"COPY":             int(vg.Copy),
	"XOR":              int(vg.Xor),

	"ZERO":                int(vg.BlendZero),
	"ONE":                 int(vg.BlendOne),
	"SRC_COLOR":           int(vg.BlendSrcColor),
	"ONE_MINUS_SRC_COLOR": int(vg.BlendOneMinusSrcColor),
	"DST_COLOR":           int(vg.BlendDstColor),
	"ONE_MINUS_DST_COLOR": int(vg.BlendOneMinusDstColor),
	"SRC_ALPHA":           int(vg.BlendSrcAlpha),
	"ONE_MINUS_SRC_ALPHA": int(vg.BlendOneMinusSrcAlpha),
	"DST_ALPHA":           int(vg.BlendDstAlpha),
	"ONE_MINUS_DST_ALPHA": int(vg.BlendOneMinusDstAlpha),
	"SRC_ALPHA_SATURATE":  int(vg.BlendSrcAlphaSaturate),

	"IMAGE_GENERATE_MIPMAPS": int(vg.ImageGenerateMipmaps),
	"IMAGE_REPEATX":          int(vg.ImageRepeatX),
	"IMAGE_REPEATY":          int(vg.ImageRepeatY),
	"IMAGE_FLIPY":            int(vg.ImageFlipY),
	"IMAGE_PREMULTIPLIED":    int(vg.ImagePremultiplied),
	"IMAGE_NEAREST":          int(vg.ImageNearest),
}
