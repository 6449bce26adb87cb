package lua

import (
	"fmt"

	rt "github.com/arnodel/golua/runtime"

	"github.com/gogpu/vg"
)

// binding implements one vg table function over its flattened arguments.
type binding func(args []rt.Value) ([]rt.Value, error)

// register builds the vg table and installs it as a global.
func (r *Runtime) register() {
	tbl := rt.NewTable()
	set := func(name string, fn binding) {
		f := func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
			out, err := fn(append(c.Args(), c.Etc()...))
			if err != nil {
				return nil, fmt.Errorf("vg.%s: %w", name, err)
			}
			return c.PushingNext(t.Runtime, out...), nil
		}
		goFunc := rt.NewGoFunction(f, name, 0, true)
		rt.SolemnlyDeclareCompliance(rt.ComplyMemSafe|rt.ComplyCpuSafe, goFunc)
		tbl.Set(rt.StringValue(name), rt.FunctionValue(goFunc))
	}
	// numeric registers a function taking exactly n numbers.
	numeric := func(name string, n int, fn func(a []float32)) {
		set(name, func(args []rt.Value) ([]rt.Value, error) {
			a, err := floats(args, n)
			if err != nil {
				return nil, err
			}
			fn(a)
			return nil, nil
		})
	}
	ctx := r.ctx

	numeric("begin_path", 0, func([]float32) { ctx.BeginPath() })
	numeric("move_to", 2, func(a []float32) { ctx.MoveTo(a[0], a[1]) })
	numeric("line_to", 2, func(a []float32) { ctx.LineTo(a[0], a[1]) })
	numeric("bezier_to", 6, func(a []float32) { ctx.BezierTo(a[0], a[1], a[2], a[3], a[4], a[5]) })
	numeric("quad_to", 4, func(a []float32) { ctx.QuadTo(a[0], a[1], a[2], a[3]) })
	numeric("arc_to", 5, func(a []float32) { ctx.ArcTo(a[0], a[1], a[2], a[3], a[4]) })
	numeric("arc", 6, func(a []float32) { ctx.Arc(a[0], a[1], a[2], a[3], a[4], vg.Winding(a[5])) })
	numeric("rect", 4, func(a []float32) { ctx.Rect(a[0], a[1], a[2], a[3]) })
	numeric("rounded_rect", 5, func(a []float32) { ctx.RoundedRect(a[0], a[1], a[2], a[3], a[4]) })
	numeric("rounded_rect_varying", 8, func(a []float32) {
		ctx.RoundedRectVarying(a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7])
	})
	numeric("ellipse", 4, func(a []float32) { ctx.Ellipse(a[0], a[1], a[2], a[3]) })
	numeric("circle", 3, func(a []float32) { ctx.Circle(a[0], a[1], a[2]) })
	numeric("close_path", 0, func([]float32) { ctx.ClosePath() })
	numeric("path_winding", 1, func(a []float32) { ctx.PathWinding(vg.Winding(a[0])) })
	numeric("fill", 0, func([]float32) { ctx.Fill() })
	numeric("stroke", 0, func([]float32) { ctx.Stroke() })

	numeric("save", 0, func([]float32) { ctx.Save() })
	numeric("restore", 0, func([]float32) { ctx.Restore() })
	numeric("reset", 0, func([]float32) { ctx.Reset() })
	numeric("stroke_width", 1, func(a []float32) { ctx.StrokeWidth(a[0]) })
	numeric("miter_limit", 1, func(a []float32) { ctx.MiterLimit(a[0]) })
	numeric("line_cap", 1, func(a []float32) { ctx.LineCap(vg.LineCap(a[0])) })
	numeric("line_join", 1, func(a []float32) { ctx.LineJoin(vg.LineJoin(a[0])) })
	numeric("global_alpha", 1, func(a []float32) { ctx.GlobalAlpha(a[0]) })
	numeric("global_composite_operation", 1, func(a []float32) {
		ctx.GlobalCompositeOperation(vg.CompositeOperation(a[0]))
	})
	numeric("global_composite_blend_func", 2, func(a []float32) {
		ctx.GlobalCompositeBlendFunc(vg.BlendFactor(a[0]), vg.BlendFactor(a[1]))
	})
	set("shape_anti_alias", func(args []rt.Value) ([]rt.Value, error) {
		if len(args) < 1 {
			return nil, fmt.Errorf("expected 1 argument")
		}
		ctx.ShapeAntiAlias(rt.Truth(args[0]))
		return nil, nil
	})

	numeric("reset_transform", 0, func([]float32) { ctx.ResetTransform() })
	numeric("transform", 6, func(a []float32) { ctx.Transform(a[0], a[1], a[2], a[3], a[4], a[5]) })
	numeric("translate", 2, func(a []float32) { ctx.Translate(a[0], a[1]) })
	numeric("rotate", 1, func(a []float32) { ctx.Rotate(a[0]) })
	numeric("skew_x", 1, func(a []float32) { ctx.SkewX(a[0]) })
	numeric("skew_y", 1, func(a []float32) { ctx.SkewY(a[0]) })
	numeric("scale", 2, func(a []float32) { ctx.Scale(a[0], a[1]) })
	set("current_transform", func([]rt.Value) ([]rt.Value, error) {
		xf := ctx.CurrentTransform()
		return numbers(xf[:]...), nil
	})
	set("deg_to_rad", func(args []rt.Value) ([]rt.Value, error) {
		a, err := floats(args, 1)
		if err != nil {
			return nil, err
		}
		return numbers(vg.DegToRad(a[0])), nil
	})

	numeric("scissor", 4, func(a []float32) { ctx.Scissor(a[0], a[1], a[2], a[3]) })
	numeric("intersect_scissor", 4, func(a []float32) { ctx.IntersectScissor(a[0], a[1], a[2], a[3]) })
	numeric("reset_scissor", 0, func([]float32) { ctx.ResetScissor() })

	r.registerPaints(set)
	r.registerResources(set)

	for name, v := range constants {
		tbl.Set(rt.StringValue(name), rt.IntValue(v))
	}
	r.runtime.GlobalEnv().Set(rt.StringValue("vg"), rt.TableValue(tbl))
}

func (r *Runtime) registerPaints(set func(string, binding)) {
	ctx := r.ctx
	colorFn := func(alpha float32, build func(a []float32) vg.Color) binding {
		return func(args []rt.Value) ([]rt.Value, error) {
			a, err := floatsOpt(args, 3, 4, alpha)
			if err != nil {
				return nil, err
			}
			return []rt.Value{colorValue(build(a))}, nil
		}
	}
	set("rgba", colorFn(255, func(a []float32) vg.Color {
		return vg.RGBA(channel(a[0]), channel(a[1]), channel(a[2]), channel(a[3]))
	}))
	set("rgbaf", colorFn(1, func(a []float32) vg.Color { return vg.RGBAf(a[0], a[1], a[2], a[3]) }))
	set("hsl", colorFn(1, func(a []float32) vg.Color {
		c := vg.HSL(a[0], a[1], a[2])
		c.A = a[3]
		return c
	}))

	set("fill_color", func(args []rt.Value) ([]rt.Value, error) {
		c, err := colorArgs(args)
		if err != nil {
			return nil, err
		}
		ctx.FillColor(c)
		return nil, nil
	})
	set("stroke_color", func(args []rt.Value) ([]rt.Value, error) {
		c, err := colorArgs(args)
		if err != nil {
			return nil, err
		}
		ctx.StrokeColor(c)
		return nil, nil
	})

	gradient := func(n int, build func(a []float32, icol, ocol vg.Color) vg.Paint) binding {
		return func(args []rt.Value) ([]rt.Value, error) {
			if len(args) < n+2 {
				return nil, fmt.Errorf("expected %d arguments, have %d", n+2, len(args))
			}
			a, err := floats(args[:n], n)
			if err != nil {
				return nil, err
			}
			icol, err := colorValueArg(args[n])
			if err != nil {
				return nil, fmt.Errorf("inner color: %w", err)
			}
			ocol, err := colorValueArg(args[n+1])
			if err != nil {
				return nil, fmt.Errorf("outer color: %w", err)
			}
			p := build(a, icol, ocol)
			return []rt.Value{rt.UserDataValue(rt.NewUserData(&p, nil))}, nil
		}
	}
	set("linear_gradient", gradient(4, func(a []float32, icol, ocol vg.Color) vg.Paint {
		return vg.LinearGradient(a[0], a[1], a[2], a[3], icol, ocol)
	}))
	set("radial_gradient", gradient(4, func(a []float32, icol, ocol vg.Color) vg.Paint {
		return vg.RadialGradient(a[0], a[1], a[2], a[3], icol, ocol)
	}))
	set("box_gradient", gradient(6, func(a []float32, icol, ocol vg.Color) vg.Paint {
		return vg.BoxGradient(a[0], a[1], a[2], a[3], a[4], a[5], icol, ocol)
	}))
	set("image_pattern", func(args []rt.Value) ([]rt.Value, error) {
		a, err := floatsOpt(args, 6, 7, 1)
		if err != nil {
			return nil, err
		}
		p := vg.ImagePattern(a[0], a[1], a[2], a[3], a[4], int(a[5]), a[6])
		return []rt.Value{rt.UserDataValue(rt.NewUserData(&p, nil))}, nil
	})
	set("fill_paint", func(args []rt.Value) ([]rt.Value, error) {
		p, err := paintArg(args)
		if err != nil {
			return nil, err
		}
		ctx.FillPaint(*p)
		return nil, nil
	})
	set("stroke_paint", func(args []rt.Value) ([]rt.Value, error) {
		p, err := paintArg(args)
		if err != nil {
			return nil, err
		}
		ctx.StrokePaint(*p)
		return nil, nil
	})
}

func (r *Runtime) registerResources(set func(string, binding)) {
	ctx := r.ctx
	set("create_image", func(args []rt.Value) ([]rt.Value, error) {
		path, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		var flags int64
		if len(args) > 1 {
			if flags, err = intArg(args, 1); err != nil {
				return nil, err
			}
		}
		id, err := ctx.CreateImage(path, vg.ImageFlags(flags))
		if err != nil {
			return nil, err
		}
		return []rt.Value{rt.IntValue(int64(id))}, nil
	})
	set("image_size", func(args []rt.Value) ([]rt.Value, error) {
		id, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		w, h, err := ctx.ImageSize(int(id))
		if err != nil {
			return nil, err
		}
		return []rt.Value{rt.IntValue(int64(w)), rt.IntValue(int64(h))}, nil
	})
	set("delete_image", func(args []rt.Value) ([]rt.Value, error) {
		id, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, ctx.DeleteImage(int(id))
	})

	set("create_font", func(args []rt.Value) ([]rt.Value, error) {
		name, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		path, err := stringArg(args, 1)
		if err != nil {
			return nil, err
		}
		id, err := ctx.CreateFont(name, path)
		if err != nil {
			return nil, err
		}
		return []rt.Value{rt.IntValue(int64(id))}, nil
	})
	set("font_face", func(args []rt.Value) ([]rt.Value, error) {
		name, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, ctx.FontFace(name)
	})
	set("add_fallback_font", func(args []rt.Value) ([]rt.Value, error) {
		base, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		fallback, err := stringArg(args, 1)
		if err != nil {
			return nil, err
		}
		return nil, ctx.AddFallbackFont(base, fallback)
	})
	numberSetter := func(name string, fn func(float32)) {
		set(name, func(args []rt.Value) ([]rt.Value, error) {
			a, err := floats(args, 1)
			if err != nil {
				return nil, err
			}
			fn(a[0])
			return nil, nil
		})
	}
	numberSetter("font_size", ctx.FontSize)
	numberSetter("font_blur", ctx.FontBlur)
	numberSetter("text_letter_spacing", ctx.TextLetterSpacing)
	numberSetter("text_line_height", ctx.TextLineHeight)
	numberSetter("text_align", func(v float32) { ctx.TextAlign(vg.Align(v)) })

	set("text", func(args []rt.Value) ([]rt.Value, error) {
		a, s, err := floatsAndString(args, 2)
		if err != nil {
			return nil, err
		}
		return numbers(ctx.Text(a[0], a[1], s)), nil
	})
	set("text_box", func(args []rt.Value) ([]rt.Value, error) {
		a, s, err := floatsAndString(args, 3)
		if err != nil {
			return nil, err
		}
		ctx.TextBox(a[0], a[1], a[2], s)
		return nil, nil
	})
	set("text_bounds", func(args []rt.Value) ([]rt.Value, error) {
		a, s, err := floatsAndString(args, 2)
		if err != nil {
			return nil, err
		}
		adv, b := ctx.TextBounds(a[0], a[1], s)
		return numbers(adv, b[0], b[1], b[2], b[3]), nil
	})
	set("text_metrics", func([]rt.Value) ([]rt.Value, error) {
		asc, desc, lineh := ctx.TextMetrics()
		return numbers(asc, desc, lineh), nil
	})
}

func channel(v float32) uint8 {
	return uint8(min(max(v, 0), 255))
}

var constants = map[string]int64{
	"CCW":   int64(vg.CCW),
	"CW":    int64(vg.CW),
	"SOLID": int64(vg.Solid),
	"HOLE":  int64(vg.Hole),

	"BUTT":   int64(vg.Butt),
	"ROUND":  int64(vg.RoundCap),
	"SQUARE": int64(vg.SquareCap),
	"MITER":  int64(vg.Miter),
	"BEVEL":  int64(vg.Bevel),

	"ALIGN_LEFT":     int64(vg.AlignLeft),
	"ALIGN_CENTER":   int64(vg.AlignCenter),
	"ALIGN_RIGHT":    int64(vg.AlignRight),
	"ALIGN_TOP":      int64(vg.AlignTop),
	"ALIGN_MIDDLE":   int64(vg.AlignMiddle),
	"ALIGN_BOTTOM":   int64(vg.AlignBottom),
	"ALIGN_BASELINE": int64(vg.AlignBaseline),

	"SOURCE_OVER":      int64(vg.SourceOver),
	"SOURCE_IN":        int64(vg.SourceIn),
	"SOURCE_OUT":       int64(vg.SourceOut),
	"ATOP":             int64(vg.Atop),
	"DESTINATION_OVER": int64(vg.DestinationOver),
	"DESTINATION_IN":   int64(vg.DestinationIn),
	"DESTINATION_OUT":  int64(vg.DestinationOut),
	"DESTINATION_ATOP": int64(vg.DestinationAtop),
	"LIGHTER":          int64(vg.Lighter),
	"COPY":             int64(vg.Copy),
	"XOR":              int64(vg.Xor),

	"ZERO":                int64(vg.BlendZero),
	"ONE":                 int64(vg.BlendOne),
	"SRC_COLOR":           int64(vg.BlendSrcColor),
	"ONE_MINUS_SRC_COLOR": int64(vg.BlendOneMinusSrcColor),
	"DST_COLOR":           int64(vg.BlendDstColor),
	"ONE_MINUS_DST_COLOR": int64(vg.BlendOneMinusDstColor),
	"SRC_ALPHA":           int64(vg.BlendSrcAlpha),
	"ONE_MINUS_SRC_ALPHA": int64(vg.BlendOneMinusSrcAlpha),
	"DST_ALPHA":           int64(vg.BlendDstAlpha),
	"ONE_MINUS_DST_ALPHA": int64(vg.BlendOneMinusDstAlpha),
	"SRC_ALPHA_SATURATE":  int64(vg.BlendSrcAlphaSaturate),

	"IMAGE_GENERATE_MIPMAPS": int64(vg.ImageGenerateMipmaps),
	"IMAGE_REPEATX":          int64(vg.ImageRepeatX),
	"IMAGE_REPEATY":          int64(vg.ImageRepeatY),
	"IMAGE_FLIPY":            int64(vg.ImageFlipY),
	"IMAGE_PREMULTIPLIED":    int64(vg.ImagePremultiplied),
	"IMAGE_NEAREST":          int64(vg.ImageNearest),
}
