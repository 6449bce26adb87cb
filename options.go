package vg

// ContextOption configures a Context during creation.
//
// Example:
//
//	ctx, err := vg.NewContext(soft.New(800, 600), vg.Antialias,
//	    vg.WithAtlasSize(1024, 1024),
//	    vg.WithMaxStates(64))
type ContextOption func(*contextOptions)

type contextOptions struct {
	fonts          FontProvider
	maxStates      int
	atlasWidth     int
	atlasHeight    int
	maxAtlasSize   int
	tessTolerance  float32
	harfbuzzShaped bool
}

func defaultOptions() contextOptions {
	return contextOptions{
		maxStates:    32,
		atlasWidth:   512,
		atlasHeight:  512,
		maxAtlasSize: 2048,
	}
}

// WithFontProvider replaces the default fontstash glyph provider.
func WithFontProvider(p FontProvider) ContextOption {
	return func(o *contextOptions) {
		o.fonts = p
	}
}

// WithMaxStates bounds the depth of the Save stack. Values below 1 are ignored.
func WithMaxStates(n int) ContextOption {
	return func(o *contextOptions) {
		if n >= 1 {
			o.maxStates = n
		}
	}
}

// WithAtlasSize sets the initial glyph atlas size. The atlas doubles on
// demand up to max(w, h, 2048) on each side.
func WithAtlasSize(w, h int) ContextOption {
	return func(o *contextOptions) {
		if w > 0 && h > 0 {
			o.atlasWidth, o.atlasHeight = w, h
			o.maxAtlasSize = max(o.maxAtlasSize, w, h)
		}
	}
}

// WithTessTolerance overrides the curve flatness tolerance in device
// pixels. The default is 0.25 divided by the device pixel ratio.
func WithTessTolerance(tol float32) ContextOption {
	return func(o *contextOptions) {
		if tol > 0 {
			o.tessTolerance = tol
		}
	}
}

// WithTextShaping enables HarfBuzz shaping in the default font provider.
func WithTextShaping() ContextOption {
	return func(o *contextOptions) {
		o.harfbuzzShaped = true
	}
}
