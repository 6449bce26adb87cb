// Package fontstash is the default glyph provider of vg.
//
// A Stash keeps a registry of TrueType and OpenType fonts, each with an
// optional chain of fallback fonts, and a single-channel glyph atlas
// packed with a shelf allocator. Layout walks a string, rasterizes any
// missing glyphs into the atlas and returns one textured quad per glyph.
//
// Sizes are the pixel distance from ascender to descender, not the em
// size, and are quantized to a tenth of a pixel.
package fontstash
