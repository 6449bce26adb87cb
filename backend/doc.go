// Package backend is the registry of vg rendering backends.
//
// Backend packages register a Factory from init, so importing one is
// enough to make it selectable by name:
//
//	import _ "github.com/gogpu/vg/backend/soft"
//
//	b, err := backend.Get(backend.NameSoft, 800, 600)
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx, err := vg.NewContext(b, vg.Antialias)
//
// Default picks the first registered backend in the order gpu, ebiten,
// soft. The recorder backend is only returned when asked for by name.
//
// # Available Backends
//
//   - "soft": CPU rasterizer writing to an *image.RGBA (always available)
//   - "ebiten": draws through ebiten.Image.DrawTriangles
//   - "gpu": builds WGSL pipelines and draw lists for a GPU device
//   - "recorder": records calls without drawing
package backend
