// Package vg is an immediate mode 2D vector graphics engine.
//
// # Overview
//
// Every frame the application builds paths and sets paint styles on a
// Context. Fill and Stroke tessellate the current path into triangle
// fans and strips with antialiasing fringes and hand them, together with
// a fully resolved paint, to a Backend. The backend only rasterizes and
// blends.
//
// # Quick Start
//
//	ctx, err := vg.NewContext(soft.New(800, 600), vg.Antialias)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Delete()
//
//	ctx.BeginFrame(800, 600, 1)
//	ctx.BeginPath()
//	ctx.Rect(10, 10, 100, 50)
//	ctx.FillColor(vg.RGBA(255, 0, 0, 255))
//	ctx.Fill()
//	ctx.EndFrame()
//
// # Coordinate System
//
// The origin is the top-left corner of the window, x grows right and y
// grows down. Angles are in radians; positive angles turn clockwise on
// screen. Sizes passed to BeginFrame are in logical pixels, scaled to
// device pixels by the device pixel ratio.
//
// # Paints
//
// Solid colors, linear, radial and box gradients and image patterns are
// all described by Paint. A paint's transform is captured from the
// current transform when it is set with FillPaint or StrokePaint.
//
// # Backends
//
// Backends implement the Backend interface. The backend package keeps a
// registry of them; backend/soft renders into an image.RGBA,
// backend/ebiten draws into an ebiten image, backend/gpu builds GPU draw
// lists, and backend/recorder records calls for tests.
package vg
