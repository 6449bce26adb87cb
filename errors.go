package vg

import "errors"

var (
	// ErrNilBackend is returned by NewContext when no backend is given.
	ErrNilBackend = errors.New("vg: backend must not be nil")

	// ErrInvalidImage is returned for image handles that name no image.
	ErrInvalidImage = errors.New("vg: invalid image handle")

	// ErrInvalidFont is returned for font handles that name no font.
	ErrInvalidFont = errors.New("vg: invalid font handle")

	// ErrFontNotFound is returned when a font name is not registered.
	ErrFontNotFound = errors.New("vg: font not found")

	// ErrBackendTexture wraps texture failures reported by the backend.
	ErrBackendTexture = errors.New("vg: backend texture error")

	// ErrFrameActive is returned by BeginFrame when the previous frame was
	// never ended. The stale frame is cancelled.
	ErrFrameActive = errors.New("vg: frame already in progress")

	// ErrNoFrame is returned by EndFrame and CancelFrame outside a frame.
	ErrNoFrame = errors.New("vg: no frame in progress")
)
