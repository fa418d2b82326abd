package render

// Surface is a readable RGBA render target. ReadPixels fills dst with
// width*height*4 bytes, rows ordered bottom to top.
type Surface interface {
	Width() int
	Height() int
	ReadPixels(dst []byte) error
}

// AsyncSurface is a surface with a non-blocking readback path. Implementations
// start the transfer in ReadPixelsAsync and complete it when the returned wait
// function is called. Callers must be prepared for either call to fail and
// fall back to the synchronous path.
type AsyncSurface interface {
	Surface
	ReadPixelsAsync(dst []byte) (wait func() error, err error)
}

// Renderer draws scene state from a viewpoint into a surface it owns.
type Renderer interface {
	// Resize reallocates the render target. A no-op when dimensions match.
	Resize(width, height int) error
	// Render draws the current scene state as seen from view.
	Render(view View) error
	// Target returns the surface holding the most recent Render output.
	Target() Surface
}
