package graphics

// Context defines the interface for an OpenGL context that owns the
// calling thread while it is current.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// IsGLES reports whether the context speaks OpenGL ES, which selects
	// the GLSL dialect of the stock shaders.
	IsGLES() bool
}
