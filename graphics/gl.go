package graphics

// GL is the subset of OpenGL used by this module. Every GPU call goes
// through it so that the texture, surface and shader layers can be
// driven by a real context (package gogl) or by a recording fake in
// tests (package gltest).
//
// All methods must be called on the thread that owns the current
// context. Nil or empty pixel slices pass a null pointer to the driver.
type GL interface {
	GenTexture() uint32
	DeleteTexture(id uint32)
	BindTexture(target Enum, id uint32)
	ActiveTexture(unit Enum)
	TexImage1D(target, internal Enum, width int, format, typ Enum, data []byte)
	TexImage2D(target, internal Enum, width, height int, format, typ Enum, data []byte)
	TexImage3D(target, internal Enum, width, height, depth int, format, typ Enum, data []byte)
	TexSubImage1D(target Enum, x, width int, format, typ Enum, data []byte)
	TexSubImage2D(target Enum, x, y, width, height int, format, typ Enum, data []byte)
	TexSubImage3D(target Enum, x, y, z, width, height, depth int, format, typ Enum, data []byte)
	TexParameteri(target, pname Enum, param int32)
	GetTexImage(target, format, typ Enum, dst []byte)
	PixelStorei(pname Enum, param int32)

	GenFramebuffer() uint32
	DeleteFramebuffer(id uint32)
	BindFramebuffer(target Enum, id uint32)
	FramebufferTexture2D(target, attachment, texTarget Enum, tex uint32)
	CheckFramebufferStatus(target Enum) Enum
	ReadPixels(x, y, width, height int, format, typ Enum, dst []byte)
	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)

	CreateShader(typ Enum) uint32
	ShaderSource(id uint32, src string)
	CompileShader(id uint32)
	GetShaderi(id uint32, pname Enum) int32
	GetShaderInfoLog(id uint32) string
	DeleteShader(id uint32)

	CreateProgram() uint32
	AttachShader(prog, sh uint32)
	DetachShader(prog, sh uint32)
	BindAttribLocation(prog, index uint32, name string)
	LinkProgram(prog uint32)
	GetProgrami(prog uint32, pname Enum) int32
	GetProgramInfoLog(prog uint32) string
	UseProgram(prog uint32)
	DeleteProgram(prog uint32)
	GetUniformLocation(prog uint32, name string) int32
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, x, y float32)
	UniformMatrix4fv(loc int32, m []float32)

	GenVertexArray() uint32
	BindVertexArray(id uint32)
	DeleteVertexArray(id uint32)
	GenBuffer() uint32
	BindBuffer(target Enum, id uint32)
	BufferData(target Enum, data []byte, usage Enum)
	DeleteBuffer(id uint32)
	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int, typ Enum, normalized bool, stride, offset int)
	DrawArrays(mode Enum, first, count int)
}
