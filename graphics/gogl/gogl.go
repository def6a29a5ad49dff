// Package gogl implements graphics.GL on top of the go-gl desktop core
// profile bindings.
package gogl

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/glvideo/graphics"
)

var (
	glInitOnce sync.Once
	glInitErr  error
)

// Functions forwards graphics.GL calls to the current OpenGL context.
type Functions struct{}

var _ graphics.GL = (*Functions)(nil)

// New initializes the OpenGL function pointers once per process and
// returns the function table. The context must be current on the calling
// thread.
func New() (*Functions, error) {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", glInitErr)
	}
	return &Functions{}, nil
}

// Version returns the GL_VERSION string of the current context.
func (f *Functions) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return gl.Ptr(b)
}

func (f *Functions) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (f *Functions) DeleteTexture(id uint32) { gl.DeleteTextures(1, &id) }

func (f *Functions) BindTexture(target graphics.Enum, id uint32) {
	gl.BindTexture(uint32(target), id)
}

func (f *Functions) ActiveTexture(unit graphics.Enum) { gl.ActiveTexture(uint32(unit)) }

func (f *Functions) TexImage1D(target, internal graphics.Enum, width int, format, typ graphics.Enum, data []byte) {
	gl.TexImage1D(uint32(target), 0, int32(internal), int32(width), 0, uint32(format), uint32(typ), ptr(data))
}

func (f *Functions) TexImage2D(target, internal graphics.Enum, width, height int, format, typ graphics.Enum, data []byte) {
	gl.TexImage2D(uint32(target), 0, int32(internal), int32(width), int32(height), 0, uint32(format), uint32(typ), ptr(data))
}

func (f *Functions) TexImage3D(target, internal graphics.Enum, width, height, depth int, format, typ graphics.Enum, data []byte) {
	gl.TexImage3D(uint32(target), 0, int32(internal), int32(width), int32(height), int32(depth), 0, uint32(format), uint32(typ), ptr(data))
}

func (f *Functions) TexSubImage1D(target graphics.Enum, x, width int, format, typ graphics.Enum, data []byte) {
	gl.TexSubImage1D(uint32(target), 0, int32(x), int32(width), uint32(format), uint32(typ), ptr(data))
}

func (f *Functions) TexSubImage2D(target graphics.Enum, x, y, width, height int, format, typ graphics.Enum, data []byte) {
	gl.TexSubImage2D(uint32(target), 0, int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(typ), ptr(data))
}

func (f *Functions) TexSubImage3D(target graphics.Enum, x, y, z, width, height, depth int, format, typ graphics.Enum, data []byte) {
	gl.TexSubImage3D(uint32(target), 0, int32(x), int32(y), int32(z), int32(width), int32(height), int32(depth), uint32(format), uint32(typ), ptr(data))
}

func (f *Functions) TexParameteri(target, pname graphics.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (f *Functions) GetTexImage(target, format, typ graphics.Enum, dst []byte) {
	gl.GetTexImage(uint32(target), 0, uint32(format), uint32(typ), ptr(dst))
}

func (f *Functions) PixelStorei(pname graphics.Enum, param int32) {
	gl.PixelStorei(uint32(pname), param)
}

func (f *Functions) GenFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (f *Functions) DeleteFramebuffer(id uint32) { gl.DeleteFramebuffers(1, &id) }

func (f *Functions) BindFramebuffer(target graphics.Enum, id uint32) {
	gl.BindFramebuffer(uint32(target), id)
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget graphics.Enum, tex uint32) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), tex, 0)
}

func (f *Functions) CheckFramebufferStatus(target graphics.Enum) graphics.Enum {
	return graphics.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (f *Functions) ReadPixels(x, y, width, height int, format, typ graphics.Enum, dst []byte) {
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(typ), ptr(dst))
}

func (f *Functions) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (f *Functions) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (f *Functions) Clear(mask graphics.Enum) { gl.Clear(uint32(mask)) }

func (f *Functions) CreateShader(typ graphics.Enum) uint32 { return gl.CreateShader(uint32(typ)) }

func (f *Functions) ShaderSource(id uint32, src string) {
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
}

func (f *Functions) CompileShader(id uint32) { gl.CompileShader(id) }

func (f *Functions) GetShaderi(id uint32, pname graphics.Enum) int32 {
	var v int32
	gl.GetShaderiv(id, uint32(pname), &v)
	return v
}

func (f *Functions) GetShaderInfoLog(id uint32) string {
	var logLength int32
	gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLength)
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(id, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (f *Functions) DeleteShader(id uint32) { gl.DeleteShader(id) }

func (f *Functions) CreateProgram() uint32 { return gl.CreateProgram() }

func (f *Functions) AttachShader(prog, sh uint32) { gl.AttachShader(prog, sh) }

func (f *Functions) DetachShader(prog, sh uint32) { gl.DetachShader(prog, sh) }

func (f *Functions) BindAttribLocation(prog, index uint32, name string) {
	gl.BindAttribLocation(prog, index, gl.Str(name+"\x00"))
}

func (f *Functions) LinkProgram(prog uint32) { gl.LinkProgram(prog) }

func (f *Functions) GetProgrami(prog uint32, pname graphics.Enum) int32 {
	var v int32
	gl.GetProgramiv(prog, uint32(pname), &v)
	return v
}

func (f *Functions) GetProgramInfoLog(prog uint32) string {
	var logLength int32
	gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (f *Functions) UseProgram(prog uint32) { gl.UseProgram(prog) }

func (f *Functions) DeleteProgram(prog uint32) { gl.DeleteProgram(prog) }

func (f *Functions) GetUniformLocation(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

func (f *Functions) Uniform1i(loc int32, v int32) { gl.Uniform1i(loc, v) }

func (f *Functions) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }

func (f *Functions) Uniform2f(loc int32, x, y float32) { gl.Uniform2f(loc, x, y) }

func (f *Functions) UniformMatrix4fv(loc int32, m []float32) {
	gl.UniformMatrix4fv(loc, int32(len(m)/16), false, &m[0])
}

func (f *Functions) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (f *Functions) BindVertexArray(id uint32) { gl.BindVertexArray(id) }

func (f *Functions) DeleteVertexArray(id uint32) { gl.DeleteVertexArrays(1, &id) }

func (f *Functions) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (f *Functions) BindBuffer(target graphics.Enum, id uint32) { gl.BindBuffer(uint32(target), id) }

func (f *Functions) BufferData(target graphics.Enum, data []byte, usage graphics.Enum) {
	gl.BufferData(uint32(target), len(data), ptr(data), uint32(usage))
}

func (f *Functions) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (f *Functions) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (f *Functions) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (f *Functions) VertexAttribPointer(index uint32, size int, typ graphics.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointer(index, int32(size), uint32(typ), normalized, int32(stride), gl.PtrOffset(offset))
}

func (f *Functions) DrawArrays(mode graphics.Enum, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}
