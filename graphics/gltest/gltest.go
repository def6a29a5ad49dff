// Package gltest provides an in-memory graphics.GL that records calls and
// keeps enough state (texture storage, bindings, enabled attribute
// arrays) to check GPU-side behaviour without a GPU.
package gltest

import (
	"fmt"
	"sort"

	"github.com/richinsley/glvideo/graphics"
)

// Texture is the fake storage behind a texture name.
type Texture struct {
	Target   graphics.Enum
	Internal graphics.Enum
	Width    int
	Height   int
	Depth    int
	Format   graphics.Enum
	Type     graphics.Enum
	Data     []byte
	Params   map[graphics.Enum]int32
	// Allocations counts TexImage calls against this name.
	Allocations int
}

type Shader struct {
	Type     graphics.Enum
	Source   string
	Compiled bool
	Log      string
}

type Program struct {
	Attached  map[uint32]bool
	Attribs   map[string]uint32
	Linked    bool
	Log       string
	uniforms  map[string]int32
	linkCount int
}

// AttribPointer records one VertexAttribPointer call.
type AttribPointer struct {
	Buffer     uint32
	Size       int
	Type       graphics.Enum
	Normalized bool
}

// Draw records one DrawArrays call together with the state it saw.
type Draw struct {
	Program     uint32
	Framebuffer uint32
	Mode        graphics.Enum
	First       int
	Count       int
	Enabled     []uint32
}

// GL is a recording graphics.GL. The zero value is not usable; call New.
type GL struct {
	Calls []string

	Textures     map[uint32]*Texture
	Bound        map[graphics.Enum]uint32
	ActiveUnit   graphics.Enum
	Framebuffers map[uint32]uint32 // framebuffer -> colour attachment texture
	BoundFBO     uint32
	// FramebufferStatus overrides CheckFramebufferStatus when non-zero.
	FramebufferStatus graphics.Enum

	Shaders  map[uint32]*Shader
	Programs map[uint32]*Program
	Current  uint32
	// CompileError, when set, returns a non-empty info log for sources
	// that must fail compilation.
	CompileError func(src string) string
	LinkError    string

	Enabled      map[uint32]bool
	Pointers     map[uint32]AttribPointer
	Buffers      map[uint32][]byte
	BoundBuffer  uint32
	VertexArrays map[uint32]bool
	BoundVAO     uint32
	Draws        []Draw
	Uniforms     map[int32][]float32
	Store        map[graphics.Enum]int32
	Viewports    [][4]int

	next uint32
}

var _ graphics.GL = (*GL)(nil)

func New() *GL {
	return &GL{
		Textures:     make(map[uint32]*Texture),
		Bound:        make(map[graphics.Enum]uint32),
		ActiveUnit:   graphics.TEXTURE0,
		Framebuffers: make(map[uint32]uint32),
		Shaders:      make(map[uint32]*Shader),
		Programs:     make(map[uint32]*Program),
		Enabled:      make(map[uint32]bool),
		Pointers:     make(map[uint32]AttribPointer),
		Buffers:      make(map[uint32][]byte),
		VertexArrays: make(map[uint32]bool),
		Uniforms:     make(map[int32][]float32),
		Store:        make(map[graphics.Enum]int32),
	}
}

func (g *GL) record(format string, args ...any) {
	g.Calls = append(g.Calls, fmt.Sprintf(format, args...))
}

func (g *GL) name() uint32 {
	g.next++
	return g.next
}

// Count returns how many recorded calls start with prefix.
func (g *GL) Count(prefix string) int {
	n := 0
	for _, c := range g.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// Index returns the position of the first recorded call starting with
// prefix, or -1.
func (g *GL) Index(prefix string) int {
	for i, c := range g.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			return i
		}
	}
	return -1
}

// EnabledAttribs lists the vertex attribute arrays currently enabled.
func (g *GL) EnabledAttribs() []uint32 {
	var out []uint32
	for idx, on := range g.Enabled {
		if on {
			out = append(out, idx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Uniform returns the last value set for the named uniform of prog.
func (g *GL) Uniform(prog uint32, name string) ([]float32, bool) {
	p, ok := g.Programs[prog]
	if !ok {
		return nil, false
	}
	loc, ok := p.uniforms[name]
	if !ok {
		return nil, false
	}
	v, ok := g.Uniforms[loc]
	return v, ok
}

// BytesPerPixel returns the client-side size of one pixel for a source
// layout and component encoding.
func BytesPerPixel(format, typ graphics.Enum) int {
	switch typ {
	case graphics.UNSIGNED_INT_8_8_8_8, graphics.UNSIGNED_INT_8_8_8_8_REV:
		return 4
	case graphics.UNSIGNED_SHORT_8_8_APPLE, graphics.UNSIGNED_SHORT_8_8_REV_APPLE:
		return 2
	}
	var comps int
	switch format {
	case graphics.RED:
		comps = 1
	case graphics.RG, graphics.YCBCR_422_APPLE, graphics.YCBCR_MESA:
		comps = 2
	case graphics.RGB:
		comps = 3
	default:
		comps = 4
	}
	switch typ {
	case graphics.UNSIGNED_SHORT, graphics.HALF_FLOAT:
		return comps * 2
	case graphics.FLOAT:
		return comps * 4
	}
	return comps
}

func (g *GL) GenTexture() uint32 {
	id := g.name()
	g.Textures[id] = &Texture{Params: make(map[graphics.Enum]int32)}
	g.record("GenTexture %d", id)
	return id
}

func (g *GL) DeleteTexture(id uint32) {
	delete(g.Textures, id)
	g.record("DeleteTexture %d", id)
}

func (g *GL) BindTexture(target graphics.Enum, id uint32) {
	g.Bound[target] = id
	if t, ok := g.Textures[id]; ok && t.Target == 0 {
		t.Target = target
	}
	g.record("BindTexture %#x %d", uint32(target), id)
}

func (g *GL) ActiveTexture(unit graphics.Enum) {
	g.ActiveUnit = unit
	g.record("ActiveTexture %d", unit-graphics.TEXTURE0)
}

func (g *GL) bound(target graphics.Enum) *Texture {
	return g.Textures[g.Bound[target]]
}

func (g *GL) texImage(target, internal graphics.Enum, w, h, d int, format, typ graphics.Enum, data []byte) {
	t := g.bound(target)
	if t == nil {
		return
	}
	t.Target, t.Internal, t.Format, t.Type = target, internal, format, typ
	t.Width, t.Height, t.Depth = w, h, d
	n := max(w, 0) * max(h, 1) * max(d, 1) * BytesPerPixel(format, typ)
	t.Data = make([]byte, n)
	copy(t.Data, data)
	t.Allocations++
}

func (g *GL) TexImage1D(target, internal graphics.Enum, width int, format, typ graphics.Enum, data []byte) {
	g.texImage(target, internal, width, 0, 0, format, typ, data)
	g.record("TexImage1D %d", width)
}

func (g *GL) TexImage2D(target, internal graphics.Enum, width, height int, format, typ graphics.Enum, data []byte) {
	g.texImage(target, internal, width, height, 0, format, typ, data)
	g.record("TexImage2D %dx%d", width, height)
}

func (g *GL) TexImage3D(target, internal graphics.Enum, width, height, depth int, format, typ graphics.Enum, data []byte) {
	g.texImage(target, internal, width, height, depth, format, typ, data)
	g.record("TexImage3D %dx%dx%d", width, height, depth)
}

// copyBox writes a w×h×d box of tightly packed src into t at (x,y,z).
func copyBox(t *Texture, x, y, z, w, h, d int, src []byte) {
	bpp := BytesPerPixel(t.Format, t.Type)
	tw, th := max(t.Width, 1), max(t.Height, 1)
	row := w * bpp
	for k := 0; k < d; k++ {
		for j := 0; j < h; j++ {
			so := ((k*h)+j)*row
			do := (((z+k)*th+(y+j))*tw + x) * bpp
			if so >= len(src) || do >= len(t.Data) {
				return
			}
			copy(t.Data[do:], src[so:min(so+row, len(src))])
		}
	}
}

func (g *GL) TexSubImage1D(target graphics.Enum, x, width int, format, typ graphics.Enum, data []byte) {
	if t := g.bound(target); t != nil {
		copyBox(t, x, 0, 0, width, 1, 1, data)
	}
	g.record("TexSubImage1D %d+%d", x, width)
}

func (g *GL) TexSubImage2D(target graphics.Enum, x, y, width, height int, format, typ graphics.Enum, data []byte) {
	if t := g.bound(target); t != nil {
		copyBox(t, x, y, 0, width, height, 1, data)
	}
	g.record("TexSubImage2D %d,%d %dx%d", x, y, width, height)
}

func (g *GL) TexSubImage3D(target graphics.Enum, x, y, z, width, height, depth int, format, typ graphics.Enum, data []byte) {
	if t := g.bound(target); t != nil {
		copyBox(t, x, y, z, width, height, depth, data)
	}
	g.record("TexSubImage3D %d,%d,%d %dx%dx%d", x, y, z, width, height, depth)
}

func (g *GL) TexParameteri(target, pname graphics.Enum, param int32) {
	if t := g.bound(target); t != nil {
		t.Params[pname] = param
	}
	g.record("TexParameteri %#x %#x", uint32(pname), param)
}

func (g *GL) GetTexImage(target, format, typ graphics.Enum, dst []byte) {
	if t := g.bound(target); t != nil {
		copy(dst, t.Data)
	}
	g.record("GetTexImage")
}

func (g *GL) PixelStorei(pname graphics.Enum, param int32) {
	g.Store[pname] = param
	g.record("PixelStorei %#x %d", uint32(pname), param)
}

func (g *GL) GenFramebuffer() uint32 {
	id := g.name()
	g.Framebuffers[id] = 0
	g.record("GenFramebuffer %d", id)
	return id
}

func (g *GL) DeleteFramebuffer(id uint32) {
	delete(g.Framebuffers, id)
	g.record("DeleteFramebuffer %d", id)
}

func (g *GL) BindFramebuffer(target graphics.Enum, id uint32) {
	g.BoundFBO = id
	g.record("BindFramebuffer %d", id)
}

func (g *GL) FramebufferTexture2D(target, attachment, texTarget graphics.Enum, tex uint32) {
	g.Framebuffers[g.BoundFBO] = tex
	g.record("FramebufferTexture2D %d", tex)
}

func (g *GL) CheckFramebufferStatus(target graphics.Enum) graphics.Enum {
	g.record("CheckFramebufferStatus")
	if g.FramebufferStatus != 0 {
		return g.FramebufferStatus
	}
	return graphics.FRAMEBUFFER_COMPLETE
}

func (g *GL) ReadPixels(x, y, width, height int, format, typ graphics.Enum, dst []byte) {
	g.record("ReadPixels %d,%d %dx%d", x, y, width, height)
	t := g.Textures[g.Framebuffers[g.BoundFBO]]
	if t == nil {
		return
	}
	bpp := BytesPerPixel(format, typ)
	for j := 0; j < height; j++ {
		so := ((y+j)*t.Width + x) * bpp
		do := j * width * bpp
		if so >= len(t.Data) || do >= len(dst) {
			return
		}
		copy(dst[do:do+width*bpp], t.Data[so:])
	}
}

func (g *GL) Viewport(x, y, width, height int) {
	g.Viewports = append(g.Viewports, [4]int{x, y, width, height})
	g.record("Viewport %d,%d %dx%d", x, y, width, height)
}

func (g *GL) ClearColor(r, gr, b, a float32) { g.record("ClearColor") }

func (g *GL) Clear(mask graphics.Enum) { g.record("Clear") }

func (g *GL) CreateShader(typ graphics.Enum) uint32 {
	id := g.name()
	g.Shaders[id] = &Shader{Type: typ}
	g.record("CreateShader %#x %d", uint32(typ), id)
	return id
}

func (g *GL) ShaderSource(id uint32, src string) {
	if s, ok := g.Shaders[id]; ok {
		s.Source = src
	}
	g.record("ShaderSource %d", id)
}

func (g *GL) CompileShader(id uint32) {
	s, ok := g.Shaders[id]
	if !ok {
		return
	}
	s.Compiled, s.Log = true, ""
	if g.CompileError != nil {
		if msg := g.CompileError(s.Source); msg != "" {
			s.Compiled, s.Log = false, msg
		}
	}
	g.record("CompileShader %d", id)
}

func (g *GL) GetShaderi(id uint32, pname graphics.Enum) int32 {
	s, ok := g.Shaders[id]
	if !ok || pname != graphics.COMPILE_STATUS {
		return 0
	}
	if s.Compiled {
		return graphics.TRUE
	}
	return graphics.FALSE
}

func (g *GL) GetShaderInfoLog(id uint32) string {
	if s, ok := g.Shaders[id]; ok {
		return s.Log
	}
	return ""
}

func (g *GL) DeleteShader(id uint32) {
	delete(g.Shaders, id)
	g.record("DeleteShader %d", id)
}

func (g *GL) CreateProgram() uint32 {
	id := g.name()
	g.Programs[id] = &Program{
		Attached: make(map[uint32]bool),
		Attribs:  make(map[string]uint32),
		uniforms: make(map[string]int32),
	}
	g.record("CreateProgram %d", id)
	return id
}

func (g *GL) AttachShader(prog, sh uint32) {
	if p, ok := g.Programs[prog]; ok {
		p.Attached[sh] = true
	}
	g.record("AttachShader %d %d", prog, sh)
}

func (g *GL) DetachShader(prog, sh uint32) {
	if p, ok := g.Programs[prog]; ok {
		delete(p.Attached, sh)
	}
	g.record("DetachShader %d %d", prog, sh)
}

func (g *GL) BindAttribLocation(prog, index uint32, name string) {
	if p, ok := g.Programs[prog]; ok {
		p.Attribs[name] = index
	}
	g.record("BindAttribLocation %d %s", index, name)
}

func (g *GL) LinkProgram(prog uint32) {
	if p, ok := g.Programs[prog]; ok {
		p.linkCount++
		p.Linked, p.Log = g.LinkError == "", g.LinkError
	}
	g.record("LinkProgram %d", prog)
}

func (g *GL) GetProgrami(prog uint32, pname graphics.Enum) int32 {
	p, ok := g.Programs[prog]
	if !ok || pname != graphics.LINK_STATUS {
		return 0
	}
	if p.Linked {
		return graphics.TRUE
	}
	return graphics.FALSE
}

func (g *GL) GetProgramInfoLog(prog uint32) string {
	if p, ok := g.Programs[prog]; ok {
		return p.Log
	}
	return ""
}

func (g *GL) UseProgram(prog uint32) {
	g.Current = prog
	g.record("UseProgram %d", prog)
}

func (g *GL) DeleteProgram(prog uint32) {
	delete(g.Programs, prog)
	g.record("DeleteProgram %d", prog)
}

func (g *GL) GetUniformLocation(prog uint32, name string) int32 {
	p, ok := g.Programs[prog]
	if !ok {
		return -1
	}
	loc, ok := p.uniforms[name]
	if !ok {
		loc = int32(prog)*1000 + int32(len(p.uniforms))
		p.uniforms[name] = loc
	}
	return loc
}

func (g *GL) Uniform1i(loc int32, v int32) { g.Uniforms[loc] = []float32{float32(v)} }

func (g *GL) Uniform1f(loc int32, v float32) { g.Uniforms[loc] = []float32{v} }

func (g *GL) Uniform2f(loc int32, x, y float32) { g.Uniforms[loc] = []float32{x, y} }

func (g *GL) UniformMatrix4fv(loc int32, m []float32) {
	g.Uniforms[loc] = append([]float32(nil), m...)
}

func (g *GL) GenVertexArray() uint32 {
	id := g.name()
	g.VertexArrays[id] = true
	g.record("GenVertexArray %d", id)
	return id
}

func (g *GL) BindVertexArray(id uint32) {
	g.BoundVAO = id
	g.record("BindVertexArray %d", id)
}

func (g *GL) DeleteVertexArray(id uint32) {
	delete(g.VertexArrays, id)
	g.record("DeleteVertexArray %d", id)
}

func (g *GL) GenBuffer() uint32 {
	id := g.name()
	g.Buffers[id] = nil
	g.record("GenBuffer %d", id)
	return id
}

func (g *GL) BindBuffer(target graphics.Enum, id uint32) {
	g.BoundBuffer = id
	g.record("BindBuffer %d", id)
}

func (g *GL) BufferData(target graphics.Enum, data []byte, usage graphics.Enum) {
	g.Buffers[g.BoundBuffer] = append([]byte(nil), data...)
	g.record("BufferData %d", len(data))
}

func (g *GL) DeleteBuffer(id uint32) {
	delete(g.Buffers, id)
	g.record("DeleteBuffer %d", id)
}

func (g *GL) EnableVertexAttribArray(index uint32) {
	g.Enabled[index] = true
	g.record("EnableVertexAttribArray %d", index)
}

func (g *GL) DisableVertexAttribArray(index uint32) {
	g.Enabled[index] = false
	g.record("DisableVertexAttribArray %d", index)
}

func (g *GL) VertexAttribPointer(index uint32, size int, typ graphics.Enum, normalized bool, stride, offset int) {
	g.Pointers[index] = AttribPointer{Buffer: g.BoundBuffer, Size: size, Type: typ, Normalized: normalized}
	g.record("VertexAttribPointer %d %d", index, size)
}

func (g *GL) DrawArrays(mode graphics.Enum, first, count int) {
	g.Draws = append(g.Draws, Draw{
		Program:     g.Current,
		Framebuffer: g.BoundFBO,
		Mode:        mode,
		First:       first,
		Count:       count,
		Enabled:     g.EnabledAttribs(),
	})
	g.record("DrawArrays %d %d", first, count)
}
