// Package shader builds shader programs that draw batches of textured
// quads, and ships the stock GLSL stages used for video planes.
package shader

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glvideo/graphics"
)

// VerticesPerQuad is the vertex count of one quad drawn as two triangles.
const VerticesPerQuad = 6

// Fixed attribute locations, bound before every link so programs built
// from different sources share one vertex layout.
const (
	AttribPosition uint32 = iota
	AttribCoord
	AttribColor
)

// Source is the text of one shader stage.
type Source struct {
	Code string
	// Color declares that a vertex stage consumes the vColor attribute.
	// It is ignored for fragment stages.
	Color bool
	// Names maps identifiers as written by the author to the names in
	// Code, for sources that went through translation. Identifiers
	// without an entry are used as is.
	Names map[string]string
}

// Rect is an axis-aligned rectangle given by two opposite corners.
type Rect struct {
	Min, Max mgl32.Vec2
}

// RectOf returns the rectangle with corners (x1,y1) and (x2,y2).
func RectOf(x1, y1, x2, y2 float32) Rect {
	return Rect{Min: mgl32.Vec2{x1, y1}, Max: mgl32.Vec2{x2, y2}}
}

// PackColor packs a colour into the per-vertex layout of the vColor
// attribute (four normalized bytes, R first in memory on little-endian
// hosts).
func PackColor(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// Program is a linked vertex+fragment pair plus the staged per-vertex
// data for up to Quads() quads.
//
// Each stage can be set once; later calls are ignored until Reset. Every
// Begin must be matched by exactly one End; Do does that for you.
type Program struct {
	gl graphics.GL
	id uint32

	vertex   uint32
	fragment uint32
	hasColor bool
	names    map[string]string
	uniforms map[string]int32

	positions []float32
	coords    []float32
	colors    []uint32

	vao         uint32
	vbos        [3]uint32
	colorActive bool
}

func NewProgram(gl graphics.GL) *Program {
	return &Program{gl: gl, id: gl.CreateProgram()}
}

// ID returns the GL program name.
func (p *Program) ID() uint32 { return p.id }

func (p *Program) HasVertexShader() bool   { return p.vertex != 0 }
func (p *Program) HasFragmentShader() bool { return p.fragment != 0 }

// HasColor reports whether the vertex stage consumes per-vertex colour.
func (p *Program) HasColor() bool { return p.hasColor }

// SetVertexShader compiles and attaches the vertex stage unless one is
// already attached.
func (p *Program) SetVertexShader(src Source) error {
	if p.vertex != 0 {
		return nil
	}
	sh, err := p.compile(src.Code, graphics.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("vertex shader: %w", err)
	}
	p.gl.AttachShader(p.id, sh)
	p.vertex = sh
	p.hasColor = src.Color
	p.growColors()
	p.addNames(src.Names)
	return nil
}

// SetFragmentShader compiles and attaches the fragment stage unless one
// is already attached.
func (p *Program) SetFragmentShader(src Source) error {
	if p.fragment != 0 {
		return nil
	}
	sh, err := p.compile(src.Code, graphics.FRAGMENT_SHADER)
	if err != nil {
		return fmt.Errorf("fragment shader: %w", err)
	}
	p.gl.AttachShader(p.id, sh)
	p.fragment = sh
	p.addNames(src.Names)
	return nil
}

func (p *Program) compile(source string, shaderType graphics.Enum) (uint32, error) {
	sh := p.gl.CreateShader(shaderType)
	p.gl.ShaderSource(sh, source)
	p.gl.CompileShader(sh)
	if p.gl.GetShaderi(sh, graphics.COMPILE_STATUS) == graphics.FALSE {
		log := p.gl.GetShaderInfoLog(sh)
		p.gl.DeleteShader(sh)
		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return sh, nil
}

func (p *Program) addNames(names map[string]string) {
	if len(names) == 0 {
		return
	}
	if p.names == nil {
		p.names = make(map[string]string, len(names))
	}
	for k, v := range names {
		p.names[k] = v
	}
}

func (p *Program) name(n string) string {
	if mapped, ok := p.names[n]; ok {
		return mapped
	}
	return n
}

// Link binds the fixed attribute locations and links the program.
func (p *Program) Link() error {
	p.gl.BindAttribLocation(p.id, AttribCoord, p.name(CoordAttrib))
	p.gl.BindAttribLocation(p.id, AttribPosition, p.name(PositionAttrib))
	if p.hasColor {
		p.gl.BindAttribLocation(p.id, AttribColor, p.name(ColorAttrib))
	}
	p.gl.LinkProgram(p.id)
	p.uniforms = nil
	if p.gl.GetProgrami(p.id, graphics.LINK_STATUS) == graphics.FALSE {
		return fmt.Errorf("failed to link program: %v", p.gl.GetProgramInfoLog(p.id))
	}
	return nil
}

// SetTextureCount makes room for n quads. Capacity only ever grows;
// asking for fewer quads than before keeps the existing buffers.
func (p *Program) SetTextureCount(n int) {
	need := 2 * VerticesPerQuad * n
	if need > len(p.positions) {
		p.positions = append(p.positions, make([]float32, need-len(p.positions))...)
		p.coords = append(p.coords, make([]float32, len(p.positions)-len(p.coords))...)
	}
	p.growColors()
}

// growColors keeps one colour per staged vertex while the vertex stage
// consumes colour, whichever of SetTextureCount and SetVertexShader ran
// first.
func (p *Program) growColors() {
	if n := len(p.positions) / 2; p.hasColor && len(p.colors) < n {
		p.colors = append(p.colors, make([]uint32, n-len(p.colors))...)
	}
}

// Quads returns the number of quads the staged buffers can hold.
func (p *Program) Quads() int { return len(p.positions) / (2 * VerticesPerQuad) }

// Positions, Coords and Colors expose the staged vertex data. Callers
// must not retain them across SetTextureCount.
func (p *Program) Positions() []float32 { return p.positions }
func (p *Program) Coords() []float32    { return p.coords }
func (p *Program) Colors() []uint32     { return p.colors }

func (p *Program) UploadPositionAsTriangles(i int, p1, p2 mgl32.Vec2) {
	uploadRectAsTriangles(p.positions, i, p1, p2)
}

func (p *Program) UploadPositionRect(i int, r Rect) {
	uploadRectAsTriangles(p.positions, i, r.Min, r.Max)
}

func (p *Program) UploadCoordAsTriangles(i int, p1, p2 mgl32.Vec2) {
	uploadRectAsTriangles(p.coords, i, p1, p2)
}

func (p *Program) UploadCoordRect(i int, r Rect) {
	uploadRectAsTriangles(p.coords, i, r.Min, r.Max)
}

// UploadColorAsTriangles sets every vertex of quad i to color. It does
// nothing for programs without a colour attribute.
func (p *Program) UploadColorAsTriangles(i int, color uint32) {
	if !p.hasColor {
		return
	}
	c := p.colors[VerticesPerQuad*i : VerticesPerQuad*(i+1)]
	for j := range c {
		c[j] = color
	}
}

// uploadRectAsTriangles writes quad i as the triangles
// (p1, (p2.x,p1.y), (p1.x,p2.y)) and ((p1.x,p2.y), p2, (p2.x,p1.y)).
func uploadRectAsTriangles(dst []float32, i int, p1, p2 mgl32.Vec2) {
	q := dst[2*VerticesPerQuad*i : 2*VerticesPerQuad*(i+1)]
	q[0], q[1] = p1.X(), p1.Y()
	q[2], q[3] = p2.X(), p1.Y()
	q[4], q[5] = p1.X(), p2.Y()

	q[6], q[7] = p1.X(), p2.Y()
	q[8], q[9] = p2.X(), p2.Y()
	q[10], q[11] = p2.X(), p1.Y()
}

// Begin binds the program and points the position, coordinate and (if
// present) colour attribute arrays at the staged data.
func (p *Program) Begin() {
	p.gl.UseProgram(p.id)
	if p.vao == 0 {
		p.vao = p.gl.GenVertexArray()
		for i := range p.vbos {
			p.vbos[i] = p.gl.GenBuffer()
		}
	}
	p.gl.BindVertexArray(p.vao)
	p.attrib(AttribPosition, p.vbos[AttribPosition], float32Bytes(p.positions), 2, graphics.FLOAT, false)
	p.attrib(AttribCoord, p.vbos[AttribCoord], float32Bytes(p.coords), 2, graphics.FLOAT, false)
	p.colorActive = p.hasColor
	if p.colorActive {
		p.growColors()
		p.attrib(AttribColor, p.vbos[AttribColor], uint32Bytes(p.colors), 4, graphics.UNSIGNED_BYTE, true)
	}
	p.gl.BindBuffer(graphics.ARRAY_BUFFER, 0)
}

func (p *Program) attrib(index, vbo uint32, data []byte, size int, typ graphics.Enum, normalized bool) {
	p.gl.BindBuffer(graphics.ARRAY_BUFFER, vbo)
	p.gl.BufferData(graphics.ARRAY_BUFFER, data, graphics.STREAM_DRAW)
	p.gl.EnableVertexAttribArray(index)
	p.gl.VertexAttribPointer(index, size, typ, normalized, 0, 0)
}

// End disables the attribute arrays enabled by Begin and releases the
// program binding.
func (p *Program) End() {
	p.gl.DisableVertexAttribArray(AttribCoord)
	p.gl.DisableVertexAttribArray(AttribPosition)
	if p.colorActive {
		p.gl.DisableVertexAttribArray(AttribColor)
		p.colorActive = false
	}
	p.gl.BindVertexArray(0)
	p.gl.UseProgram(0)
}

// Do runs fn between Begin and End. End runs even if fn fails or panics.
func (p *Program) Do(fn func() error) error {
	p.Begin()
	defer p.End()
	return fn()
}

// Draw issues the triangles of the first quads quads. It must be called
// between Begin and End.
func (p *Program) Draw(quads int) {
	quads = min(quads, p.Quads())
	if quads <= 0 {
		return
	}
	p.gl.DrawArrays(graphics.TRIANGLES, 0, quads*VerticesPerQuad)
}

func (p *Program) location(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	if p.uniforms == nil {
		p.uniforms = make(map[string]int32)
	}
	loc := p.gl.GetUniformLocation(p.id, p.name(name))
	p.uniforms[name] = loc
	return loc
}

// The uniform setters apply to the bound program; call them between
// Begin and End. Uniforms the linker dropped are ignored.

func (p *Program) SetInt(name string, v int32) {
	if loc := p.location(name); loc != -1 {
		p.gl.Uniform1i(loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.location(name); loc != -1 {
		p.gl.Uniform1f(loc, v)
	}
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	if loc := p.location(name); loc != -1 {
		p.gl.Uniform2f(loc, v.X(), v.Y())
	}
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.location(name); loc != -1 {
		p.gl.UniformMatrix4fv(loc, m[:])
	}
}

// Reset detaches and deletes both stages so a new pair can be set.
func (p *Program) Reset() {
	if p.vertex != 0 {
		p.gl.DetachShader(p.id, p.vertex)
		p.gl.DeleteShader(p.vertex)
		p.vertex = 0
	}
	if p.fragment != 0 {
		p.gl.DetachShader(p.id, p.fragment)
		p.gl.DeleteShader(p.fragment)
		p.fragment = 0
	}
	p.hasColor = false
	p.names = nil
	p.uniforms = nil
}

// Close releases the program, its stages and its vertex buffers.
func (p *Program) Close() error {
	p.Reset()
	if p.vao != 0 {
		for i, vbo := range p.vbos {
			p.gl.DeleteBuffer(vbo)
			p.vbos[i] = 0
		}
		p.gl.DeleteVertexArray(p.vao)
		p.vao = 0
	}
	if p.id != 0 {
		p.gl.DeleteProgram(p.id)
		p.id = 0
	}
	return nil
}

func float32Bytes(s []float32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
}

func uint32Bytes(s []uint32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
}
