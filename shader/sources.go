package shader

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// Attribute and uniform names shared by the stock sources. Custom sources
// must declare the same attribute names (or map them through Source.Names).
const (
	PositionAttrib = "vPosition"
	CoordAttrib    = "vCoord"
	ColorAttrib    = "vColor"

	ProjectionUniform  = "uProjection"
	ColorMatrixUniform = "uColorMatrix"
	FrameSizeUniform   = "uFrameSize"
)

// SamplerUniform returns the sampler name for plane i (uTex0, uTex1, ...).
func SamplerUniform(i int) string { return "uTex" + strconv.Itoa(i) }

// ScaleUniform returns the coordinate scale name for plane i. The scale
// maps frame coordinates onto the used part of a plane texture.
func ScaleUniform(i int) string { return "uScale" + strconv.Itoa(i) }

// Fragment kinds for the stock video stages.
type Fragment int

const (
	FragmentRGBA Fragment = iota
	FragmentGray
	FragmentYUVPlanar
	FragmentNV12
	FragmentPacked422
	FragmentFlatColor
	// FragmentRectangle samples a rectangle texture in pixel units.
	// Desktop GL only.
	FragmentRectangle
)

// Limited-range YCbCr to RGB matrices applied to vec4(y, cb, cr, 1).
// Column-major, as GLSL expects.
var (
	BT601 = mgl32.Mat4{
		1.164, 1.164, 1.164, 0,
		0, -0.392, 2.017, 0,
		1.596, -0.813, 0, 0,
		-0.871035, 0.529465, -1.081535, 1,
	}
	BT709 = mgl32.Mat4{
		1.164, 1.164, 1.164, 0,
		0, -0.213, 2.112, 0,
		1.793, -0.533, 0, 0,
		-0.969535, 0.299965, -1.129035, 1,
	}
)

func header(isGLES bool) string {
	if isGLES {
		return "#version 300 es\nprecision highp float;\n"
	}
	return "#version 410 core\n"
}

const vertexBody = `
uniform mat4 uProjection;
in vec2 vPosition;
in vec2 vCoord;
out vec2 texCoord;
void main() {
    texCoord = vCoord;
    gl_Position = uProjection * vec4(vPosition, 0.0, 1.0);
}
`

const vertexColorBody = `
uniform mat4 uProjection;
in vec2 vPosition;
in vec2 vCoord;
in vec4 vColor;
out vec2 texCoord;
out vec4 color;
void main() {
    texCoord = vCoord;
    color = vColor;
    gl_Position = uProjection * vec4(vPosition, 0.0, 1.0);
}
`

const rgbaBody = `
in vec2 texCoord;
out vec4 fragColor;
uniform sampler2D uTex0;
uniform vec2 uScale0;
void main() { fragColor = texture(uTex0, texCoord * uScale0); }
`

const grayBody = `
in vec2 texCoord;
out vec4 fragColor;
uniform sampler2D uTex0;
uniform vec2 uScale0;
void main() {
    float l = texture(uTex0, texCoord * uScale0).r;
    fragColor = vec4(l, l, l, 1.0);
}
`

const yuvPlanarBody = `
in vec2 texCoord;
out vec4 fragColor;
uniform sampler2D uTex0;
uniform sampler2D uTex1;
uniform sampler2D uTex2;
uniform vec2 uScale0;
uniform vec2 uScale1;
uniform vec2 uScale2;
uniform mat4 uColorMatrix;
void main() {
    vec4 yuv = vec4(texture(uTex0, texCoord * uScale0).r,
                    texture(uTex1, texCoord * uScale1).r,
                    texture(uTex2, texCoord * uScale2).r, 1.0);
    fragColor = vec4((uColorMatrix * yuv).rgb, 1.0);
}
`

const nv12Body = `
in vec2 texCoord;
out vec4 fragColor;
uniform sampler2D uTex0;
uniform sampler2D uTex1;
uniform vec2 uScale0;
uniform vec2 uScale1;
uniform mat4 uColorMatrix;
void main() {
    vec2 uv = texture(uTex1, texCoord * uScale1).rg;
    vec4 yuv = vec4(texture(uTex0, texCoord * uScale0).r, uv, 1.0);
    fragColor = vec4((uColorMatrix * yuv).rgb, 1.0);
}
`

// Packed UYVY: one RGBA texel holds U, Y0, V, Y1 for two pixels.
const packed422Body = `
in vec2 texCoord;
out vec4 fragColor;
uniform sampler2D uTex0;
uniform vec2 uScale0;
uniform vec2 uFrameSize;
uniform mat4 uColorMatrix;
void main() {
    vec4 t = texture(uTex0, texCoord * uScale0);
    float x = floor(texCoord.x * uFrameSize.x);
    float y = mod(x, 2.0) < 1.0 ? t.g : t.a;
    fragColor = vec4((uColorMatrix * vec4(y, t.r, t.b, 1.0)).rgb, 1.0);
}
`

const rectangleBody = `
in vec2 texCoord;
out vec4 fragColor;
uniform sampler2DRect uTex0;
uniform vec2 uScale0;
void main() { fragColor = texture(uTex0, texCoord * uScale0); }
`

const flatColorBody = `
in vec2 texCoord;
in vec4 color;
out vec4 fragColor;
void main() { fragColor = color; }
`

// VertexSource returns the stock vertex stage. withColor adds the vColor
// attribute.
func VertexSource(isGLES, withColor bool) Source {
	if withColor {
		return Source{Code: header(isGLES) + vertexColorBody, Color: true}
	}
	return Source{Code: header(isGLES) + vertexBody}
}

// FragmentSource returns the stock fragment stage of the given kind.
func FragmentSource(kind Fragment, isGLES bool) Source {
	var body string
	switch kind {
	case FragmentGray:
		body = grayBody
	case FragmentYUVPlanar:
		body = yuvPlanarBody
	case FragmentNV12:
		body = nv12Body
	case FragmentPacked422:
		body = packed422Body
	case FragmentFlatColor:
		body = flatColorBody
	case FragmentRectangle:
		body = rectangleBody
	default:
		body = rgbaBody
	}
	return Source{Code: header(isGLES) + body}
}
