package translator

import (
	"strings"
	"testing"

	"github.com/richinsley/glvideo/shader"
)

const colorVertex = `#version 300 es
in vec2 vPosition;
in vec2 vCoord;
in vec4 vColor;
uniform mat4 uProjection;
out vec2 texCoord;
out vec4 color;
void main() {
	texCoord = vCoord;
	color = vColor;
	gl_Position = uProjection * vec4(vPosition, 0.0, 1.0);
}
`

const plainVertex = `#version 300 es
in vec2 vPosition;
in vec2 vCoord;
out vec2 texCoord;
void main() {
	texCoord = vCoord;
	gl_Position = vec4(vPosition, 0.0, 1.0);
}
`

func TestUnknownStage(t *testing.T) {
	if _, err := Translate("void main() {}", "geometry", false); err == nil {
		t.Error("expected an error for an unknown stage")
	}
}

func TestTranslateVertexStage(t *testing.T) {
	if testing.Short() {
		t.Skip("translator start-up is slow")
	}
	src, err := Translate(colorVertex, Vertex, false)
	if err != nil {
		t.Fatal(err)
	}
	if !src.Color {
		t.Error("vColor declared but Color not reported")
	}
	for _, name := range []string{shader.PositionAttrib, shader.CoordAttrib, shader.ColorAttrib, shader.ProjectionUniform} {
		mapped := name
		if m, ok := src.Names[name]; ok {
			mapped = m
		}
		if !strings.Contains(src.Code, mapped) {
			t.Errorf("%s maps to %q, which the translated code never mentions", name, mapped)
		}
	}
	for name, mapped := range src.Names {
		if mapped == "" || mapped == name {
			t.Errorf("identity entry %q -> %q kept in Names", name, mapped)
		}
	}
}

func TestTranslateWithoutColor(t *testing.T) {
	if testing.Short() {
		t.Skip("translator start-up is slow")
	}
	src, err := Translate(plainVertex, Vertex, false)
	if err != nil {
		t.Fatal(err)
	}
	if src.Color {
		t.Error("Color reported for a stage without vColor")
	}
	if _, err := Translate("#version 300 es\nvoid main() { undeclared = 1; }\n", Vertex, false); err == nil {
		t.Error("expected a translation error for invalid source")
	}
}
