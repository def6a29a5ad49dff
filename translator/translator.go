// Package translator compiles WebGL2-flavoured GLSL into the dialect of
// the running context so user shaders can be written once.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
	"github.com/richinsley/glvideo/shader"
)

// Stage names accepted by Translate.
const (
	Vertex   = "vertex"
	Fragment = "fragment"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// Get returns the process-wide translator, creating it on first use.
func Get() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, initErr
}

// Translate converts code for the given stage. The result carries the
// identifier renames the translator applied, and a vertex result reports
// colour support when the source declares the vColor attribute.
func Translate(code, stage string, isGLES bool) (shader.Source, error) {
	if stage != Vertex && stage != Fragment {
		return shader.Source{}, fmt.Errorf("unknown shader stage %q", stage)
	}
	t, err := Get()
	if err != nil {
		return shader.Source{}, fmt.Errorf("failed to create shader translator: %w", err)
	}
	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}
	res, err := t.TranslateShader(code, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return shader.Source{}, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	src := shader.Source{Code: res.Code, Names: make(map[string]string, len(res.Variables))}
	for name, v := range res.Variables {
		if v.MappedName != "" && v.MappedName != name {
			src.Names[name] = v.MappedName
		}
	}
	if stage == Vertex {
		_, src.Color = res.Variables[shader.ColorAttrib]
	}
	return src, nil
}
