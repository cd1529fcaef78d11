package libgl_test

import (
	"strings"
	"testing"

	"postfx/libgl"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const templateSource = `#version 450 core
//meta:name blur
#define SAMPLES 5
// #define HDR
#define GAMMA

void main() {}
`

func TestShaderTemplateName(t *testing.T) {
	tmpl := libgl.ParseShaderTemplate(templateSource)
	if tmpl.Name != "blur" {
		t.Errorf("name should be %q but is %q", "blur", tmpl.Name)
	}

	if name := libgl.ParseShaderTemplate("#version 450\nvoid main() {}").Name; name != "untitled" {
		t.Errorf("name without meta comment should be %q but is %q", "untitled", name)
	}
}

func TestShaderTemplateDefaults(t *testing.T) {
	out := libgl.ParseShaderTemplate(templateSource).Expand(nil)

	for _, want := range []string{"#define SAMPLES 5", "// #define HDR", "#define GAMMA"} {
		if !strings.Contains(out, want) {
			t.Errorf("expanded source is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "$def_") {
		t.Errorf("expanded source still contains markers:\n%s", out)
	}
}

func TestShaderTemplateOverrides(t *testing.T) {
	out := libgl.ParseShaderTemplate(templateSource).Expand(map[string]string{
		"samples": "9",
		"HDR":     "true",
		"GAMMA":   "false",
		"EXTRA":   "1",
		"ANOTHER": "2",
	})

	for _, want := range []string{"#define SAMPLES 9", "#define HDR", "// #define GAMMA"} {
		if !strings.Contains(out, want) {
			t.Errorf("expanded source is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "// #define HDR") {
		t.Errorf("HDR should be enabled:\n%s", out)
	}
	if !strings.HasPrefix(out, "#version 450 core\n#define ANOTHER 2\n#define EXTRA 1\n") {
		t.Errorf("unknown defines should follow the version line in name order:\n%s", out)
	}
}

func TestShaderCacheKey(t *testing.T) {
	a := libgl.ShaderCacheKey("void main() {}", "vendor", "renderer", "4.5")
	b := libgl.ShaderCacheKey("void main() {}", "vendor", "renderer", "4.5")
	c := libgl.ShaderCacheKey("void main() {}", "other", "renderer", "4.5")

	if len(a) != 32 {
		t.Errorf("key should be 32 hex digits, got %q", a)
	}
	if a != b {
		t.Errorf("key is not stable: %q != %q", a, b)
	}
	if a == c {
		t.Errorf("key should depend on the driver")
	}
}

const uniformFragmentSource = `#version 450 core
layout(location = 0) out vec4 out_color;
uniform float u_threshold;
uniform vec2 u_pixel_size;
void main() {
	out_color = vec4(u_threshold, u_pixel_size, 1.0);
}
`

func TestShaderUniformValues(t *testing.T) {
	var prog libgl.ShaderProgram
	var err error
	runOnMain(t, func() {
		prog = libgl.NewShader(uniformFragmentSource, gl.FRAGMENT_SHADER)
		err = prog.Compile()
	})
	if err != nil {
		t.Fatal(err)
	}
	defer runOnMain(t, prog.Destroy)

	runOnMain(t, func() {
		prog.SetUniform("u_threshold", float32(0.5))
		prog.SetUniform("u_pixel_size", mgl32.Vec2{0.25, 0.5})
		prog.SetUniform("u_missing", float32(1))
	})

	if v, ok := prog.UniformValue("u_threshold"); !ok || v != float32(0.5) {
		t.Errorf("u_threshold should be 0.5 but is %v", v)
	}
	if v, ok := prog.UniformValue("u_pixel_size"); !ok || v != (mgl32.Vec2{0.25, 0.5}) {
		t.Errorf("u_pixel_size should be [0.25 0.5] but is %v", v)
	}
	if _, ok := prog.UniformValue("u_missing"); ok {
		t.Errorf("a uniform without location should not be recorded")
	}
}

func TestShaderCompileError(t *testing.T) {
	var err error
	runOnMain(t, func() {
		prog := libgl.NewShader("#version 450 core\nvoid main() { syntax error }\n", gl.FRAGMENT_SHADER)
		err = prog.Compile()
	})
	if err == nil {
		t.Errorf("broken source should fail to link")
	}
}
