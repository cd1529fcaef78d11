package libgl_test

import (
	"testing"

	"postfx/libgl"

	"github.com/go-gl/gl/v4.5-core/gl"
)

func TestParseVendor(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Intel", libgl.VendorIntel},
		{"Intel Open Source Technology Center\x00", libgl.VendorIntel},
		{"NVIDIA Corporation", libgl.VendorNvidia},
		{"ATI Technologies Inc.", libgl.VendorAmd},
		{"AMD", libgl.VendorAmd},
		{"Mesa/X.org", libgl.VendorUnknown},
	}
	for _, c := range cases {
		if got := libgl.ParseVendor(c.in); got != c.want {
			t.Errorf("ParseVendor(%q) should be %q but is %q", c.in, c.want, got)
		}
	}
}

func TestStateManagerSkipsRedundantBinds(t *testing.T) {
	runOnMain(t, func() {
		libgl.GlState.Viewport(0, 0, 32, 16)
		libgl.GlState.Viewport(0, 0, 32, 16)
		var dims [4]int32
		gl.GetIntegerv(gl.VIEWPORT, &dims[0])
		if dims != [4]int32{0, 0, 32, 16} {
			t.Errorf("viewport should be [0 0 32 16] but is %v", dims)
		}

		libgl.GlState.Enable(libgl.Blend)
		if !gl.IsEnabled(gl.BLEND) || !libgl.GlState.Caps[libgl.Blend] {
			t.Errorf("blend should be enabled")
		}
		libgl.GlState.SetEnabled(libgl.DepthTest)
		if gl.IsEnabled(gl.BLEND) || libgl.GlState.Caps[libgl.Blend] {
			t.Errorf("blend should be disabled by SetEnabled")
		}
		if !gl.IsEnabled(gl.DEPTH_TEST) {
			t.Errorf("depth test should be enabled")
		}
		libgl.GlState.SetEnabled()
	})
}
