package paths

import (
	"path/filepath"
	"testing"
)

func TestSanitizePart(t *testing.T) {
	cases := []struct {
		in, def, want string
	}{
		{`a/b\c:d*e?f"g<h>i|j`, "x", "a_b_c_d_e_f_g_h_i_j"},
		{"  spaced  ", "x", "spaced"},
		{"", "unknown", "unknown"},
		{"   ", "video", "video"},
		{"京东 直播", "x", "京东 直播"},
	}
	for _, tc := range cases {
		if got := SanitizePart(tc.in, tc.def); got != tc.want {
			t.Errorf("SanitizePart(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildPath(t *testing.T) {
	root := filepath.FromSlash("/dl")

	cases := []struct {
		name                 string
		sub, sku, title, want string
	}{
		{"no sub", "", "100", "Phone", "/dl/100_Phone.mp4"},
		{"sub stripped", `\batch1/`, "100", "Phone", "/dl/batch1/100_Phone.mp4"},
		{"bad chars", "", "1/2", `a:b?`, "/dl/1_2_a_b_.mp4"},
		{"defaults", "", "", "", "/dl/unknown_video.mp4"},
		{"nested sub", "a/b", "7", "t", "/dl/a/b/7_t.mp4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildPath(root, tc.sub, tc.sku, tc.title)
			if want := filepath.FromSlash(tc.want); got != want {
				t.Fatalf("BuildPath = %q, want %q", got, want)
			}
		})
	}
}

func TestBuildPathDeterministic(t *testing.T) {
	a := BuildPath("/x", "s", "1", "t")
	b := BuildPath("/x", "s", "1", "t")
	if a != b {
		t.Fatalf("BuildPath not deterministic: %q vs %q", a, b)
	}
}
