package paths

import "testing"

func TestNormalizePOSIXHost(t *testing.T) {
	n := &Normalizer{}
	const fb = "/srv/downloads"

	cases := []struct {
		raw, want, rule string
	}{
		{"", fb, RuleEmpty},
		{"\x00\t", fb, RuleEmpty},
		{`D:\Videos\JD`, "/mnt/d/Videos/JD", RuleMount},
		{"D:/Videos", "/mnt/d/Videos", RuleMount},
		{`d:`, "/mnt/d", RuleMount},
		{`E：\视频\新建`, "/mnt/e/视频/新建", RuleMount},
		{"\u3000C:\\a\\..\\b\u3000", "/mnt/c/b", RuleMount},
		{"  /data/videos/ ", "/data/videos", RuleAbsolute},
		{"/data//x/./y", "/data/x/y", RuleAbsolute},
		{"relative/sub", "/srv/downloads/relative/sub", RuleRelative},
		{`clips\today`, "/srv/downloads/clips/today", RuleRelative},
	}
	for _, tc := range cases {
		res := n.Normalize(tc.raw, fb)
		if res.Path != tc.want || res.Rule != tc.rule {
			t.Errorf("Normalize(%q) = %q (%s), want %q (%s)", tc.raw, res.Path, res.Rule, tc.want, tc.rule)
		}
	}
}

func TestNormalizeDriveLetterHost(t *testing.T) {
	n := &Normalizer{DriveLetters: true}
	const fb = `C:\Users\me\Downloads`

	cases := []struct {
		raw, want, rule string
	}{
		{"", fb, RuleEmpty},
		{`D:\Videos\..\Clips`, `D:\Clips`, RuleDrive},
		{`d:/a/b/`, `D:\a\b`, RuleDrive},
		{`c:`, `C:\`, RuleDrive},
		{`//nas/share/v`, `\\nas\share\v`, RuleAbsolute},
		{`sub\dir`, `C:\Users\me\Downloads\sub\dir`, RuleRelative},
	}
	for _, tc := range cases {
		res := n.Normalize(tc.raw, fb)
		if res.Path != tc.want || res.Rule != tc.rule {
			t.Errorf("Normalize(%q) = %q (%s), want %q (%s)", tc.raw, res.Path, res.Rule, tc.want, tc.rule)
		}
	}
}

func TestNormalizeReportsDrive(t *testing.T) {
	var traced []Resolution
	n := &Normalizer{Trace: func(_ string, res Resolution) { traced = append(traced, res) }}

	res := n.Normalize(`F:\x`, "/fb")
	if res.Drive != "f" {
		t.Fatalf("Drive = %q, want f", res.Drive)
	}
	n.Normalize("rel", "/fb")

	if len(traced) != 2 {
		t.Fatalf("traced %d resolutions, want 2", len(traced))
	}
	if traced[1].Drive != "" || traced[1].Rule != RuleRelative {
		t.Fatalf("unexpected trace %+v", traced[1])
	}
}
