package paths

import (
	"path"
	"runtime"
	"strings"
	"unicode"
)

// Rule names reported in a Resolution.
const (
	RuleEmpty    = "empty"
	RuleMount    = "mount"
	RuleDrive    = "drive"
	RuleAbsolute = "absolute"
	RuleRelative = "relative"
)

// Resolution is the outcome of Normalize.
type Resolution struct {
	Path  string
	Rule  string
	Drive string // lower-case drive letter, when the input carried one
}

// Normalizer maps a target directory typed on any OS onto this host.
// DriveLetters selects the host flavor: true for hosts with X:\ volumes.
type Normalizer struct {
	DriveLetters bool

	// Trace, when set, observes every decision.
	Trace func(raw string, res Resolution)
}

// NewNormalizer returns a Normalizer for the running host.
func NewNormalizer() *Normalizer {
	return &Normalizer{DriveLetters: runtime.GOOS == "windows"}
}

type input struct {
	clean    string
	drive    byte
	rest     string
	fallback string
}

type rule struct {
	name  string
	match func(n *Normalizer, in input) bool
	apply func(n *Normalizer, in input) string
}

// Evaluated in order, first match wins.
var rules = []rule{
	{
		name:  RuleMount,
		match: func(n *Normalizer, in input) bool { return in.drive != 0 && !n.DriveLetters },
		apply: func(_ *Normalizer, in input) string {
			return path.Clean("/mnt/" + string(in.drive) + "/" + in.rest)
		},
	},
	{
		name:  RuleDrive,
		match: func(n *Normalizer, in input) bool { return in.drive != 0 && n.DriveLetters },
		apply: func(_ *Normalizer, in input) string {
			return cleanVolume(strings.ToUpper(string(in.drive)) + ":/" + in.rest)
		},
	},
	{
		name: RuleAbsolute,
		match: func(n *Normalizer, in input) bool {
			if n.DriveLetters {
				return strings.HasPrefix(in.clean, "//")
			}
			return strings.HasPrefix(in.clean, "/")
		},
		apply: func(n *Normalizer, in input) string {
			if n.DriveLetters {
				return cleanVolume(in.clean)
			}
			return path.Clean(in.clean)
		},
	},
	{
		name:  RuleRelative,
		match: func(*Normalizer, input) bool { return true },
		apply: func(n *Normalizer, in input) string {
			if n.DriveLetters {
				return cleanVolume(strings.TrimRight(in.fallback, `\/`) + "/" + in.clean)
			}
			return path.Join(in.fallback, in.clean)
		},
	},
}

// Normalize resolves raw to an absolute directory, using fallbackRoot for
// empty input and as the base of relative input.
func (n *Normalizer) Normalize(raw, fallbackRoot string) Resolution {
	clean := cleanup(raw)
	if clean == "" {
		return n.trace(raw, Resolution{Path: fallbackRoot, Rule: RuleEmpty})
	}

	in := input{clean: clean, fallback: fallbackRoot}
	if d, rest, ok := splitDrive(clean); ok {
		in.drive = d
		in.rest = rest
	}

	for _, r := range rules {
		if !r.match(n, in) {
			continue
		}
		res := Resolution{Path: r.apply(n, in), Rule: r.name}
		if in.drive != 0 {
			res.Drive = string(in.drive)
		}
		return n.trace(raw, res)
	}

	// unreachable: the relative rule always matches
	return n.trace(raw, Resolution{Path: fallbackRoot, Rule: RuleEmpty})
}

func (n *Normalizer) trace(raw string, res Resolution) Resolution {
	if n.Trace != nil {
		n.Trace(raw, res)
	}
	return res
}

// cleanup folds full-width punctuation, drops non-printable runes, unifies
// separators to '/' and trims surrounding whitespace.
func cleanup(raw string) string {
	s := strings.NewReplacer("：", ":", "\u3000", " ").Replace(raw)
	s = strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, `\`, "/")
	return strings.TrimSpace(s)
}

// splitDrive detects a leading "<letter>:" and returns the lower-case letter
// and the remainder without leading separators.
func splitDrive(s string) (byte, string, bool) {
	if len(s) < 2 || s[1] != ':' {
		return 0, "", false
	}
	c := s[0]
	switch {
	case c >= 'a' && c <= 'z':
	case c >= 'A' && c <= 'Z':
		c += 'a' - 'A'
	default:
		return 0, "", false
	}
	return c, strings.TrimLeft(s[2:], "/"), true
}

// cleanVolume cleans a slash-separated path that starts with a drive volume
// or a UNC prefix and renders it with backslashes.
func cleanVolume(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if strings.HasPrefix(p, "//") {
		rest := path.Clean("/" + strings.TrimLeft(p, "/"))
		return `\` + strings.ReplaceAll(rest, "/", `\`)
	}
	if len(p) >= 2 && p[1] == ':' {
		rest := path.Clean("/" + strings.TrimLeft(p[2:], "/"))
		return p[:2] + strings.ReplaceAll(rest, "/", `\`)
	}
	return strings.ReplaceAll(path.Clean(p), "/", `\`)
}
