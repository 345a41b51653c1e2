// Package paths turns extension input into destination paths on this host.
package paths

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sharelgx/JDVideo/internal/domain"
)

// Extension is appended to every stored video.
const Extension = ".mp4"

// Windows/Linux/macOS reserved characters
var badChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizePart makes s safe as one file name component. An empty result
// falls back to def.
func SanitizePart(s, def string) string {
	res := strings.TrimSpace(badChars.ReplaceAllString(s, "_"))
	if res == "" {
		return def
	}
	return res
}

// FileName is "<identifier>_<title>.mp4" with both parts sanitized.
func FileName(identifier, title string) string {
	return SanitizePart(identifier, domain.DefaultIdentifier) + "_" +
		SanitizePart(title, domain.DefaultTitle) + Extension
}

// BuildPath places the file for one item beneath rootDir and the optional subDir.
func BuildPath(rootDir, subDir, identifier, title string) string {
	name := FileName(identifier, title)

	subDir = strings.Trim(subDir, `\/`)
	if subDir == "" {
		return filepath.Join(rootDir, name)
	}
	return filepath.Join(rootDir, subDir, name)
}
