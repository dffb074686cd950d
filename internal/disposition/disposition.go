// Package disposition resolves download file names from response headers.
package disposition

import (
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/vfaronov/httpheader"
)

const header = "Content-Disposition"

// lenient matches quoted, unquoted and UTF-8 extended filename tokens that
// strict RFC 6266 parsing rejects.
var lenient = regexp.MustCompile(`(?i)filename\*?=(?:UTF-8'')?"?([^;\r\n"]+)`)

var quotes = strings.NewReplacer(`"`, "", "'", "")

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Filename extracts the suggested file name from h, or "" when there is none.
func Filename(h http.Header) string {
	raw := h.Get(header)
	if raw == "" || !strings.Contains(strings.ToLower(raw), "filename") {
		return ""
	}

	_, strict, _ := httpheader.ContentDisposition(h)
	strict = strings.Trim(strings.TrimSpace(strict), `"'`)

	// filename* is percent-encoded, only the strict parser decodes it
	if strict != "" && strings.Contains(strings.ToLower(raw), "filename*") {
		return strict
	}

	var loose string
	if m := lenient.FindStringSubmatch(raw); len(m) == 2 {
		loose = quotes.Replace(strings.TrimSpace(m[1]))
	}

	// unquoted names with spaces are cut short by the strict parser
	if len(loose) > len(strict) {
		return loose
	}
	return strict
}

// Resolve returns the sanitized header file name, falling back to fallback.
func Resolve(h http.Header, fallback string) string {
	name := Sanitize(Filename(h))
	if name == "" || name == "." || name == "_" {
		return fallback
	}
	return name
}

// Sanitize removes characters that are unsafe or invalid across platforms.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(filepath.Base(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}

	name = ansiRegex.ReplaceAllString(name, "")
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	return strings.NewReplacer(
		"/", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	).Replace(name)
}
