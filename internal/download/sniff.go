package download

import (
	"github.com/woozymasta/gmexport/internal/format"

	"github.com/h2non/filetype"
)

// Sniff reports the detected type of body and whether it is plausible for f.
// KMZ must be a zip archive; text formats must not look like a known binary.
func Sniff(body []byte, f format.Format) (string, bool) {
	head := body
	if len(head) > 262 {
		head = head[:262]
	}

	kind, _ := filetype.Match(head)
	detected := kind.Extension
	if kind == filetype.Unknown {
		detected = "unknown"
	}

	if f == format.KMZ {
		return detected, kind.Extension == "zip"
	}
	return detected, kind == filetype.Unknown
}
