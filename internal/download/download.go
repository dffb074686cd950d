// Package download persists exported files to their destination.
package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sink stores a finished export under name and returns where it ended up.
type Sink interface {
	Save(ctx context.Context, name string, body []byte) (string, error)
}

// Dir saves files into a local directory.
type Dir struct {
	Path string
}

// NewDir returns a Dir sink rooted at path, expanding a leading "~".
func NewDir(path string) *Dir {
	return &Dir{Path: expandHome(path)}
}

// Save writes body to a temp file and renames it into place. The temp file
// never outlives the call. Existing names get a " (n)" suffix.
func (d *Dir) Save(ctx context.Context, name string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Path, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmp := filepath.Join(d.Path, "."+uuid.NewString()+".part")
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write download: %w", err)
	}

	dst := uniquePath(filepath.Join(d.Path, name))
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("move download into place: %w", err)
	}

	log.Debug().Str("path", dst).Int("bytes", len(body)).Msg("Download saved")
	return dst, nil
}

// uniquePath mimics browser download naming: "a.csv", "a (1).csv", ...
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// DefaultDir is the user's download directory, or the working directory.
func DefaultDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return "."
}

// NewSink picks an S3 sink for s3://bucket/prefix destinations and a Dir otherwise.
func NewSink(ctx context.Context, dest string, opts S3Options) (Sink, error) {
	if strings.HasPrefix(dest, "s3://") {
		return NewS3(ctx, dest, opts)
	}
	if dest == "" {
		dest = DefaultDir()
	}
	return NewDir(dest), nil
}
