package feed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/NikaNal/dept-of-excellence-training/internal/core"
)

// DefaultFileNames maps each feed to its file inside a feed directory.
var DefaultFileNames = map[core.FeedKind]string{
	core.FeedSchools:         "schools.csv",
	core.FeedResourcePersons: "resource_persons.csv",
	core.FeedTopics:          "topics.csv",
}

// Dir reads feeds from files in Root.
type Dir struct {
	Root     string
	Files    map[core.FeedKind]string // nil means DefaultFileNames
	MaxBytes int64
}

// NewDir creates a directory source using DefaultFileNames.
func NewDir(root string, maxBytes int64) *Dir {
	return &Dir{Root: root, MaxBytes: maxBytes}
}

// Path returns the file path for kind.
func (d *Dir) Path(kind core.FeedKind) (string, bool) {
	files := d.Files
	if files == nil {
		files = DefaultFileNames
	}
	name, ok := files[kind]
	if !ok {
		return "", false
	}
	return filepath.Join(d.Root, name), true
}

// Fetch reads the file for kind.
func (d *Dir) Fetch(ctx context.Context, kind core.FeedKind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, ok := d.Path(kind)
	if !ok {
		return "", fmt.Errorf("%s: %w", kind, ErrFeedNotConfigured)
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s (%s): %w", kind, path, ErrFeedNotConfigured)
	}
	if err != nil {
		return "", fmt.Errorf("open %s feed: %w", kind, err)
	}
	defer f.Close()

	return core.ReadFeed(f, d.MaxBytes)
}
