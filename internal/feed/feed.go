// Package feed provides the core.FeedSource implementations the server can
// load training data from.
//
//   - HTTP fetches published spreadsheet exports by URL
//   - Postgres reads feed bodies stored in the training_feeds table
//   - Dir reads one file per feed from a directory
//   - Static serves fixed text, mostly for tests and demos
//
// Every source returns the raw feed text; parsing happens in core.
package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/NikaNal/dept-of-excellence-training/internal/core"
)

// ErrFeedNotConfigured is returned when a source has nothing for a kind.
var ErrFeedNotConfigured = errors.New("feed not configured")

// Static serves feed text from memory.
type Static map[core.FeedKind]string

// Fetch returns the text stored for kind.
func (s Static) Fetch(ctx context.Context, kind core.FeedKind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, ok := s[kind]
	if !ok {
		return "", fmt.Errorf("%s: %w", kind, ErrFeedNotConfigured)
	}
	return text, nil
}

// Copy fetches every feed from src and stores it with dst. It stops at the
// first error; feeds already written stay written.
func Copy(ctx context.Context, dst *Postgres, src core.FeedSource) (int, error) {
	copied := 0
	for _, kind := range core.FeedKinds {
		text, err := src.Fetch(ctx, kind)
		if err != nil {
			return copied, fmt.Errorf("read %s feed: %w", kind, err)
		}
		if err := dst.Put(ctx, kind, text); err != nil {
			return copied, fmt.Errorf("store %s feed: %w", kind, err)
		}
		copied++
	}
	return copied, nil
}
