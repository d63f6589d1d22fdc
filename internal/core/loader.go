package core

// loader.go builds an EntityStore from the three feeds.
//
// The feeds are fetched concurrently. The load is all-or-nothing: if any
// feed fails to fetch, the whole load fails with ErrDataUnavailable and no
// store is returned, so callers never see a partial set of collections.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// FeedSource retrieves the raw text of a feed.
type FeedSource interface {
	Fetch(ctx context.Context, kind FeedKind) (string, error)
}

// LoadOptions tunes LoadEntities.
type LoadOptions struct {
	Parser  Parser        // Zero value means DefaultParser
	Timeout time.Duration // Per-load timeout; 0 disables
}

// FeedError records which feed failed to load.
type FeedError struct {
	Kind FeedKind
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("%s feed: %v", e.Kind, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// LoadEntities fetches, parses and maps all feeds from src.
// Errors wrap ErrDataUnavailable and a *FeedError naming the feed.
func LoadEntities(ctx context.Context, src FeedSource, opts LoadOptions) (*EntityStore, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	texts := make([]string, len(FeedKinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range FeedKinds {
		g.Go(func() error {
			text, err := src.Fetch(gctx, kind)
			if err != nil {
				return &FeedError{Kind: kind, Err: err}
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	body := make(map[FeedKind]string, len(FeedKinds))
	for i, kind := range FeedKinds {
		body[kind] = texts[i]
	}

	parser := opts.Parser
	schoolRecords := parser.Parse(body[FeedSchools])
	rpRecords := parser.Parse(body[FeedResourcePersons])

	warnMissingColumns(ctx, SchoolFeed, schoolRecords)
	warnMissingColumns(ctx, ResourcePersonFeed, rpRecords)

	return NewEntityStore(
		ToSchools(schoolRecords),
		ToResourcePersons(rpRecords),
		ToTopics(body[FeedTopics]),
	), nil
}

// warnMissingColumns logs expected columns absent from a feed header.
// Mapping continues with empty values for those columns.
func warnMissingColumns(ctx context.Context, def FeedDefinition, records []Record) {
	if len(records) == 0 {
		slog.WarnContext(ctx, "feed has no data rows", "feed", def.Kind)
		return
	}
	if err := MissingColumnsError(def, CheckColumns(def, records[0].Columns())); err != nil {
		slog.WarnContext(ctx, "feed header incomplete", "feed", def.Kind, "error", err)
	}
}
