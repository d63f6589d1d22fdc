package core

// feedstream.go reads raw feed bodies into text the parser can use.
//
// Published spreadsheets exported from Windows tools often start with a
// UTF-8 BOM and occasionally carry stray Latin-1 bytes. ReadFeed:
//   - skips a leading BOM
//   - caps the body at maxBytes (ErrFeedTooLarge beyond that)
//   - replaces invalid UTF-8 sequences with '?'
//   - normalises CRLF line endings to LF

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrFeedTooLarge is returned when a feed body exceeds the configured cap.
var ErrFeedTooLarge = errors.New("feed too large")

// DefaultMaxFeedBytes caps feed bodies when no limit is configured (10MB).
const DefaultMaxFeedBytes int64 = 10 * 1024 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM returns a reader positioned after a leading UTF-8 BOM, if any.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// ReadFeed reads a whole feed body and returns it as clean text.
// maxBytes <= 0 means DefaultMaxFeedBytes.
func ReadFeed(r io.Reader, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFeedBytes
	}

	limited := io.LimitReader(SkipBOM(r), maxBytes+1)

	body, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("read feed: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrFeedTooLarge, maxBytes)
	}

	text := strings.ToValidUTF8(string(body), "?")
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}
