package core

// convert.go turns cleaned feed and form strings into typed values.
//
// Feeds are typed by humans, so coordinates tolerate stray whitespace and
// a trailing degree sign. Request dates are strict: only DateLayout is
// accepted, since a slash date cannot be told apart as day-first or
// month-first.
//
// All ToPg* functions return Valid=false for empty or invalid input
// instead of an error.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates a decimal or scientific-notation number after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ToPgDate converts a DateLayout string to pgtype.Date.
func ToPgDate(s string) pgtype.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Date{Valid: false}
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}

// ToPgFloat8 converts a coordinate-like string to pgtype.Float8.
func ToPgFloat8(s string) pgtype.Float8 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "°")
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return pgtype.Float8{Valid: false}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// normalizeCode prepares a school code for comparison.
func normalizeCode(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
