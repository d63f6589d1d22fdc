package core

// parse.go turns loosely structured delimited text into ordered records.
//
// Feeds come from published spreadsheets, so the parser is forgiving:
//   - the first non-blank line is the header
//   - blank lines are skipped
//   - a quoted field may contain the delimiter
//   - rows shorter than the header are padded with empty strings
//
// Nothing here returns an error. Input with no header yields no records.

import "strings"

// Parser splits delimited text into records.
type Parser struct {
	Delimiter rune
	Quote     rune
}

// DefaultParser reads comma separated text with double-quote quoting.
var DefaultParser = Parser{Delimiter: ',', Quote: '"'}

// Record is one data row keyed by the header's column names. Column order
// follows the header.
type Record struct {
	columns []string
	values  map[string]string
}

// NewRecord builds a record from parallel column/value slices. Missing
// values become empty strings.
func NewRecord(columns, values []string) Record {
	r := Record{
		columns: columns,
		values:  make(map[string]string, len(columns)),
	}
	for i, col := range columns {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		r.values[col] = v
	}
	return r
}

// Get returns the value for col, or "" if the column does not exist.
func (r Record) Get(col string) string {
	return r.values[col]
}

// Has reports whether col is part of the record's header.
func (r Record) Has(col string) bool {
	_, ok := r.values[col]
	return ok
}

// Columns returns the header column names in order.
func (r Record) Columns() []string {
	return r.columns
}

// Len returns the number of columns.
func (r Record) Len() int {
	return len(r.columns)
}

// Map returns a copy of the record as a plain map.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Parse splits text into lines, reads the header from the first non-blank
// line and returns one record per remaining non-blank line.
func (p Parser) Parse(text string) []Record {
	p = p.withDefaults()

	var (
		header  []string
		records []Record
	)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := p.SplitLine(line)
		for i := range fields {
			fields[i] = p.CleanField(fields[i])
		}

		if header == nil {
			header = fields
			continue
		}

		records = append(records, NewRecord(header, fields))
	}

	return records
}

// SplitLine splits one line on the delimiter, ignoring delimiters that
// appear while an odd number of quote characters has been seen.
// Fields are returned raw; see CleanField.
func (p Parser) SplitLine(line string) []string {
	p = p.withDefaults()

	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	for _, r := range line {
		switch {
		case r == p.Quote:
			inQuotes = !inQuotes
			field.WriteRune(r)
		case r == p.Delimiter && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, field.String())

	return fields
}

// CleanField trims whitespace, drops a wrapping quote pair and removes any
// quote characters left inside the value.
func (p Parser) CleanField(s string) string {
	p = p.withDefaults()
	q := string(p.Quote)

	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
		s = s[len(q) : len(s)-len(q)]
	}
	s = strings.ReplaceAll(s, q, "")

	return strings.TrimSpace(s)
}

func (p Parser) withDefaults() Parser {
	if p.Delimiter == 0 {
		p.Delimiter = DefaultParser.Delimiter
	}
	if p.Quote == 0 {
		p.Quote = DefaultParser.Quote
	}
	return p
}
