package core

import (
	"reflect"
	"testing"
)

func parseRecords(text string) []Record {
	return DefaultParser.Parse(text)
}

func TestParseQuotedDelimiter(t *testing.T) {
	records := parseRecords("A,B,C\nx,\"y,y\",z\n")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	want := map[string]string{"A": "x", "B": "y,y", "C": "z"}
	if got := records[0].Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseMultipleQuotedDelimiters(t *testing.T) {
	records := parseRecords(`NAME,ADDRESS,NOTE
"Smith, J","12, Main St, Apt 4",plain
`)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if got := r.Get("NAME"); got != "Smith, J" {
		t.Errorf("NAME = %q, want %q", got, "Smith, J")
	}
	if got := r.Get("ADDRESS"); got != "12, Main St, Apt 4" {
		t.Errorf("ADDRESS = %q, want %q", got, "12, Main St, Apt 4")
	}
	if got := r.Get("NOTE"); got != "plain" {
		t.Errorf("NOTE = %q, want %q", got, "plain")
	}
}

func TestParseSkipsBlankLines(t *testing.T) {
	text := "\n\n  \nA,B\n1,2\n\n   \n3,4\n\t\n5,6\n"
	records := parseRecords(text)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	for i, want := range []string{"1", "3", "5"} {
		if got := records[i].Get("A"); got != want {
			t.Errorf("record %d A = %q, want %q", i, got, want)
		}
	}
}

func TestParseHeaderIsFirstNonBlankLine(t *testing.T) {
	records := parseRecords("\n \n CODE , NAME \nS1,One\n")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	if got := records[0].Columns(); !reflect.DeepEqual(got, []string{"CODE", "NAME"}) {
		t.Errorf("columns = %v, want [CODE NAME]", got)
	}
	if got := records[0].Get("NAME"); got != "One" {
		t.Errorf("NAME = %q, want One", got)
	}
}

func TestParseShortRowsArePadded(t *testing.T) {
	records := parseRecords("A,B,C\nonly\n")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if got := r.Get("A"); got != "only" {
		t.Errorf("A = %q, want only", got)
	}
	for _, col := range []string{"B", "C"} {
		if !r.Has(col) {
			t.Errorf("column %s missing from record", col)
		}
		if got := r.Get(col); got != "" {
			t.Errorf("%s = %q, want empty", col, got)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", " \n\t\n  "},
		{"header only", "A,B,C\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRecords(tt.text); len(got) != 0 {
				t.Errorf("got %d records, want 0", len(got))
			}
		})
	}
}

func TestParseCRLFInput(t *testing.T) {
	records := parseRecords("A,B\r\n1,2\r\n")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := records[0].Get("B"); got != "2" {
		t.Errorf("B = %q, want 2", got)
	}
}

func TestCleanField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{`"quoted"`, "quoted"},
		{`  " spaced inside "  `, "spaced inside"},
		{`say "hi" now`, "say hi now"},
		{`""`, ""},
		{`"`, ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DefaultParser.CleanField(tt.in); got != tt.want {
				t.Errorf("CleanField(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"empty fields", "a,,c", []string{"a", "", "c"}},
		{"trailing delimiter", "a,b,", []string{"a", "b", ""}},
		{"quoted delimiter", `a,"b,c",d`, []string{"a", `"b,c"`, "d"}},
		{"escaped quotes keep delimiter outside", `"a ""x"" b",c`, []string{`"a ""x"" b"`, "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultParser.SplitLine(tt.line); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestParserCustomDelimiter(t *testing.T) {
	p := Parser{Delimiter: ';'}
	records := p.Parse("A;B\n'x';\"y;z\"\n")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := records[0].Get("B"); got != "y;z" {
		t.Errorf("B = %q, want %q", got, "y;z")
	}
	if got := records[0].Get("A"); got != "'x'" {
		t.Errorf("A = %q, want %q", got, "'x'")
	}
}

func TestRecordMapIsCopy(t *testing.T) {
	r := NewRecord([]string{"A"}, []string{"1"})
	m := r.Map()
	m["A"] = "changed"
	if got := r.Get("A"); got != "1" {
		t.Errorf("record mutated through Map: A = %q", got)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}
