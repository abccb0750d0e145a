package errparse

import (
	"strings"
	"testing"

	"github.com/aneesh-123/Socrates/internal/domain/execution"
)

func TestParseSingleDiagnostic(t *testing.T) {
	t.Parallel()

	parsed := Parse("main.cpp:5:10: error: expected ';' before '}'")
	if len(parsed) != 1 {
		t.Fatalf("expected one record, got %d", len(parsed))
	}

	got := parsed[0]
	if got.File != "main.cpp" || got.Line != 5 || got.Column != 10 {
		t.Fatalf("wrong location: %+v", got)
	}
	if got.Kind != execution.KindSyntax {
		t.Fatalf("expected syntax kind, got %q", got.Kind)
	}
	if got.Message != "expected ';' before '}'" {
		t.Fatalf("wrong message %q", got.Message)
	}
	if got.Raw != "main.cpp:5:10: error: expected ';' before '}'" {
		t.Fatalf("raw line must be preserved verbatim, got %q", got.Raw)
	}
}

func TestParseAttachesCaretSnippet(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"main.cpp:4:14: error: expected ';' before 'return'",
		"    4 |     int x = 3",
		"      |              ^",
	}, "\n")

	parsed := Parse(text)
	if len(parsed) != 1 {
		t.Fatalf("expected one record, got %d", len(parsed))
	}
	if !strings.Contains(parsed[0].CodeSnippet, "^") {
		t.Fatalf("expected caret snippet attached, got %q", parsed[0].CodeSnippet)
	}
}

func TestParseToleratesGluedDigitPrefix(t *testing.T) {
	t.Parallel()

	parsed := Parse("4main.cpp:7:1: error: expected declaration before '}' token")
	if len(parsed) != 1 {
		t.Fatalf("expected one record, got %d", len(parsed))
	}
	if parsed[0].File != "main.cpp" || parsed[0].Line != 7 {
		t.Fatalf("glued digit corrupted the location: %+v", parsed[0])
	}
}

func TestParseLinkerLines(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"main.cpp:(.text+0x5): undefined reference to `helper()'",
		"collect2: error: ld returned 1 exit status",
	}, "\n")

	parsed := Parse(text)
	if len(parsed) != 2 {
		t.Fatalf("expected two records, got %d", len(parsed))
	}
	for _, record := range parsed {
		if record.File != "linker" || record.Line != 0 {
			t.Fatalf("linker records carry no source location: %+v", record)
		}
		if record.Kind != execution.KindLinker {
			t.Fatalf("expected linker kind, got %q", record.Kind)
		}
	}
}

func TestParseEmptyText(t *testing.T) {
	t.Parallel()

	if parsed := Parse("   \n  "); parsed != nil {
		t.Fatalf("expected nil for blank text, got %+v", parsed)
	}
}

func TestCategorize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		message string
		want    execution.ErrorKind
	}{
		{"expected ';' before '}'", execution.KindSyntax},
		{"missing terminating \" character", execution.KindSyntax},
		{"'foo' was not declared in this scope", execution.KindUndefined},
		{"'string' does not name a type", execution.KindType},
		{"invalid conversion from 'int' to 'char*'", execution.KindType},
		{"no match for 'operator<<'", execution.KindType},
		{"ld returned 1 exit status", execution.KindLinker},
		{"internal compiler error", execution.KindOther},
	}

	for _, tc := range cases {
		if got := Categorize(tc.message); got != tc.want {
			t.Fatalf("Categorize(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}
