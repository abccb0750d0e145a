// Package errparse converts raw compiler/linker error text into structured
// records. Classification is substring heuristics over compiler text and is
// inherently best-effort; every path has an explicit "other" fallback.
package errparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aneesh-123/Socrates/internal/domain/execution"
)

var (
	diagnosticPattern = regexp.MustCompile(`^(?:\d+)?([A-Za-z0-9_./-]+\.cpp):(\d+)(?::(\d+))?:\s*(error|warning):\s*(.*)$`)
	caretPattern      = regexp.MustCompile(`^[\s\d|]*[\^~]+[\s\^~|]*$`)
)

var linkerMarkers = []string{"undefined reference", "collect2:", "ld returned"}

// Parse matches each line of compiler output against the GCC diagnostic shape
// and returns one record per diagnostic. Unmatched linker lines are recorded
// with File "linker" and Line 0.
func Parse(text string) []execution.ParsedError {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	var parsed []execution.ParsedError

	for i, line := range lines {
		if m := diagnosticPattern.FindStringSubmatch(line); m != nil {
			record := execution.ParsedError{
				File:    m[1],
				Line:    mustAtoi(m[2]),
				Kind:    Categorize(m[5]),
				Message: m[5],
				Raw:     line,
			}
			if m[3] != "" {
				record.Column = mustAtoi(m[3])
			}
			// GCC prints the offending source line and a caret indicator
			// right after the diagnostic; attach it when present.
			for j := i + 1; j <= i+2 && j < len(lines); j++ {
				if caretPattern.MatchString(lines[j]) {
					record.CodeSnippet = strings.TrimRight(lines[j], " ")
					break
				}
			}
			parsed = append(parsed, record)
			continue
		}

		if isLinkerLine(line) {
			parsed = append(parsed, execution.ParsedError{
				File:    "linker",
				Line:    0,
				Kind:    execution.KindLinker,
				Message: strings.TrimSpace(line),
				Raw:     line,
			})
		}
	}

	return parsed
}

func isLinkerLine(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range linkerMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
