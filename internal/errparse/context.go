package errparse

import (
	"fmt"
	"strings"
)

// CodeContext returns a radius-line window of code centered on the 1-indexed
// target line, with the target line marked.
func CodeContext(code string, line, radius int) string {
	lines := strings.Split(code, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	start := line - 1 - radius
	if start < 0 {
		start = 0
	}
	end := line + radius
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		marker := "    "
		if i == line-1 {
			marker = ">>> "
		}
		fmt.Fprintf(&b, "%s%4d | %s\n", marker, i+1, lines[i])
	}
	return b.String()
}
