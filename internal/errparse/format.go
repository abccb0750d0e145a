package errparse

import (
	"fmt"
	"regexp"
	"strings"
)

const tabStop = 4

var (
	gutterPattern     = regexp.MustCompile(`(?m)^\s*\d+\s*\|`)
	gluedDigitsRepair = regexp.MustCompile(`(?m)^\d+([A-Za-z_][A-Za-z0-9_./-]*\.cpp:)`)
	functionDefShape  = regexp.MustCompile(`^\s*([A-Za-z_][\w:<>,*&\s]*?)\s+([A-Za-z_]\w*)\s*\(([^;{}]*)\)\s*(\{)?\s*$`)
)

// FormatErrorGCCStyle reconstructs a GCC-style diagnostic block from a bare
// diagnostic line: the function-context line, the offending source line with a
// line-number gutter and a caret under the offending column. When the input
// already looks GCC-formatted it is passed through after artifact cleanup.
// sources maps file names to the exact source that was compiled.
func FormatErrorGCCStyle(text string, sources map[string]string) string {
	cleaned := cleanupArtifacts(text)

	if gutterPattern.MatchString(cleaned) {
		return cleaned
	}

	line := firstDiagnosticLine(cleaned)
	m := diagnosticPattern.FindStringSubmatch(line)
	if m == nil {
		return cleaned
	}

	file := m[1]
	lineNo := mustAtoi(m[2])
	column := mustAtoi(m[3])
	message := m[5]

	source, ok := sources[file]
	if !ok {
		return cleaned
	}
	sourceLines := strings.Split(source, "\n")
	if lineNo < 1 || lineNo > len(sourceLines) {
		return cleaned
	}
	offending := sourceLines[lineNo-1]

	var b strings.Builder
	if fn := enclosingFunction(sourceLines, lineNo); fn != "" {
		fmt.Fprintf(&b, "%s: In function '%s':\n", file, fn)
	}
	fmt.Fprintf(&b, "%s\n", strings.TrimRight(line, " "))

	expanded := expandTabs(offending)
	gutter := fmt.Sprintf("%5d | ", lineNo)
	pad := strings.Repeat(" ", len(gutter)-2)
	fmt.Fprintf(&b, "%s%s\n", gutter, expanded)

	caretCol := caretColumn(offending, column)
	fmt.Fprintf(&b, "%s| %s^\n", pad, strings.Repeat(" ", caretCol))

	// For a missing semicolon, suggest where it should be inserted.
	if strings.Contains(message, "expected ';'") {
		fmt.Fprintf(&b, "%s| %s;\n", pad, strings.Repeat(" ", caretCol))
	}

	return strings.TrimRight(b.String(), "\n")
}

// cleanupArtifacts strips capture artifacts from already-formatted text: stray
// digits glued to file-prefixed lines and non-printable leftovers.
func cleanupArtifacts(text string) string {
	text = gluedDigitsRepair.ReplaceAllString(text, "$1")
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' || c == '\t' || (c >= 0x20 && c <= 0x7e) {
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}

func firstDiagnosticLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if diagnosticPattern.MatchString(line) {
			return line
		}
	}
	return ""
}

// enclosingFunction scans backwards from the offending line for the nearest
// function definition and renders it the way GCC names it.
func enclosingFunction(sourceLines []string, lineNo int) string {
	for i := lineNo - 1; i >= 0 && i < len(sourceLines); i-- {
		m := functionDefShape.FindStringSubmatch(sourceLines[i])
		if m == nil {
			continue
		}
		returnType := strings.TrimSpace(m[1])
		name := m[2]
		switch returnType {
		case "return", "else", "delete", "new", "throw":
			continue
		}
		return fmt.Sprintf("%s %s()", returnType, name)
	}
	return ""
}

// caretColumn converts a 1-indexed diagnostic column into a display offset,
// expanding tabs to 4-space stops.
func caretColumn(line string, column int) int {
	if column < 1 {
		return 0
	}
	offset := 0
	for i := 0; i < column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			offset += tabStop - offset%tabStop
		} else {
			offset++
		}
	}
	if column-1 > len(line) {
		offset += column - 1 - len(line)
	}
	return offset
}

// expandTabs rewrites tabs as spaces aligned to 4-column stops so the caret
// lines up with the rendered source line.
func expandTabs(line string) string {
	var b strings.Builder
	col := 0
	for i := 0; i < len(line); i++ {
		if line[i] == '\t' {
			n := tabStop - col%tabStop
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteByte(line[i])
		col++
	}
	return b.String()
}
