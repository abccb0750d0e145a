// Package demux repairs and splits raw captured container logs. The capture
// mixes stream-framing artifacts and non-printable bytes with program output
// and compiler text, so processing is byte-level and order-sensitive.
package demux

import (
	"regexp"
	"strconv"
	"strings"
)

// Demuxed is the cleaned, split view of one raw log capture.
type Demuxed struct {
	Output   string
	Errors   string
	ExitCode int
}

var (
	exitCodePattern    = regexp.MustCompile(`EXIT_CODE:(\d+)`)
	gluedDigitsPattern = regexp.MustCompile(`^\d+([A-Za-z_][A-Za-z0-9_./-]*\.cpp:)`)
	sourceLinePattern  = regexp.MustCompile(`^[A-Za-z0-9_./-]+\.cpp:`)
	caretLinePattern   = regexp.MustCompile(`^[\s\d|]*[\^~]+[\s\^~|]*$`)
)

// errorSignatures lists the compiler/linker markers that open an error
// section. Kept as data so the table can grow without touching the pipeline.
var errorSignatures = []string{
	"error:",
	"undefined reference",
	"collect2:",
	"ld returned",
	"cannot find",
	"no such file",
	"multiple definition",
}

// Process cleans raw log bytes, extracts the exit code sentinel and splits the
// remaining text into program output and compiler/linker error text. The
// fallback exit code is the container's reported status, used when the
// EXIT_CODE sentinel is missing.
func Process(raw []byte, fallbackExit int64) Demuxed {
	text := stripControlBytes(raw)
	text = toPrintable(text)
	text = repairGluedDigits(text)
	text, exitCode := extractExitCode(text, int(fallbackExit))

	output, errors := splitSections(text)

	// A nonzero exit with no recognizable signature still carries its cause
	// somewhere in the text; keep it as the error payload instead of
	// discarding it.
	if exitCode != 0 && strings.TrimSpace(errors) == "" && strings.TrimSpace(text) != "" {
		errors = strings.TrimSpace(text)
	}

	return Demuxed{Output: output, Errors: errors, ExitCode: exitCode}
}

// stripControlBytes removes ASCII control bytes except newline and tab. This
// also covers the stream-framing sentinel bytes at line starts (stream id and
// zero padding are all below 0x20); a printable length byte that survives is
// handled by repairGluedDigits.
func stripControlBytes(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		if c == '\n' || c == '\t' || c >= 0x20 {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// toPrintable coerces the text to printable ASCII plus newline and tab,
// dropping anything else (multi-byte sequences included).
func toPrintable(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' || c == '\t' || (c >= 0x20 && c <= 0x7e) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// repairGluedDigits fixes a known corruption where a stray digit from the log
// framing gets glued to the start of a "<name>.cpp:" line.
func repairGluedDigits(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = gluedDigitsPattern.ReplaceAllString(line, "$1")
	}
	return strings.Join(lines, "\n")
}

// extractExitCode locates the trailing EXIT_CODE sentinel and removes it from
// the text used for splitting. The last occurrence wins: a program printing
// the literal itself cannot mask the script's own sentinel.
func extractExitCode(text string, fallback int) (string, int) {
	matches := exitCodePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, fallback
	}
	last := matches[len(matches)-1]
	code, err := strconv.Atoi(text[last[2]:last[3]])
	if err != nil {
		return text, fallback
	}
	return text[:last[0]], code
}

// splitSections classifies each line as error-section or program output.
func splitSections(text string) (output, errors string) {
	var out, errs []string
	inSection := false
	prevWasSignature := false

	for _, line := range strings.Split(text, "\n") {
		switch {
		case isErrorLine(line):
			errs = append(errs, line)
			inSection = true
			prevWasSignature = true
		case inSection && continuesSection(line, prevWasSignature):
			errs = append(errs, line)
			prevWasSignature = false
		default:
			out = append(out, line)
			inSection = false
			prevWasSignature = false
		}
	}

	return trimBlock(out), trimBlock(errs)
}

// isErrorLine reports whether the line matches a compiler/linker signature.
// Warning diagnostics stay in program-adjacent territory: warnings alone never
// make a run a failure.
func isErrorLine(line string) bool {
	if strings.Contains(line, "warning:") {
		return false
	}
	lower := strings.ToLower(line)
	for _, sig := range errorSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return sourceLinePattern.MatchString(line)
}

// continuesSection reports whether the line extends an open error section:
// blank lines and caret-indicator lines always do, and any non-warning line
// immediately following a signature line does.
func continuesSection(line string, prevWasSignature bool) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	if caretLinePattern.MatchString(line) {
		return true
	}
	return prevWasSignature && !strings.Contains(line, "warning:")
}

// ContainsErrorSignature reports whether any line of the text matches a
// compiler/linker signature. Shared with the classifier.
func ContainsErrorSignature(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if isErrorLine(line) {
			return true
		}
	}
	return false
}

func trimBlock(lines []string) string {
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
