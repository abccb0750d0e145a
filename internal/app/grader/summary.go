package grader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aneesh-123/Socrates/internal/domain/execution"
)

var (
	summaryPattern  = regexp.MustCompile(`Summary:\s*(\d+)/(\d+)\s+tests passed\.`)
	testCasePattern = regexp.MustCompile(`^Test Case (\d+) - (.*): (PASSED|FAILED)\s*$`)
	detailPattern   = regexp.MustCompile(`^\s+(Input|Expected|Got|Exception):\s*(.*)$`)
)

// suiteSummary is the parsed view of the harness's full-suite output.
type suiteSummary struct {
	Passed     int
	Total      int
	HasSummary bool
	Failures   []execution.TestFailure
}

func (s *suiteSummary) toTestSummary() *execution.TestSummary {
	failures := s.Failures
	if failures == nil {
		failures = []execution.TestFailure{}
	}
	return &execution.TestSummary{Passed: s.Passed, Total: s.Total, Failures: failures}
}

// parseSuiteOutput extracts the trailing summary line and the per-case
// verdict lines, collecting input/expected/actual/exception details for each
// failed case from the indented lines that follow it. It returns nil when the
// output contains nothing recognizable from the harness.
func parseSuiteOutput(output string) *suiteSummary {
	lines := strings.Split(output, "\n")
	summary := &suiteSummary{}
	sawCases := false

	for i := 0; i < len(lines); i++ {
		if m := summaryPattern.FindStringSubmatch(lines[i]); m != nil {
			summary.Passed = mustAtoi(m[1])
			summary.Total = mustAtoi(m[2])
			summary.HasSummary = true
			continue
		}

		m := testCasePattern.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		sawCases = true
		if m[3] != "FAILED" {
			continue
		}

		failure := execution.TestFailure{
			Number: mustAtoi(m[1]),
			Label:  m[2],
		}
		for j := i + 1; j < len(lines); j++ {
			d := detailPattern.FindStringSubmatch(lines[j])
			if d == nil {
				break
			}
			switch d[1] {
			case "Input":
				failure.Input = d[2]
			case "Expected":
				failure.Expected = d[2]
			case "Got":
				failure.Actual = d[2]
			case "Exception":
				failure.Exception = d[2]
			}
			i = j
		}
		summary.Failures = append(summary.Failures, failure)
	}

	if !summary.HasSummary && !sawCases {
		return nil
	}

	// No summary line but failures were seen: the run died mid-suite. The
	// highest failed case number bounds how many cases ran.
	if !summary.HasSummary {
		maxNumber := 0
		for _, f := range summary.Failures {
			if f.Number > maxNumber {
				maxNumber = f.Number
			}
		}
		summary.Total = maxNumber
		summary.Passed = summary.Total - len(summary.Failures)
		if summary.Passed < 0 {
			summary.Passed = 0
		}
	}

	return summary
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
