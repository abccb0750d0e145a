package grader

import (
	"strings"

	"github.com/aneesh-123/Socrates/internal/demux"
	"github.com/aneesh-123/Socrates/internal/domain/execution"
)

// crashExitCodes are exit statuses of signal-terminated programs: SIGSEGV as
// 139 or raw 11, SIGABRT as 134, SIGFPE as 136.
var crashExitCodes = map[int]struct{}{
	139: {},
	11:  {},
	134: {},
	136: {},
}

var crashIndicators = []string{
	"segmentation fault",
	"segfault",
	"terminate called",
	"exception",
	"abort",
	"signal",
	"floating point exception",
	"double free",
	"corruption",
}

// classifyResult maps one full-suite result to an outcome category. The
// checks run in fixed priority order: compiler errors trump everything, then
// crash evidence, then the parsed suite summary.
func classifyResult(result *execution.Result) execution.Report {
	if strings.TrimSpace(result.Errors) != "" && demux.ContainsErrorSignature(result.Errors) {
		return execution.Report{
			Category:          execution.CategorySyntaxError,
			CompilationErrors: result.Errors,
			ExitCode:          result.ExitCode,
		}
	}

	summary := parseSuiteOutput(result.Output)

	if reason := runtimeFailure(result, summary); reason != "" {
		return execution.Report{
			Category:      execution.CategoryRuntimeError,
			RuntimeErrors: reason,
			Output:        result.Output,
			ExitCode:      result.ExitCode,
		}
	}

	if summary != nil {
		if summary.Passed == summary.Total && summary.Total > 0 {
			return execution.Report{
				Category: execution.CategoryNoIssues,
				Tests:    summary.toTestSummary(),
				Output:   result.Output,
				ExitCode: result.ExitCode,
			}
		}
		if len(summary.Failures) > 0 {
			return execution.Report{
				Category: execution.CategoryWrongAnswer,
				Tests:    summary.toTestSummary(),
				Output:   result.Output,
				ExitCode: result.ExitCode,
			}
		}
	}

	return execution.Report{
		Category: execution.CategoryNoIssues,
		Output:   result.Output,
		ExitCode: result.ExitCode,
	}
}

// runtimeFailure returns the evidence text when the run looks like a started
// program that crashed or threw, or "" when it does not.
func runtimeFailure(result *execution.Result, summary *suiteSummary) string {
	// Exit 124 is a killed-over-budget run, whether the wall clock tripped
	// externally or the in-container timeout did. Never a clean exit.
	if result.ExitCode == execution.TimeoutExitCode {
		if text := strings.TrimSpace(result.Errors); text != "" {
			return text
		}
		return "Execution timed out."
	}

	if _, ok := crashExitCodes[result.ExitCode]; ok {
		if text := strings.TrimSpace(result.Errors); text != "" {
			return text
		}
		return "The program crashed (terminated by signal)."
	}

	combined := strings.ToLower(result.Errors + "\n" + result.Output)
	if result.ExitCode != 0 {
		for _, indicator := range crashIndicators {
			if strings.Contains(combined, indicator) {
				if text := strings.TrimSpace(result.Errors); text != "" {
					return text
				}
				return strings.TrimSpace(result.Output)
			}
		}
	}

	// The harness catches per-case exceptions and reports them inline.
	if strings.Contains(result.Output, "Exception:") {
		return exceptionLines(result.Output)
	}

	// A nonzero exit with output that is not the harness's own means the
	// program died before it could report anything parseable.
	if result.ExitCode != 0 && summary == nil {
		out := strings.TrimSpace(result.Output)
		if out != "" && !looksLikeHarnessOutput(result.Output) {
			return out
		}
	}

	return ""
}

func exceptionLines(output string) string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "Exception:") {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return strings.Join(lines, "\n")
}

func looksLikeHarnessOutput(output string) bool {
	return strings.Contains(output, "Test Case") || strings.Contains(output, "Summary:")
}
