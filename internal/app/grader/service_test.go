package grader

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aneesh-123/Socrates/internal/domain/execution"
	"github.com/aneesh-123/Socrates/internal/workspace"
)

type stubSandbox struct {
	raw     *execution.RawRun
	err     error
	calls   int
	lastDir string
}

func (s *stubSandbox) Run(ctx context.Context, workspaceDir string) (*execution.RawRun, error) {
	s.calls++
	s.lastDir = workspaceDir
	if s.err != nil {
		return nil, s.err
	}
	return s.raw, nil
}

func (s *stubSandbox) Close() error { return nil }

func newTestService(t *testing.T, sandbox *stubSandbox, spec execution.Spec) *Service {
	t.Helper()
	manager, err := workspace.NewManager(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	return NewService(manager, sandbox, spec, zerolog.Nop())
}

const fragmentSource = `class Solution {
public:
    std::vector<int> twoSum(std::vector<int>& nums, int target) {
        return {0, 1};
    }
};`

func TestExecuteCleanRun(t *testing.T) {
	t.Parallel()

	sandbox := &stubSandbox{
		raw: &execution.RawRun{
			Logs:     []byte("Summary: 3/3 tests passed.\nEXIT_CODE:0\n"),
			Duration: 20 * time.Millisecond,
		},
	}
	svc := newTestService(t, sandbox, execution.DefaultSpec())

	result, err := svc.Execute(context.Background(), fragmentSource, nil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit 0, got %d", result.ExitCode)
	}
	if !strings.Contains(result.Output, "3/3 tests passed") {
		t.Fatalf("unexpected output %q", result.Output)
	}
	if result.Duration != 20*time.Millisecond {
		t.Fatalf("duration must be carried through, got %v", result.Duration)
	}
	if sandbox.calls != 1 {
		t.Fatalf("expected one sandbox run, got %d", sandbox.calls)
	}
}

func TestExecuteTimeoutBecomesResult(t *testing.T) {
	t.Parallel()

	sandbox := &stubSandbox{
		raw: &execution.RawRun{TimedOut: true, ExitCode: execution.TimeoutExitCode},
	}
	svc := newTestService(t, sandbox, execution.DefaultSpec())

	result, err := svc.Execute(context.Background(), fragmentSource, nil)
	if err != nil {
		t.Fatalf("a timeout is a user outcome, not an error: %v", err)
	}
	if result.ExitCode != execution.TimeoutExitCode {
		t.Fatalf("expected exit %d, got %d", execution.TimeoutExitCode, result.ExitCode)
	}
	if !strings.Contains(result.Errors, "timed out") {
		t.Fatalf("timeout explanation missing: %q", result.Errors)
	}
}

func TestExecuteParsesCompileErrors(t *testing.T) {
	t.Parallel()

	sandbox := &stubSandbox{
		raw: &execution.RawRun{
			Logs: []byte("main.cpp:5:10: error: expected ';' before '}'\nEXIT_CODE:1\n"),
		},
	}
	svc := newTestService(t, sandbox, execution.DefaultSpec())

	result, err := svc.Execute(context.Background(), fragmentSource, nil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(result.ParsedErrors) != 1 {
		t.Fatalf("expected one parsed error, got %+v", result.ParsedErrors)
	}
	if result.ParsedErrors[0].Kind != execution.KindSyntax {
		t.Fatalf("expected syntax kind, got %q", result.ParsedErrors[0].Kind)
	}
}

func TestExecuteRejectsOversizedSourceBeforeSandbox(t *testing.T) {
	t.Parallel()

	sandbox := &stubSandbox{raw: &execution.RawRun{}}
	spec := execution.DefaultSpec()
	spec.MaxSourceBytes = 16
	svc := newTestService(t, sandbox, spec)

	_, err := svc.Execute(context.Background(), fragmentSource, nil)
	var tooLarge *execution.CodeTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected CodeTooLargeError, got %v", err)
	}
	if sandbox.calls != 0 {
		t.Fatalf("oversized source must never reach the sandbox")
	}
}

func TestExecuteInvalidTestIndex(t *testing.T) {
	t.Parallel()

	sandbox := &stubSandbox{raw: &execution.RawRun{}}
	svc := newTestService(t, sandbox, execution.DefaultSpec())

	index := 99
	if _, err := svc.Execute(context.Background(), fragmentSource, &index); err == nil {
		t.Fatalf("expected error for out-of-range test index")
	}
	if sandbox.calls != 0 {
		t.Fatalf("invalid index must never reach the sandbox")
	}
}

func TestClassifyFullSuitePassing(t *testing.T) {
	t.Parallel()

	sandbox := &stubSandbox{
		raw: &execution.RawRun{
			Logs: []byte(strings.Join([]string{
				"Test Case 1 - nums=[2,7,11,15], target=9: PASSED",
				"Test Case 2 - nums=[3,2,4], target=6: PASSED",
				"Test Case 3 - nums=[3,3], target=6: PASSED",
				"Summary: 3/3 tests passed.",
				"EXIT_CODE:0",
				"",
			}, "\n")),
		},
	}
	svc := newTestService(t, sandbox, execution.DefaultSpec())

	report := svc.Classify(context.Background(), fragmentSource)
	if report.Category != execution.CategoryNoIssues {
		t.Fatalf("expected NO_ISSUES, got %s", report.Category)
	}
	if report.Tests == nil || report.Tests.Passed != 3 {
		t.Fatalf("test summary missing: %+v", report.Tests)
	}
}

func TestClassifyInfrastructureFailure(t *testing.T) {
	t.Parallel()

	sandbox := &stubSandbox{
		err: &execution.DockerUnavailableError{Op: "create container", Err: errors.New("daemon down")},
	}
	svc := newTestService(t, sandbox, execution.DefaultSpec())

	report := svc.Classify(context.Background(), fragmentSource)
	if report.Category != execution.CategorySyntaxError {
		t.Fatalf("classification must always resolve, got %s", report.Category)
	}
	if report.CompilationErrors == "" {
		t.Fatalf("failure cause must be surfaced: %+v", report)
	}
}

func TestClassifyTimeoutIsRuntimeError(t *testing.T) {
	t.Parallel()

	sandbox := &stubSandbox{
		raw: &execution.RawRun{TimedOut: true, ExitCode: execution.TimeoutExitCode},
	}
	svc := newTestService(t, sandbox, execution.DefaultSpec())

	report := svc.Classify(context.Background(), fragmentSource)
	if report.Category != execution.CategoryRuntimeError {
		t.Fatalf("expected RUNTIME_ERROR for a timed-out run, got %s", report.Category)
	}
	if !strings.Contains(report.RuntimeErrors, "timed out") {
		t.Fatalf("timeout explanation missing: %+v", report)
	}
}

func TestClassifyRuntimeCrash(t *testing.T) {
	t.Parallel()

	sandbox := &stubSandbox{
		raw: &execution.RawRun{
			Logs: []byte("Segmentation fault\nEXIT_CODE:139\n"),
		},
	}
	svc := newTestService(t, sandbox, execution.DefaultSpec())

	report := svc.Classify(context.Background(), fragmentSource)
	if report.Category != execution.CategoryRuntimeError {
		t.Fatalf("expected RUNTIME_ERROR, got %s", report.Category)
	}
	if report.RuntimeErrors == "" {
		t.Fatalf("crash evidence must be surfaced: %+v", report)
	}
}
