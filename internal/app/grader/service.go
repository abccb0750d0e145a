// Package grader composes harness generation, sandboxed execution, output
// demultiplexing and error parsing into a classified verdict for one C++
// submission.
package grader

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aneesh-123/Socrates/internal/demux"
	"github.com/aneesh-123/Socrates/internal/domain/execution"
	"github.com/aneesh-123/Socrates/internal/errparse"
	"github.com/aneesh-123/Socrates/internal/harness"
	"github.com/aneesh-123/Socrates/internal/metrics"
	"github.com/aneesh-123/Socrates/internal/ports"
	"github.com/aneesh-123/Socrates/internal/workspace"
)

// Service coordinates one submission through prepare, run and classify.
type Service struct {
	workspaces *workspace.Manager
	sandbox    ports.Sandbox
	spec       execution.Spec
	logger     zerolog.Logger
}

// NewService constructs a Service with the provided dependencies.
func NewService(workspaces *workspace.Manager, sandbox ports.Sandbox, spec execution.Spec, logger zerolog.Logger) *Service {
	return &Service{
		workspaces: workspaces,
		sandbox:    sandbox,
		spec:       spec,
		logger:     logger,
	}
}

// Prepare validates the submission size, generates the harness (or keeps a
// self-contained program verbatim) and writes every file into the workspace.
func (s *Service) Prepare(ws *workspace.Workspace, source string, testIndex *int) (execution.PreparedCode, error) {
	if err := workspace.ValidateSize(source, s.spec.MaxSourceBytes); err != nil {
		return execution.PreparedCode{}, err
	}

	code, err := harness.Generate(source, testIndex)
	if err != nil {
		return execution.PreparedCode{}, err
	}

	for name, content := range code.Files {
		if err := ws.Write(name, content); err != nil {
			return execution.PreparedCode{}, err
		}
	}

	return code, nil
}

// Run executes the prepared workspace and turns the raw capture into a
// structured Result. User-caused failures (compile errors, crashes, timeouts)
// come back as normal results; only infrastructure failure returns an error.
func (s *Service) Run(ctx context.Context, ws *workspace.Workspace) (*execution.Result, error) {
	raw, err := s.sandbox.Run(ctx, ws.Dir())
	if err != nil {
		return nil, err
	}

	if raw.TimedOut {
		return &execution.Result{
			Errors:   fmt.Sprintf("Execution timed out after %s. The program may contain an infinite loop.", s.spec.TotalTimeout()),
			ExitCode: execution.TimeoutExitCode,
			Duration: raw.Duration,
		}, nil
	}

	d := demux.Process(raw.Logs, raw.ExitCode)

	result := &execution.Result{
		Output:   d.Output,
		Errors:   d.Errors,
		ExitCode: d.ExitCode,
		Duration: raw.Duration,
	}
	if result.Errors != "" {
		result.ParsedErrors = errparse.Parse(result.Errors)
	}

	return result, nil
}

// Execute runs one submission end to end over a fresh workspace, which is
// destroyed before returning regardless of outcome.
func (s *Service) Execute(ctx context.Context, source string, testIndex *int) (*execution.Result, error) {
	ws, err := s.workspaces.Create()
	if err != nil {
		return nil, err
	}
	defer ws.Destroy()

	if _, err := s.Prepare(ws, source, testIndex); err != nil {
		return nil, err
	}

	return s.Run(ctx, ws)
}

// Classify drives a full-suite run and maps it to one of four outcome
// categories. It always resolves: any internal failure is conservatively
// reported as SYNTAX_ERROR, since the caller cannot otherwise distinguish
// infrastructure failure from "nothing compiled".
func (s *Service) Classify(ctx context.Context, source string) execution.Report {
	report := s.classify(ctx, source)
	metrics.ClassificationsTotal.WithLabelValues(string(report.Category)).Inc()
	return report
}

func (s *Service) classify(ctx context.Context, source string) execution.Report {
	result, err := s.Execute(ctx, source, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("execution failed before classification")
		return execution.Report{
			Category:          execution.CategorySyntaxError,
			CompilationErrors: err.Error(),
		}
	}

	return classifyResult(result)
}

// Close releases resources owned by the underlying sandbox.
func (s *Service) Close() error {
	return s.sandbox.Close()
}
