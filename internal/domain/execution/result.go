package execution

import "time"

// TimeoutExitCode is reported when a submission exceeds its wall-clock budget.
const TimeoutExitCode = 124

// RawRun is the unprocessed outcome of one container lifecycle: the combined
// log bytes exactly as captured, before any demultiplexing or repair.
type RawRun struct {
	Logs     []byte
	ExitCode int64
	TimedOut bool
	Duration time.Duration
}

// Result captures the structured outcome of one compile+run cycle. It is
// produced once and never carries user-caused failures as errors.
type Result struct {
	Output       string        `json:"output"`
	Errors       string        `json:"errors"`
	ParsedErrors []ParsedError `json:"parsedErrors"`
	ExitCode     int           `json:"exitCode"`
	Duration     time.Duration `json:"executionTime"`
}
