package execution

import "time"

// Spec holds the process-wide execution configuration. It is immutable once the
// engine has been constructed.
type Spec struct {
	// Image is the container image used for compiling and running submissions.
	Image string
	// CPUQuota caps the container CPU usage as a fraction of one core.
	CPUQuota float64
	// MemoryLimitBytes caps container memory. The swap ceiling is set to the
	// same value, so the container gets no extra swap.
	MemoryLimitBytes int64
	// CompileTimeout bounds the compile phase.
	CompileTimeout time.Duration
	// RunTimeout bounds the run phase.
	RunTimeout time.Duration
	// MaxSourceBytes caps the encoded size of a submission.
	MaxSourceBytes int
}

// DefaultSpec returns the limits applied when no configuration overrides them.
func DefaultSpec() Spec {
	return Spec{
		Image:            "gcc:13",
		CPUQuota:         0.5,
		MemoryLimitBytes: 256 * 1024 * 1024,
		CompileTimeout:   10 * time.Second,
		RunTimeout:       5 * time.Second,
		MaxSourceBytes:   10 * 1024,
	}
}

// TotalTimeout is the external wall-clock budget for one container lifecycle.
func (s Spec) TotalTimeout() time.Duration {
	return s.CompileTimeout + s.RunTimeout
}
