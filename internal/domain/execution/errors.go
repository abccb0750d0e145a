package execution

import "fmt"

// CodeTooLargeError reports a submission over the configured size limit. It is
// returned before any container work starts.
type CodeTooLargeError struct {
	Size  int
	Limit int
}

func (e *CodeTooLargeError) Error() string {
	return fmt.Sprintf("source code is %d bytes, which exceeds the %d byte limit", e.Size, e.Limit)
}

// DockerUnavailableError wraps a failure of the container runtime itself:
// daemon connectivity, image pulls, container creation. It is the only failure
// class that propagates to callers; everything user-caused becomes a Result.
type DockerUnavailableError struct {
	Op  string
	Err error
}

func (e *DockerUnavailableError) Error() string {
	return fmt.Sprintf("docker unavailable: %s: %v", e.Op, e.Err)
}

func (e *DockerUnavailableError) Unwrap() error {
	return e.Err
}
