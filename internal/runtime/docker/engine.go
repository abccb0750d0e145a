package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/rs/zerolog"

	"github.com/aneesh-123/Socrates/internal/domain/execution"
	"github.com/aneesh-123/Socrates/internal/metrics"
	"github.com/aneesh-123/Socrates/internal/ports"
)

// Engine runs one compile+execute cycle per request inside a throwaway
// container with enforced limits, a bounded wait and guaranteed teardown.
type Engine struct {
	cli    dockerClient
	spec   execution.Spec
	logger zerolog.Logger

	pullMu     sync.Mutex
	imageReady bool
}

var _ ports.Sandbox = (*Engine)(nil)

// New constructs an Engine backed by the local Docker daemon.
func New(spec execution.Spec, logger zerolog.Logger) (*Engine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, &execution.DockerUnavailableError{Op: "create client", Err: err}
	}
	return newEngineWithClient(cli, spec, logger), nil
}

func newEngineWithClient(cli dockerClient, spec execution.Spec, logger zerolog.Logger) *Engine {
	return &Engine{cli: cli, spec: spec, logger: logger}
}

// Close releases the underlying Docker client resources.
func (e *Engine) Close() error {
	return e.cli.Close()
}

// ensureImage checks image presence and pulls on miss. Only success is
// memoized: a failed or interrupted pull leaves the flag unset so the next
// request retries instead of inheriting a stale error.
func (e *Engine) ensureImage(ctx context.Context) error {
	e.pullMu.Lock()
	defer e.pullMu.Unlock()

	if e.imageReady {
		return nil
	}

	if _, _, err := e.cli.ImageInspectWithRaw(ctx, e.spec.Image); err == nil {
		e.imageReady = true
		return nil
	}

	e.logger.Info().Str("image", e.spec.Image).Msg("pulling image")
	reader, err := e.cli.ImagePull(ctx, e.spec.Image, image.PullOptions{})
	if err != nil {
		return &execution.DockerUnavailableError{Op: fmt.Sprintf("pull image %s", e.spec.Image), Err: err}
	}
	defer reader.Close()

	// The pull only completes once its progress stream is drained.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return &execution.DockerUnavailableError{Op: fmt.Sprintf("pull image %s", e.spec.Image), Err: err}
	}

	e.imageReady = true
	return nil
}

// Run executes the two-phase compile+run protocol over the given workspace
// directory and returns the raw combined logs. A timed-out run comes back as
// a RawRun with TimedOut set; only infrastructure failure returns an error.
func (e *Engine) Run(ctx context.Context, workspaceDir string) (*execution.RawRun, error) {
	if err := e.ensureImage(ctx); err != nil {
		return nil, err
	}

	runTimeoutSecs := int(e.spec.RunTimeout / time.Second)
	if runTimeoutSecs < 1 {
		runTimeoutSecs = 1
	}
	script, err := renderScript(scriptParams{
		CompileCommand: compileCommand(),
		RunTimeoutSecs: runTimeoutSecs,
		BinaryPath:     containerBinaryPath,
	})
	if err != nil {
		return nil, err
	}

	containerID, err := e.createContainer(ctx, workspaceDir, script)
	if err != nil {
		return nil, err
	}
	defer e.removeContainer(containerID)

	start := time.Now()
	if err := e.cli.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return nil, &execution.DockerUnavailableError{Op: "start container", Err: err}
	}

	waitCtx, cancel := context.WithTimeout(ctx, e.spec.TotalTimeout())
	defer cancel()

	status, err := e.waitForExit(waitCtx, containerID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return e.handleTimeout(containerID, start)
		}
		return nil, err
	}

	logs, err := e.fetchLogs(context.Background(), containerID)
	if err != nil {
		// Auto-remove can delete the container between wait and log fetch.
		// The exit status is already in hand, so the run still counts.
		if !client.IsErrNotFound(err) {
			return nil, &execution.DockerUnavailableError{Op: "fetch logs", Err: err}
		}
		logs = nil
	}

	duration := time.Since(start)
	metrics.ExecutionDuration.Observe(duration.Seconds())

	return &execution.RawRun{
		Logs:     logs,
		ExitCode: status.StatusCode,
		Duration: duration,
	}, nil
}

func (e *Engine) createContainer(ctx context.Context, workspaceDir, script string) (string, error) {
	hostConfig := &container.HostConfig{
		AutoRemove:  true,
		NetworkMode: "none",
		Mounts: []mount.Mount{
			{
				Type:     mount.TypeBind,
				Source:   workspaceDir,
				Target:   containerSrcDir,
				ReadOnly: true,
			},
		},
		Resources: container.Resources{
			NanoCPUs:   int64(e.spec.CPUQuota * 1e9),
			Memory:     e.spec.MemoryLimitBytes,
			MemorySwap: e.spec.MemoryLimitBytes,
		},
	}

	resp, err := e.cli.ContainerCreate(
		ctx,
		&container.Config{
			Image:           e.spec.Image,
			Cmd:             []string{"/bin/sh", "-c", script},
			WorkingDir:      containerSrcDir,
			NetworkDisabled: true,
		},
		hostConfig,
		nil,
		nil,
		"",
	)
	if err != nil {
		return "", &execution.DockerUnavailableError{Op: "create container", Err: err}
	}

	return resp.ID, nil
}

func (e *Engine) waitForExit(ctx context.Context, containerID string) (*container.WaitResponse, error) {
	statusCh, errCh := e.cli.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	select {
	case status := <-statusCh:
		if status.Error != nil {
			return nil, fmt.Errorf("container error: %s", status.Error.Message)
		}
		return &status, nil
	case err := <-errCh:
		return nil, fmt.Errorf("wait for container: %w", err)
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for container: %w", ctx.Err())
	}
}

// handleTimeout force-kills a container that exceeded the external wall-clock
// budget. Kill failures on an already-exited container are swallowed, and the
// log fetch is best-effort.
func (e *Engine) handleTimeout(containerID string, start time.Time) (*execution.RawRun, error) {
	metrics.ExecutionTimeouts.Inc()

	killCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.cli.ContainerKill(killCtx, containerID, "KILL"); err != nil && !client.IsErrNotFound(err) {
		e.logger.Debug().Err(err).Str("container", containerID).Msg("kill after timeout failed")
	}

	logs, err := e.fetchLogs(context.Background(), containerID)
	if err != nil {
		logs = nil
	}

	return &execution.RawRun{
		Logs:     logs,
		ExitCode: execution.TimeoutExitCode,
		TimedOut: true,
		Duration: time.Since(start),
	}, nil
}

// fetchLogs reads the combined log stream as raw bytes. Framing artifacts are
// left intact; repairing them is the demultiplexer's job.
func (e *Engine) fetchLogs(ctx context.Context, containerID string) ([]byte, error) {
	logs, err := e.cli.ContainerLogs(ctx, containerID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return nil, err
	}
	defer logs.Close()

	return io.ReadAll(logs)
}

// removeContainer is the unconditional teardown path. Auto-remove usually
// races it, so "no such container" and "removal already in progress" are not
// errors; anything else is logged and never propagated.
func (e *Engine) removeContainer(containerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := e.cli.ContainerInspect(ctx, containerID); err != nil && client.IsErrNotFound(err) {
		return
	}

	err := e.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
	if err == nil || client.IsErrNotFound(err) || strings.Contains(err.Error(), "already in progress") {
		return
	}

	metrics.CleanupFailures.Inc()
	e.logger.Warn().Err(err).Str("container", containerID).Msg("container removal failed")
}
