package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	specs "github.com/opencontainers/image-spec/specs-go/v1"
)

type fakeDockerClient struct {
	mu          sync.Mutex
	nextID      int
	imagePulls  []string
	pullErr     error
	knownImages map[string]bool
	createCalls []containerCreateCall
	createErr   error
	waitCalls   map[string][]waitCall
	logs        map[string][]byte
	logsErr     map[string]error
	killCalls   []string
	killErr     error
	removeCalls []string
	removeErr   error
	inspectErr  map[string]error
	createHooks []func(string)
	closed      bool
}

type containerCreateCall struct {
	id         string
	config     *container.Config
	hostConfig *container.HostConfig
}

type waitCall struct {
	status *container.WaitResponse
	err    error
	block  bool
}

func newFakeDockerClient() *fakeDockerClient {
	return &fakeDockerClient{
		knownImages: make(map[string]bool),
		waitCalls:   make(map[string][]waitCall),
		logs:        make(map[string][]byte),
		logsErr:     make(map[string]error),
		inspectErr:  make(map[string]error),
	}
}

func (f *fakeDockerClient) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeDockerClient) ImageInspectWithRaw(ctx context.Context, imageID string) (types.ImageInspect, []byte, error) {
	f.mu.Lock()
	known := f.knownImages[imageID]
	f.mu.Unlock()
	if !known {
		return types.ImageInspect{}, nil, fmt.Errorf("no such image: %s", imageID)
	}
	return types.ImageInspect{ID: imageID}, nil, nil
}

func (f *fakeDockerClient) ImagePull(ctx context.Context, ref string, opts image.PullOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	if f.pullErr != nil {
		err := f.pullErr
		f.mu.Unlock()
		return nil, err
	}
	f.imagePulls = append(f.imagePulls, ref)
	f.knownImages[ref] = true
	f.mu.Unlock()
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (f *fakeDockerClient) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *specs.Platform, containerName string) (container.CreateResponse, error) {
	f.mu.Lock()
	if f.createErr != nil {
		err := f.createErr
		f.mu.Unlock()
		return container.CreateResponse{}, err
	}
	id := fmt.Sprintf("container-%d", f.nextID)
	f.nextID++
	f.createCalls = append(f.createCalls, containerCreateCall{id: id, config: config, hostConfig: hostConfig})
	hook := popHook(&f.createHooks)
	f.mu.Unlock()

	if hook != nil {
		hook(id)
	}

	return container.CreateResponse{ID: id}, nil
}

func (f *fakeDockerClient) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	return nil
}

func (f *fakeDockerClient) ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	statusCh := make(chan container.WaitResponse, 1)
	errCh := make(chan error, 1)

	f.mu.Lock()
	calls := f.waitCalls[containerID]
	if len(calls) > 0 {
		call := calls[0]
		f.waitCalls[containerID] = calls[1:]
		f.mu.Unlock()

		if call.block {
			return statusCh, errCh
		}
		if call.status != nil {
			statusCh <- *call.status
		}
		if call.err != nil {
			errCh <- call.err
		}
		return statusCh, errCh
	}
	f.mu.Unlock()

	return statusCh, errCh
}

func (f *fakeDockerClient) ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	data := f.logs[containerID]
	err := f.logsErr[containerID]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeDockerClient) ContainerKill(ctx context.Context, containerID, signal string) error {
	f.mu.Lock()
	f.killCalls = append(f.killCalls, containerID)
	err := f.killErr
	f.mu.Unlock()
	return err
}

func (f *fakeDockerClient) ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error) {
	f.mu.Lock()
	err := f.inspectErr[containerID]
	f.mu.Unlock()
	if err != nil {
		return types.ContainerJSON{}, err
	}
	return types.ContainerJSON{}, nil
}

func (f *fakeDockerClient) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	f.mu.Lock()
	f.removeCalls = append(f.removeCalls, containerID)
	err := f.removeErr
	f.mu.Unlock()
	return err
}

func (f *fakeDockerClient) setWaitSequence(containerID string, calls ...waitCall) {
	f.mu.Lock()
	f.waitCalls[containerID] = append([]waitCall{}, calls...)
	f.mu.Unlock()
}

func (f *fakeDockerClient) setLogs(containerID string, data []byte) {
	f.mu.Lock()
	f.logs[containerID] = data
	f.mu.Unlock()
}

func (f *fakeDockerClient) setImageKnown(ref string) {
	f.mu.Lock()
	f.knownImages[ref] = true
	f.mu.Unlock()
}

func (f *fakeDockerClient) setPullError(err error) {
	f.mu.Lock()
	f.pullErr = err
	f.mu.Unlock()
}

func (f *fakeDockerClient) setLogsError(containerID string, err error) {
	f.mu.Lock()
	f.logsErr[containerID] = err
	f.mu.Unlock()
}

func (f *fakeDockerClient) onCreate(hook func(string)) {
	f.mu.Lock()
	f.createHooks = append(f.createHooks, hook)
	f.mu.Unlock()
}

// notFoundError mimics the daemon's "no such container" responses the way the
// docker client recognizes them.
type notFoundError string

func (e notFoundError) Error() string { return string(e) }

func (notFoundError) NotFound() {}

func popHook(hooks *[]func(string)) func(string) {
	if len(*hooks) == 0 {
		return nil
	}
	hook := (*hooks)[0]
	*hooks = (*hooks)[1:]
	return hook
}
