package docker_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/docker/dockertest"
)

func TestDockerError_FormatUserError(t *testing.T) {
	err := docker.ErrDockerNotRunning(errors.New("dial unix /var/run/docker.sock: connect: no such file or directory"))

	out := err.FormatUserError()
	assert.Contains(t, out, "Error: Cannot connect to Docker daemon\n")
	assert.Contains(t, out, "  Details: dial unix /var/run/docker.sock")
	assert.Contains(t, out, "\nNext Steps:\n  1. Ensure Docker is installed\n")
}

func TestIsCommunicationFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "not running", err: docker.ErrDockerNotRunning(errors.New("refused")), want: true},
		{name: "deadline", err: fmt.Errorf("listing containers: %w", context.DeadlineExceeded), want: true},
		{name: "unavailable", err: fmt.Errorf("daemon: %w", cerrdefs.ErrUnavailable), want: true},
		{name: "in use", err: docker.ErrImageInUse("nginx", nil), want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, docker.IsCommunicationFailure(tt.err))
		})
	}
}

func TestPing(t *testing.T) {
	fake := dockertest.NewFakeClient()
	var deadline time.Time
	fake.FakeAPI.PingFn = func(ctx context.Context) (types.Ping, error) {
		deadline, _ = ctx.Deadline()
		return types.Ping{}, nil
	}

	require.NoError(t, fake.Client.Ping(context.Background(), 0))
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)

	fake.FakeAPI.PingFn = func(ctx context.Context) (types.Ping, error) {
		return types.Ping{}, errors.New("connection refused")
	}
	err := fake.Client.Ping(context.Background(), time.Second)
	require.Error(t, err)
	assert.True(t, docker.IsCommunicationFailure(err))
	assert.EqualError(t, err, "Cannot connect to Docker daemon")
}

func TestClose(t *testing.T) {
	fake := dockertest.NewFakeClient()
	require.NoError(t, fake.Client.Close())
	assert.True(t, fake.FakeAPI.Closed)
}

func TestNewClientFromAPI_BackupImage(t *testing.T) {
	api := &dockertest.FakeAPIClient{}
	c := docker.NewClientFromAPI(api, docker.Options{BackupImage: "busybox"})
	assert.Same(t, api, c.API())
}
