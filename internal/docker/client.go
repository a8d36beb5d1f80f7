// Package docker adapts the Docker Engine API to dockmcp: resource
// directories for the resolver plus the per-kind operations behind the tools.
package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/client"

	"github.com/schmitthub/dockmcp/internal/logger"
	"github.com/schmitthub/dockmcp/internal/resource"
)

// Options configures NewClient.
type Options struct {
	// Host overrides DOCKER_HOST when non-empty.
	Host string
	// ProbeTimeout bounds the initial ping (default 5s).
	ProbeTimeout time.Duration
	// BackupImage runs volume backups (default alpine).
	BackupImage string
}

// Client is a scoped handle on the Docker daemon. Open one per request and
// Close it when the request is done.
type Client struct {
	api         APIClient
	backupImage string
}

// NewClient connects to the daemon and verifies it answers a ping.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	clientOpts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if opts.Host != "" {
		clientOpts = append(clientOpts, client.WithHost(opts.Host))
	}
	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, ErrDockerNotRunning(err)
	}

	c := NewClientFromAPI(cli, opts)
	if err := c.Ping(ctx, opts.ProbeTimeout); err != nil {
		_ = cli.Close()
		return nil, err
	}
	logger.Debug().Str("host", cli.DaemonHost()).Msg("docker daemon connected")
	return c, nil
}

// NewClientFromAPI wraps an existing API client without pinging it.
func NewClientFromAPI(api APIClient, opts Options) *Client {
	img := opts.BackupImage
	if img == "" {
		img = "alpine"
	}
	return &Client{api: api, backupImage: img}
}

// Ping verifies the daemon answers within timeout (5s when zero).
func (c *Client) Ping(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := c.api.Ping(ctx); err != nil {
		return ErrDockerNotRunning(err)
	}
	return nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.api.Close()
}

// API exposes the underlying API client.
func (c *Client) API() APIClient {
	return c.api
}

// Directory returns the resource directory for kind. *Client satisfies
// resolver.Source through it.
func (c *Client) Directory(kind resource.Kind) (resource.Directory, error) {
	switch kind {
	case resource.KindContainer:
		return &containerDirectory{api: c.api}, nil
	case resource.KindImage:
		return &imageDirectory{api: c.api}, nil
	case resource.KindNetwork:
		return &networkDirectory{api: c.api}, nil
	case resource.KindVolume:
		return &volumeDirectory{api: c.api}, nil
	}
	return nil, fmt.Errorf("unsupported resource kind %q", kind)
}
