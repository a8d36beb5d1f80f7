package docker

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-units"
	"github.com/google/uuid"

	"github.com/schmitthub/dockmcp/internal/logger"
)

// DefaultVolumeDriver is used when volume_create names no driver.
const DefaultVolumeDriver = "local"

// VolumeSummary is one row of volume_list.
type VolumeSummary struct {
	Name       string            `json:"name"`
	Driver     string            `json:"driver"`
	Mountpoint string            `json:"mountpoint"`
	Scope      string            `json:"scope"`
	Created    string            `json:"created"`
	Labels     map[string]string `json:"labels"`
}

// VolumeInfo is the volume_info record.
type VolumeInfo struct {
	VolumeSummary
	Options map[string]string `json:"options"`
	Status  map[string]any    `json:"status"`
}

// VolumeCreateOptions configures CreateVolume.
type VolumeCreateOptions struct {
	Name       string
	Driver     string
	DriverOpts map[string]string
	Labels     map[string]string
}

// VolumeAction reports the outcome of create and remove.
type VolumeAction struct {
	Name       string `json:"name"`
	Driver     string `json:"driver,omitempty"`
	Mountpoint string `json:"mountpoint,omitempty"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// VolumePrune is the volume_prune record.
type VolumePrune struct {
	VolumesDeleted      []string `json:"volumes_deleted"`
	SpaceReclaimedBytes uint64   `json:"space_reclaimed_bytes"`
	SpaceReclaimedMB    float64  `json:"space_reclaimed_mb"`
	SpaceReclaimedHuman string   `json:"space_reclaimed_human"`
	Status              string   `json:"status"`
	Message             string   `json:"message"`
}

// VolumeMount is one mount of a container, as listed by volume_by_container.
type VolumeMount struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
	ReadWrite   bool   `json:"read_write"`
}

// VolumeUsage is the volume_usage record.
type VolumeUsage struct {
	VolumeName      string           `json:"volume_name"`
	Mountpoint      string           `json:"mountpoint"`
	ContainersCount int              `json:"containers_count"`
	Containers      []VolumeConsumer `json:"containers"`
	InUse           bool             `json:"in_use"`
}

// VolumeConsumer is a container mounting a volume.
type VolumeConsumer struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Status           string `json:"status"`
	MountDestination string `json:"mount_destination"`
	ReadWrite        bool   `json:"read_write"`
}

// VolumeBackup is the volume_backup record.
type VolumeBackup struct {
	VolumeName string `json:"volume_name"`
	BackupPath string `json:"backup_path"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

func volumeSummary(v *volume.Volume) VolumeSummary {
	labels := v.Labels
	if labels == nil {
		labels = map[string]string{}
	}
	return VolumeSummary{
		Name:       v.Name,
		Driver:     valueOr(v.Driver, "unknown"),
		Mountpoint: v.Mountpoint,
		Scope:      valueOr(v.Scope, "local"),
		Created:    v.CreatedAt,
		Labels:     labels,
	}
}

// ListVolumes returns every volume.
func (c *Client) ListVolumes(ctx context.Context) ([]VolumeSummary, error) {
	resp, err := c.api.VolumeList(ctx, volume.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing volumes: %w", err)
	}
	out := make([]VolumeSummary, 0, len(resp.Volumes))
	for _, v := range resp.Volumes {
		if v == nil {
			continue
		}
		out = append(out, volumeSummary(v))
	}
	return out, nil
}

// VolumeInfo inspects the named volume.
func (c *Client) VolumeInfo(ctx context.Context, name string) (*VolumeInfo, error) {
	v, err := c.api.VolumeInspect(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("inspecting volume %s: %w", name, err)
	}
	rec := &VolumeInfo{
		VolumeSummary: volumeSummary(&v),
		Options:       v.Options,
		Status:        v.Status,
	}
	if rec.Options == nil {
		rec.Options = map[string]string{}
	}
	if rec.Status == nil {
		rec.Status = map[string]any{}
	}
	return rec, nil
}

// CreateVolume creates a volume.
func (c *Client) CreateVolume(ctx context.Context, opts VolumeCreateOptions) (*VolumeAction, error) {
	driver := valueOr(opts.Driver, DefaultVolumeDriver)
	v, err := c.api.VolumeCreate(ctx, volume.CreateOptions{
		Name:       opts.Name,
		Driver:     driver,
		DriverOpts: opts.DriverOpts,
		Labels:     opts.Labels,
	})
	if err != nil {
		if cerrdefs.IsConflict(err) || containsFold(err, "already exists") {
			return nil, invalidArgument(err, "Volume '%s' already exists", opts.Name)
		}
		return nil, fmt.Errorf("creating volume %s: %w", opts.Name, err)
	}
	return &VolumeAction{
		Name:       v.Name,
		Driver:     driver,
		Mountpoint: v.Mountpoint,
		Status:     "created",
		Message:    fmt.Sprintf("Successfully created volume '%s'", v.Name),
	}, nil
}

// RemoveVolume removes the named volume.
func (c *Client) RemoveVolume(ctx context.Context, name string, force bool) (*VolumeAction, error) {
	if err := c.api.VolumeRemove(ctx, name, force); err != nil {
		if cerrdefs.IsConflict(err) || containsFold(err, "volume is in use") {
			return nil, ErrVolumeInUse(name, err)
		}
		return nil, fmt.Errorf("removing volume %s: %w", name, err)
	}
	return &VolumeAction{
		Name:    name,
		Status:  "removed",
		Message: fmt.Sprintf("Successfully removed volume '%s'", name),
	}, nil
}

// PruneVolumes removes unused volumes.
func (c *Client) PruneVolumes(ctx context.Context) (*VolumePrune, error) {
	report, err := c.api.VolumesPrune(ctx, filters.NewArgs())
	if err != nil {
		return nil, fmt.Errorf("pruning volumes: %w", err)
	}
	deleted := report.VolumesDeleted
	if deleted == nil {
		deleted = []string{}
	}
	mb := math.Round(float64(report.SpaceReclaimed)/(1024*1024)*100) / 100
	return &VolumePrune{
		VolumesDeleted:      deleted,
		SpaceReclaimedBytes: report.SpaceReclaimed,
		SpaceReclaimedMB:    mb,
		SpaceReclaimedHuman: units.BytesSize(float64(report.SpaceReclaimed)),
		Status:              "pruned",
		Message:             fmt.Sprintf("Removed %d unused volumes, reclaimed %g MB", len(deleted), mb),
	}, nil
}

// VolumesByContainer lists the mounts of the container with the given ID.
func (c *Client) VolumesByContainer(ctx context.Context, id string) ([]VolumeMount, error) {
	info, err := c.api.ContainerInspect(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspecting container %s: %w", shortID(id), err)
	}
	out := make([]VolumeMount, 0, len(info.Mounts))
	for _, m := range info.Mounts {
		out = append(out, VolumeMount{
			Name:        m.Name,
			Type:        string(m.Type),
			Source:      m.Source,
			Destination: m.Destination,
			Mode:        m.Mode,
			ReadWrite:   m.RW,
		})
	}
	return out, nil
}

// VolumeUsage finds every container, running or not, that mounts the volume.
func (c *Client) VolumeUsage(ctx context.Context, name string) (*VolumeUsage, error) {
	v, err := c.api.VolumeInspect(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("inspecting volume %s: %w", name, err)
	}
	list, err := c.api.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	rec := &VolumeUsage{
		VolumeName: v.Name,
		Mountpoint: v.Mountpoint,
		Containers: []VolumeConsumer{},
	}
	for _, s := range list {
		for _, m := range s.Mounts {
			if m.Name != v.Name && (v.Mountpoint == "" || m.Source != v.Mountpoint) {
				continue
			}
			cname := ""
			if len(s.Names) > 0 {
				cname = containerName(s.Names[0])
			}
			rec.Containers = append(rec.Containers, VolumeConsumer{
				ID:               s.ID,
				Name:             cname,
				Status:           string(s.State),
				MountDestination: m.Destination,
				ReadWrite:        m.RW,
			})
			break
		}
	}
	rec.ContainersCount = len(rec.Containers)
	rec.InUse = rec.ContainersCount > 0
	return rec, nil
}

// BackupVolume writes a tar of the volume to backupPath on the host, using a
// short-lived helper container that mounts the volume read-only. An empty
// image selects the client's configured backup image.
func (c *Client) BackupVolume(ctx context.Context, name, backupPath, image string) (*VolumeBackup, error) {
	if image == "" {
		image = c.backupImage
	}
	if backupPath == "" {
		return nil, invalidArgument(nil, "backup_path is required")
	}
	abs, err := filepath.Abs(backupPath)
	if err != nil {
		return nil, invalidArgument(err, "invalid backup_path %q", backupPath)
	}
	dir, file := filepath.Dir(abs), filepath.Base(abs)

	cfg := &container.Config{
		Image: image,
		Cmd:   []string{"tar", "cvf", "/backup/" + file, "-C", "/volume", "."},
	}
	hostCfg := &container.HostConfig{
		Mounts: []mount.Mount{
			{Type: mount.TypeVolume, Source: name, Target: "/volume", ReadOnly: true},
			{Type: mount.TypeBind, Source: dir, Target: "/backup"},
		},
	}
	helper := "dockmcp-backup-" + uuid.NewString()[:8]

	resp, err := c.api.ContainerCreate(ctx, cfg, hostCfg, nil, nil, helper)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil, ErrBackupImageNotFound(image, err)
		}
		return nil, fmt.Errorf("creating backup container: %w", err)
	}
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.api.ContainerRemove(cleanupCtx, resp.ID, container.RemoveOptions{Force: true}); err != nil {
			logger.Warn().Err(err).Str("container", helper).Msg("failed to cleanup backup container")
		}
	}()

	if err := c.api.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("starting backup container: %w", err)
	}

	waitCh, errCh := c.api.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case result := <-waitCh:
		if result.StatusCode != 0 {
			if out := c.helperOutput(ctx, resp.ID); out != "" {
				return nil, fmt.Errorf("backup of volume %s failed (exit code %d): %s", name, result.StatusCode, out)
			}
			return nil, fmt.Errorf("backup of volume %s failed (exit code %d)", name, result.StatusCode)
		}
	case err := <-errCh:
		return nil, fmt.Errorf("waiting for backup container: %w", err)
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for backup container: %w", ctx.Err())
	}

	logger.Debug().Str("volume", name).Str("path", abs).Msg("volume backed up")
	return &VolumeBackup{
		VolumeName: name,
		BackupPath: abs,
		Status:     "backed_up",
		Message:    fmt.Sprintf("Successfully backed up volume '%s' to '%s'", name, abs),
	}, nil
}

// helperOutput returns the combined output of a finished helper container,
// or "" when it cannot be read.
func (c *Client) helperOutput(ctx context.Context, id string) string {
	rc, err := c.api.ContainerLogs(ctx, id, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return ""
	}
	defer rc.Close()
	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, rc); err != nil {
		return ""
	}
	return stdout.String() + stderr.String()
}
