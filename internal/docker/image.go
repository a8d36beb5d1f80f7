package docker

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/go-units"

	"github.com/schmitthub/dockmcp/internal/logger"
	"github.com/schmitthub/dockmcp/internal/resource"
)

const (
	// DefaultSearchLimit is the number of search results returned when none is requested.
	DefaultSearchLimit = 25
	// MaxSearchLimit is the registry's upper bound on search results.
	MaxSearchLimit = 100
)

// ImageSummary is one row of image_list.
type ImageSummary struct {
	ID        string   `json:"id"`
	Tags      []string `json:"tags"`
	Size      int64    `json:"size"`
	SizeHuman string   `json:"size_human"`
	Created   int64    `json:"created"`
}

// ImageInfo is the image_info record.
type ImageInfo struct {
	ID           string      `json:"id"`
	Tags         []string    `json:"tags"`
	Size         int64       `json:"size"`
	SizeHuman    string      `json:"size_human"`
	Created      string      `json:"created"`
	Architecture string      `json:"architecture"`
	OS           string      `json:"os"`
	Author       string      `json:"author"`
	Config       ImageConfig `json:"config"`
}

// ImageConfig is the subset of the image's runtime config worth showing.
type ImageConfig struct {
	Env          []string `json:"env"`
	Cmd          []string `json:"cmd"`
	ExposedPorts []string `json:"exposed_ports"`
}

// ImageAction reports the outcome of pull and remove.
type ImageAction struct {
	ID      string   `json:"id"`
	Tags    []string `json:"tags"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
}

// ImageSearchResult is one row of image_search.
type ImageSearchResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StarCount   int    `json:"star_count"`
	IsOfficial  bool   `json:"is_official"`
	IsAutomated bool   `json:"is_automated"`
}

// ImageLayer is one row of image_history.
type ImageLayer struct {
	ID        string `json:"id"`
	Created   int64  `json:"created"`
	CreatedBy string `json:"created_by"`
	Size      int64  `json:"size"`
	Comment   string `json:"comment"`
}

// displayTags returns the image's tags, or the none placeholder when untagged.
func displayTags(repoTags []string) []string {
	tags := imageTags(repoTags)
	if len(tags) == 0 {
		return []string{resource.NoneName}
	}
	return tags
}

// ListImages returns local images; all includes intermediate layers.
func (c *Client) ListImages(ctx context.Context, all bool) ([]ImageSummary, error) {
	list, err := c.api.ImageList(ctx, image.ListOptions{All: all})
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	out := make([]ImageSummary, 0, len(list))
	for _, img := range list {
		out = append(out, ImageSummary{
			ID:        img.ID,
			Tags:      displayTags(img.RepoTags),
			Size:      img.Size,
			SizeHuman: units.HumanSize(float64(img.Size)),
			Created:   img.Created,
		})
	}
	return out, nil
}

// ImageInfo inspects the image with the given ID.
func (c *Client) ImageInfo(ctx context.Context, id string) (*ImageInfo, error) {
	info, err := c.api.ImageInspect(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspecting image %s: %w", shortID(id), err)
	}
	rec := &ImageInfo{
		ID:           info.ID,
		Tags:         displayTags(info.RepoTags),
		Size:         info.Size,
		SizeHuman:    units.HumanSize(float64(info.Size)),
		Created:      info.Created,
		Architecture: valueOr(info.Architecture, "unknown"),
		OS:           valueOr(info.Os, "unknown"),
		Author:       info.Author,
		Config:       ImageConfig{Env: []string{}, Cmd: []string{}, ExposedPorts: []string{}},
	}
	if cfg := info.Config; cfg != nil {
		if cfg.Env != nil {
			rec.Config.Env = cfg.Env
		}
		if cfg.Cmd != nil {
			rec.Config.Cmd = cfg.Cmd
		}
		for p := range cfg.ExposedPorts {
			rec.Config.ExposedPorts = append(rec.Config.ExposedPorts, string(p))
		}
		sort.Strings(rec.Config.ExposedPorts)
	}
	return rec, nil
}

// PullImage pulls name:tag from its registry and waits for the pull to finish.
func (c *Client) PullImage(ctx context.Context, name, tag string) (*ImageAction, error) {
	ref := name
	if tag != "" && !strings.Contains(lastPathSegment(name), ":") {
		ref = name + ":" + tag
	}

	rc, err := c.api.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil, notFound(err, "Image '%s' not found in registry", ref)
		}
		return nil, fmt.Errorf("pulling image %s: %w", ref, err)
	}
	defer rc.Close()

	// Pull errors arrive inside the progress stream, not as an HTTP status.
	if err := jsonmessage.DisplayJSONMessagesStream(rc, io.Discard, 0, false, nil); err != nil {
		if containsFold(err, "not found") || containsFold(err, "does not exist") {
			return nil, notFound(err, "Image '%s' not found in registry", ref)
		}
		return nil, fmt.Errorf("pulling image %s: %w", ref, err)
	}
	logger.Debug().Str("image", ref).Msg("image pulled")

	info, err := c.api.ImageInspect(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("inspecting pulled image %s: %w", ref, err)
	}
	return &ImageAction{
		ID:      info.ID,
		Tags:    displayTags(info.RepoTags),
		Status:  "pulled",
		Message: fmt.Sprintf("Successfully pulled %s", ref),
	}, nil
}

// RemoveImage removes the image with the given ID. tags is what the caller
// resolved it by and is echoed back in the record.
func (c *Client) RemoveImage(ctx context.Context, id string, tags []string, query string, force bool) (*ImageAction, error) {
	_, err := c.api.ImageRemove(ctx, id, image.RemoveOptions{Force: force, PruneChildren: true})
	if err != nil {
		if cerrdefs.IsConflict(err) || containsFold(err, "image is being used") {
			return nil, ErrImageInUse(query, err)
		}
		return nil, fmt.Errorf("removing image %s: %w", query, err)
	}
	tags = displayTags(tags)
	return &ImageAction{
		ID:      id,
		Tags:    tags,
		Status:  "removed",
		Message: fmt.Sprintf("Successfully removed image: %s", strings.Join(tags, ", ")),
	}, nil
}

// SearchImages searches the default registry. limit is clamped to
// [1, MaxSearchLimit]; zero means DefaultSearchLimit.
func (c *Client) SearchImages(ctx context.Context, term string, limit int) ([]ImageSearchResult, error) {
	switch {
	case limit <= 0:
		limit = DefaultSearchLimit
	case limit > MaxSearchLimit:
		limit = MaxSearchLimit
	}
	results, err := c.api.ImageSearch(ctx, term, registry.SearchOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("searching images for %q: %w", term, err)
	}
	out := make([]ImageSearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, ImageSearchResult{
			Name:        r.Name,
			Description: r.Description,
			StarCount:   r.StarCount,
			IsOfficial:  r.IsOfficial,
			IsAutomated: r.IsAutomated, //nolint:staticcheck // still reported by Docker Hub
		})
	}
	return out, nil
}

// ImageHistory returns the layers of the image, newest first.
func (c *Client) ImageHistory(ctx context.Context, id string) ([]ImageLayer, error) {
	items, err := c.api.ImageHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching history for %s: %w", shortID(id), err)
	}
	out := make([]ImageLayer, 0, len(items))
	for _, h := range items {
		out = append(out, ImageLayer{
			ID:        h.ID,
			Created:   h.Created,
			CreatedBy: h.CreatedBy,
			Size:      h.Size,
			Comment:   h.Comment,
		})
	}
	return out, nil
}

// lastPathSegment returns the part of an image reference after its final
// slash, so a registry port is not mistaken for a tag.
func lastPathSegment(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
