package docker

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"

	"github.com/schmitthub/dockmcp/internal/resource"
)

// untaggedRef is what the daemon reports in RepoTags for dangling images.
const untaggedRef = "<none>:<none>"

type containerDirectory struct{ api APIClient }

func (d *containerDirectory) Kind() resource.Kind { return resource.KindContainer }

func (d *containerDirectory) List(ctx context.Context) ([]resource.Candidate, error) {
	list, err := d.api.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, err
	}
	out := make([]resource.Candidate, 0, len(list))
	for _, c := range list {
		out = append(out, containerCandidate(c.ID, c.Names...))
	}
	return out, nil
}

func (d *containerDirectory) GetByExactKey(ctx context.Context, key string) (resource.Candidate, error) {
	info, err := d.api.ContainerInspect(ctx, key)
	if err != nil {
		return resource.Candidate{}, lookupErr(resource.KindContainer, key, err)
	}
	return containerCandidate(info.ID, info.Name), nil
}

func containerCandidate(id string, names ...string) resource.Candidate {
	c := resource.Candidate{Kind: resource.KindContainer, Key: id}
	for _, n := range names {
		c.Names = append(c.Names, containerName(n))
	}
	return c
}

// containerName strips the leading slash the API puts on container names.
func containerName(n string) string {
	return strings.TrimPrefix(n, "/")
}

type imageDirectory struct{ api APIClient }

func (d *imageDirectory) Kind() resource.Kind { return resource.KindImage }

func (d *imageDirectory) List(ctx context.Context) ([]resource.Candidate, error) {
	list, err := d.api.ImageList(ctx, image.ListOptions{All: true})
	if err != nil {
		return nil, err
	}
	out := make([]resource.Candidate, 0, len(list))
	for _, img := range list {
		out = append(out, imageCandidate(img.ID, img.RepoTags))
	}
	return out, nil
}

func (d *imageDirectory) GetByExactKey(ctx context.Context, key string) (resource.Candidate, error) {
	info, err := d.api.ImageInspect(ctx, key)
	if err != nil {
		return resource.Candidate{}, lookupErr(resource.KindImage, key, err)
	}
	return imageCandidate(info.ID, info.RepoTags), nil
}

func imageCandidate(id string, repoTags []string) resource.Candidate {
	return resource.Candidate{Kind: resource.KindImage, Key: id, Names: imageTags(repoTags)}
}

// imageTags drops the placeholder tag of dangling images.
func imageTags(repoTags []string) []string {
	var tags []string
	for _, t := range repoTags {
		if t != "" && t != untaggedRef {
			tags = append(tags, t)
		}
	}
	return tags
}

type networkDirectory struct{ api APIClient }

func (d *networkDirectory) Kind() resource.Kind { return resource.KindNetwork }

func (d *networkDirectory) List(ctx context.Context) ([]resource.Candidate, error) {
	list, err := d.api.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]resource.Candidate, 0, len(list))
	for _, n := range list {
		out = append(out, resource.Candidate{Kind: resource.KindNetwork, Key: n.ID, Names: []string{n.Name}})
	}
	return out, nil
}

func (d *networkDirectory) GetByExactKey(ctx context.Context, key string) (resource.Candidate, error) {
	n, err := d.api.NetworkInspect(ctx, key, network.InspectOptions{})
	if err != nil {
		return resource.Candidate{}, lookupErr(resource.KindNetwork, key, err)
	}
	return resource.Candidate{Kind: resource.KindNetwork, Key: n.ID, Names: []string{n.Name}}, nil
}

type volumeDirectory struct{ api APIClient }

func (d *volumeDirectory) Kind() resource.Kind { return resource.KindVolume }

func (d *volumeDirectory) List(ctx context.Context) ([]resource.Candidate, error) {
	resp, err := d.api.VolumeList(ctx, volume.ListOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]resource.Candidate, 0, len(resp.Volumes))
	for _, v := range resp.Volumes {
		if v == nil {
			continue
		}
		out = append(out, volumeCandidate(v.Name))
	}
	return out, nil
}

func (d *volumeDirectory) GetByExactKey(ctx context.Context, key string) (resource.Candidate, error) {
	v, err := d.api.VolumeInspect(ctx, key)
	if err != nil {
		return resource.Candidate{}, lookupErr(resource.KindVolume, key, err)
	}
	return volumeCandidate(v.Name), nil
}

// Volumes have no separate ID; the name is the key.
func volumeCandidate(name string) resource.Candidate {
	return resource.Candidate{Kind: resource.KindVolume, Key: name, Names: []string{name}}
}
