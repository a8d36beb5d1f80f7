package tools

import (
	"context"

	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/resource"
)

var imageIdentifier = Required(Str("image_identifier", "Image ID, name:tag, or partial name (e.g. \"nginx\" or \"ubuntu:20.04\")"))

func imageTools(d *Deps) []Tool {
	return []Tool{
		{
			Name:        "image_list",
			Description: "List local images with their tags and size.",
			Input:       Object(Bool("all_images", "Include intermediate images", false)),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				return s.ListImages(ctx, args.Bool("all_images"))
			}),
		},
		{
			Name:        "image_info",
			Description: "Show an image's tags, size, platform and default config.",
			Input:       Object(imageIdentifier),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				img, err := s.lookup(ctx, resource.KindImage, args.String("image_identifier"))
				if err != nil {
					return nil, err
				}
				return s.ImageInfo(ctx, img.Key)
			}),
		},
		{
			Name:        "image_pull",
			Description: "Pull an image from its registry (Docker Hub by default).",
			Input: Object(
				Required(Str("image_name", "Image name, e.g. \"nginx\" or \"ghcr.io/org/app\"")),
				Property{Name: "tag", Schema: Schema{"type": "string", "default": "latest"}, Description: "Tag to pull"},
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				return s.PullImage(ctx, args.String("image_name"), args.String("tag"))
			}),
		},
		{
			Name:        "image_remove",
			Description: "Remove a local image.",
			Input: Object(
				imageIdentifier,
				Bool("force", "Remove even if containers use it", false),
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				query := args.String("image_identifier")
				img, err := s.lookup(ctx, resource.KindImage, query)
				if err != nil {
					return nil, err
				}
				return s.RemoveImage(ctx, img.Key, img.Names, query, args.Bool("force"))
			}),
		},
		{
			Name:        "image_search",
			Description: "Search Docker Hub for images.",
			Input: Object(
				Required(Str("term", "Search term, e.g. \"postgres\"")),
				Property{
					Name:        "limit",
					Schema:      Schema{"type": "integer", "default": docker.DefaultSearchLimit},
					Description: "Maximum number of results, capped at 100",
				},
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				return s.SearchImages(ctx, args.String("term"), args.Int("limit"))
			}),
		},
		{
			Name:        "image_history",
			Description: "List an image's layers and the commands that created them.",
			Input:       Object(imageIdentifier),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				img, err := s.lookup(ctx, resource.KindImage, args.String("image_identifier"))
				if err != nil {
					return nil, err
				}
				return s.ImageHistory(ctx, img.Key)
			}),
		},
	}
}
