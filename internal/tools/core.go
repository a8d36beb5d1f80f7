package tools

import (
	"context"

	"github.com/schmitthub/dockmcp/internal/resource"
)

func kindNames() []string {
	kinds := resource.Kinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func coreTools(d *Deps) []Tool {
	return []Tool{
		{
			Name:        "resolve",
			Description: "Resolve a full or partial identifier to exactly one container, image, network or volume.",
			Input: Object(
				Required(Enum("kind", "Resource kind", kindNames()...)),
				Required(Str("query", "ID, name, tag, or a fragment of one")),
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				kind, err := resource.ParseKind(args.String("kind"))
				if err != nil {
					return nil, &ArgumentError{Message: err.Error()}
				}
				res, err := s.resolver.Resolve(ctx, kind, args.String("query"))
				if err != nil {
					return nil, err
				}
				if err := res.Err(); err != nil {
					return nil, err
				}
				return res, nil
			}),
		},
		{
			Name:        "project_locate",
			Description: "Find the compose project directory for a path, the environment, or the working directory.",
			Input:       Object(Str("path", "Explicit project directory; searched from the working directory when omitted")),
			Handler: func(_ context.Context, args Args) (any, error) {
				return d.Locator.Find(args.String("path"))
			},
		},
	}
}
