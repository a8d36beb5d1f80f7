package tools

import (
	"context"

	"github.com/schmitthub/dockmcp/internal/compose"
)

var projectDir = Str("project_dir", "Directory containing docker-compose.yml; auto-detected when omitted")

func composeTools(d *Deps) []Tool {
	return []Tool{
		{
			Name:        "compose_up",
			Description: "Start compose services.",
			Input: Object(
				projectDir,
				Strings("services", "Services to start; all when omitted"),
				Bool("build", "Build images before starting", false),
				Bool("detach", "Run in the background", true),
			),
			Handler: func(ctx context.Context, args Args) (any, error) {
				return d.Compose.Up(ctx, compose.UpOptions{
					ProjectDir: args.String("project_dir"),
					Services:   args.Strings("services"),
					Build:      args.Bool("build"),
					Detach:     args.Bool("detach"),
				})
			},
		},
		{
			Name:        "compose_down",
			Description: "Stop and remove compose containers and networks.",
			Input: Object(
				projectDir,
				Bool("volumes", "Also remove named volumes declared in the compose file", false),
				Bool("remove_orphans", "Remove containers for services not in the compose file", false),
			),
			Handler: func(ctx context.Context, args Args) (any, error) {
				return d.Compose.Down(ctx, compose.DownOptions{
					ProjectDir:    args.String("project_dir"),
					Volumes:       args.Bool("volumes"),
					RemoveOrphans: args.Bool("remove_orphans"),
				})
			},
		},
		{
			Name:        "compose_ps",
			Description: "List compose services and their containers.",
			Input: Object(
				projectDir,
				Bool("all_containers", "Include stopped containers", false),
			),
			Handler: func(ctx context.Context, args Args) (any, error) {
				return d.Compose.Ps(ctx, args.String("project_dir"), args.Bool("all_containers"))
			},
		},
		{
			Name:        "compose_logs",
			Description: "Fetch compose service logs. With follow=true logs stream to the server's stderr until the call is cancelled.",
			Input: Object(
				projectDir,
				Strings("services", "Services to show; all when omitted"),
				Int("tail", "Lines from the end of each service log", compose.DefaultLogTail, intPtr(0)),
				Bool("follow", "Stream logs until cancelled", false),
			),
			Handler: func(ctx context.Context, args Args) (any, error) {
				opts := compose.LogsOptions{
					ProjectDir: args.String("project_dir"),
					Services:   args.Strings("services"),
					Follow:     args.Bool("follow"),
				}
				if args.Has("tail") {
					opts.Tail = intPtr(args.Int("tail"))
				}
				return d.Compose.Logs(ctx, opts)
			},
		},
		{
			Name:        "compose_scale",
			Description: "Scale a compose service to a number of replicas.",
			Input: Object(
				Required(Str("service", "Service to scale")),
				Required(Int("count", "Number of replicas", 1, intPtr(0))),
				projectDir,
			),
			Handler: func(ctx context.Context, args Args) (any, error) {
				return d.Compose.Scale(ctx, args.String("project_dir"), args.String("service"), args.Int("count"))
			},
		},
	}
}
