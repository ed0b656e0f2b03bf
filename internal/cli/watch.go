package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/watzon/blogwebhook/internal/webhooks"
)

// watchHandler turns post file events into webhook calls.
type watchHandler struct {
	publisher *publisher
	prune     bool
}

func (h *watchHandler) handle(ctx context.Context, path string, eventType EventType) {
	var (
		result *webhooks.Result
		err    error
		action string
	)

	switch eventType {
	case EventCreated:
		action = "create"
		result, err = h.publisher.Publish(ctx, path)
	case EventModified:
		action = "update"
		result, err = h.publisher.Sync(ctx, path)
	case EventDeleted, EventRenamed:
		if !h.prune {
			log.Debug().Str("path", path).Msg("Post file removed, keeping post")
			return
		}
		action = "delete"
		var known bool
		result, known, err = h.publisher.Remove(ctx, path)
		if err == nil && !known {
			log.Debug().Str("path", path).Msg("Post file removed, no known slug")
			return
		}
	default:
		return
	}

	if err != nil {
		log.Error().Err(err).Str("path", path).Str("action", action).Msg("Webhook call failed")
		return
	}
	if !result.Success {
		log.Error().
			Str("path", path).
			Str("action", action).
			Int("status", result.StatusCode).
			Str("error", result.Field("error")).
			Msg("Webhook rejected post")
		return
	}
	log.Info().
		Str("path", path).
		Str("action", action).
		Int("status", result.StatusCode).
		Str("slug", result.Field("slug")).
		Msg("Post synced")
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Publish post files as they change",
		Long: `Watch <dir> for post files matching --pattern and keep the blog in sync:
new files are created, modified files are updated (or created when the blog
does not know them yet). With --prune, removing a file deletes its post.

Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			client, done, err := newClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer done()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			// New files may collide with posts created before the watch started.
			h := &watchHandler{
				publisher: newPublisher(client, cfg.Webhook.Timeout, true, cfg.Publish.StripMarkup),
				prune:     prune,
			}

			pw, err := NewPostWatcher(args[0], cfg.Publish.Pattern, cfg.Publish.Debounce, func(path string, eventType EventType) {
				h.handle(ctx, path, eventType)
			})
			if err != nil {
				return err
			}

			pw.Start(ctx)
			log.Info().
				Str("dir", args[0]).
				Str("pattern", cfg.Publish.Pattern).
				Bool("prune", prune).
				Msg("Watching for post changes")

			<-ctx.Done()
			log.Info().Msg("Stopping watcher")
			return pw.Stop()
		},
	}

	flags := cmd.Flags()
	flags.String("pattern", "", "glob pattern for post files (default from config: **.{md,mdx})")
	flags.Bool("strip-markup", false, "strip HTML from title, summary, alt text and tags")
	flags.BoolVar(&prune, "prune", false, "delete posts whose files are removed")

	return cmd
}
