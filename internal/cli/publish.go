package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/watzon/blogwebhook/internal/posts"
	"github.com/watzon/blogwebhook/internal/webhooks"
)

// publisher sends post files to the webhook, one request at a time.
type publisher struct {
	client      *webhooks.Client
	timeout     time.Duration
	update      bool
	stripMarkup bool

	mu    sync.Mutex
	slugs map[string]string // path -> slug of the last successful publish
}

func newPublisher(client *webhooks.Client, timeout time.Duration, update, stripMarkup bool) *publisher {
	return &publisher{
		client:      client,
		timeout:     timeout,
		update:      update,
		stripMarkup: stripMarkup,
		slugs:       make(map[string]string),
	}
}

func (p *publisher) load(path string) (*posts.Post, error) {
	post, err := posts.Load(path)
	if err != nil {
		return nil, err
	}
	if p.stripMarkup {
		posts.StripMarkup(post)
	}
	return post, nil
}

func (p *publisher) create(ctx context.Context, post *posts.Post) (*webhooks.Result, error) {
	ctx, cancel := requestContext(ctx, p.timeout)
	defer cancel()
	return p.client.CreatePost(ctx, post.CreateInput())
}

func (p *publisher) replace(ctx context.Context, post *posts.Post) (*webhooks.Result, error) {
	ctx, cancel := requestContext(ctx, p.timeout)
	defer cancel()
	return p.client.UpdatePost(ctx, post.UpdateInput())
}

// Publish creates the post in path. When updates are enabled, a 409 Conflict
// is answered with one update of the same post.
func (p *publisher) Publish(ctx context.Context, path string) (*webhooks.Result, error) {
	post, err := p.load(path)
	if err != nil {
		return nil, err
	}

	result, err := p.create(ctx, post)
	if err != nil {
		return nil, err
	}
	if result.StatusCode == http.StatusConflict && p.update {
		log.Debug().Str("path", path).Str("slug", post.EffectiveSlug()).Msg("Post exists, updating")
		result, err = p.replace(ctx, post)
		if err != nil {
			return nil, err
		}
	}

	p.remember(path, post, result)
	return result, nil
}

// Sync updates the post in path, creating it when the blog reports 404.
func (p *publisher) Sync(ctx context.Context, path string) (*webhooks.Result, error) {
	post, err := p.load(path)
	if err != nil {
		return nil, err
	}

	result, err := p.replace(ctx, post)
	if err != nil {
		return nil, err
	}
	if result.StatusCode == http.StatusNotFound {
		log.Debug().Str("path", path).Str("slug", post.EffectiveSlug()).Msg("Post missing, creating")
		result, err = p.create(ctx, post)
		if err != nil {
			return nil, err
		}
	}

	p.remember(path, post, result)
	return result, nil
}

// Remove deletes the post last published from path. Unknown paths are skipped.
func (p *publisher) Remove(ctx context.Context, path string) (*webhooks.Result, bool, error) {
	p.mu.Lock()
	slug, ok := p.slugs[path]
	p.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	ctx, cancel := requestContext(ctx, p.timeout)
	defer cancel()
	result, err := p.client.DeletePost(ctx, slug)
	if err != nil {
		return nil, true, err
	}
	if result.Success {
		p.mu.Lock()
		delete(p.slugs, path)
		p.mu.Unlock()
	}
	return result, true, nil
}

func (p *publisher) remember(path string, post *posts.Post, result *webhooks.Result) {
	if !result.Success {
		return
	}
	slug := result.Field("slug")
	if slug == "" {
		slug = post.EffectiveSlug()
	}

	p.mu.Lock()
	p.slugs[path] = slug
	p.mu.Unlock()
}

// publishSummary counts outcomes of a publish run.
type publishSummary struct {
	Published int
	Failed    int
}

// PublishAll publishes each file in order, continuing past failures.
func (p *publisher) PublishAll(ctx context.Context, files []string) publishSummary {
	var summary publishSummary

	for _, path := range files {
		if ctx.Err() != nil {
			summary.Failed++
			continue
		}

		result, err := p.Publish(ctx, path)
		switch {
		case err != nil:
			summary.Failed++
			log.Error().Err(err).Str("path", path).Msg("Failed to publish post")
		case !result.Success:
			summary.Failed++
			log.Error().
				Str("path", path).
				Int("status", result.StatusCode).
				Str("error", result.Field("error")).
				Msg("Webhook rejected post")
		default:
			summary.Published++
			log.Info().
				Str("path", path).
				Str("slug", result.Field("slug")).
				Str("url", result.Field("url")).
				Msg("Published post")
		}
	}

	return summary
}

func newPublishCmd(opts *rootOptions) *cobra.Command {
	var metricsFile string

	cmd := &cobra.Command{
		Use:   "publish <dir>",
		Short: "Publish every post file in a directory",
		Long: `Create a post for each markdown file under <dir> that matches --pattern.
Files need YAML frontmatter with at least a title.

With --update, posts that already exist (409 Conflict) are updated instead.

Example:
  blogwebhook publish --update --pattern 'posts/**.md' ./content`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			var extra []webhooks.Option
			var registry *prometheus.Registry
			if metricsFile != "" {
				registry = prometheus.NewRegistry()
				extra = append(extra, webhooks.WithMetrics(webhooks.NewMetrics(registry)))
			}

			client, done, err := newClient(cmd.Context(), cfg, extra...)
			if err != nil {
				return err
			}
			defer done()

			files, err := posts.Discover(args[0], cfg.Publish.Pattern)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				log.Warn().Str("dir", args[0]).Str("pattern", cfg.Publish.Pattern).Msg("No post files found")
				return nil
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			p := newPublisher(client, cfg.Webhook.Timeout, cfg.Publish.Update, cfg.Publish.StripMarkup)
			summary := p.PublishAll(ctx, files)

			fmt.Fprintf(cmd.OutOrStdout(), "published %d, failed %d\n", summary.Published, summary.Failed)

			if registry != nil {
				if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
					log.Error().Err(err).Str("path", metricsFile).Msg("Failed to write metrics")
				}
			}

			if summary.Failed > 0 {
				return errors.Join(ErrRequestFailed, fmt.Errorf("%d of %d posts failed", summary.Failed, len(files)))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("pattern", "", "glob pattern for post files (default from config: **.{md,mdx})")
	flags.Bool("update", false, "update posts that already exist")
	flags.Bool("strip-markup", false, "strip HTML from title, summary, alt text and tags")
	flags.StringVar(&metricsFile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")

	return cmd
}
