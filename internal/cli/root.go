package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/watzon/blogwebhook/internal/config"
	"github.com/watzon/blogwebhook/internal/webhooks"
)

const version = "0.1.0-dev"

type rootOptions struct {
	cfgFile string
	verbose bool
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "blogwebhook",
		Short: "Publish blog posts through a signed webhook",
		Long: `blogwebhook creates, updates and deletes blog posts by calling the blog's
content webhook. Every request body is signed with HMAC-SHA256 and sent in the
X-Webhook-Signature header.

Configure the endpoint and secret in blogwebhook.yaml or the environment:
  export BLOGWEBHOOK_WEBHOOK_URL=https://example.com/api/webhook/blog
  export BLOGWEBHOOK_WEBHOOK_SECRET=...

Publish a directory of markdown posts:
  blogwebhook publish --update ./content`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.verbose)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is ./blogwebhook.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.String("url", "", "webhook endpoint URL")
	flags.String("secret", "", "webhook signing secret")
	flags.Duration("timeout", config.DefaultTimeout, "deadline for a single request (0 disables)")
	flags.Bool("tracing", false, "enable OpenTelemetry client instrumentation")

	cmd.AddCommand(
		newCreateCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newSignCmd(opts),
		newVerifyCmd(opts),
		newPublishCmd(opts),
		newWatchCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// setupLogging configures zerolog based on verbosity.
func setupLogging(verbose bool) {
	// Pretty console output for development
	output := zerolog.ConsoleWriter{Out: os.Stderr}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// configureLogging applies the logging section once config is loaded.
// --verbose always wins over the configured level.
func configureLogging(cfg config.LoggingConfig, verbose bool) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// loadConfig reads config for cmd, with its changed flags taking precedence.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.cfgFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}

	configureLogging(cfg.Logging, opts.verbose)
	return cfg, nil
}

// newClient builds the webhook client for cfg. The returned function releases
// anything the client set up and must be called when the command finishes.
func newClient(ctx context.Context, cfg *config.Config, extra ...webhooks.Option) (*webhooks.Client, func(), error) {
	opts := []webhooks.Option{webhooks.WithLogger(log.Logger)}
	done := func() {}

	if cfg.Webhook.Tracing {
		if ctx == nil {
			ctx = context.Background()
		}
		shutdown, err := initTracing(ctx, cfg.Webhook)
		if err != nil {
			return nil, nil, fmt.Errorf("starting tracing: %w", err)
		}
		done = func() { shutdownTracing(shutdown) }
		opts = append(opts, webhooks.WithTracing())
	}
	opts = append(opts, extra...)

	client, err := webhooks.NewClient(cfg.Webhook.URL, cfg.Webhook.Secret, opts...)
	if err != nil {
		done()
		return nil, nil, err
	}
	return client, done, nil
}

// requestContext bounds a single webhook call by the configured timeout.
func requestContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version())
		},
	}
}

// Version returns the version string.
func Version() string {
	return fmt.Sprintf("blogwebhook version %s", version)
}
