package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/watzon/blogwebhook/internal/config"
	"github.com/watzon/blogwebhook/internal/webhooks"
)

// ErrInvalidSignature is returned by verify when the signature does not match.
var ErrInvalidSignature = errors.New("invalid signature")

func inputArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

func newSignCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sign [file]",
		Short: "Print the signature header for a request body",
		Long: `Compute the X-Webhook-Signature value for the exact bytes of a file (or
stdin). Useful for calling the webhook with curl:

  blogwebhook sign body.json
  curl -X POST -H "X-Webhook-Signature: $(blogwebhook sign body.json)" \
       -H "Content-Type: application/json" --data-binary @body.json $URL`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			body, err := readInput(cmd.InOrStdin(), inputArg(args))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), webhooks.Sign(cfg.Webhook.Secret, body))
			return nil
		},
	}
}

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	var signature string

	cmd := &cobra.Command{
		Use:   "verify --signature <value> [file]",
		Short: "Check a signature against a request body",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			body, err := readInput(cmd.InOrStdin(), inputArg(args))
			if err != nil {
				return err
			}

			result := webhooks.Verify(cfg.Webhook.Secret, body, signature)
			if !result.Valid {
				log.Debug().Str("reason", result.Error).Msg("Signature rejected")
				return fmt.Errorf("%w: %s", ErrInvalidSignature, result.Error)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
	cmd.Flags().StringVarP(&signature, "signature", "s", "", "signature header value (sha256=<hex>)")
	_ = cmd.MarkFlagRequired("signature")

	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			path, err := config.ConfigFilePath(opts.cfgFile)
			if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(config.GetConfigSchema(cfg, path))
		},
	}
}
