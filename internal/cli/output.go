package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/watzon/blogwebhook/internal/webhooks"
)

// ErrRequestFailed is returned when the webhook answered with a failure result.
var ErrRequestFailed = errors.New("webhook request failed")

// printResult writes the response data as indented JSON and turns an
// unsuccessful result into an error for the exit status.
func printResult(w io.Writer, result *webhooks.Result) error {
	event := log.Info()
	if !result.Success {
		event = log.Warn()
	}
	event.Int("status", result.StatusCode).Bool("success", result.Success).Msg("Webhook responded")

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result.Data); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}

	if !result.Success {
		if msg := result.Field("error"); msg != "" {
			return fmt.Errorf("%w: status %d: %s", ErrRequestFailed, result.StatusCode, msg)
		}
		return fmt.Errorf("%w: status %d", ErrRequestFailed, result.StatusCode)
	}
	return nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
