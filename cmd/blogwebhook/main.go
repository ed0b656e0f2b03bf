// Command blogwebhook publishes blog posts through the blog's signed content webhook.
package main

import (
	"os"

	"github.com/watzon/blogwebhook/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
