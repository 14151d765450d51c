// Package main is the formdesk command: it serves the application shell over
// HTTP and inspects the route table from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "formdesk",
		Short: "Serve the formdesk application shell",
		Long: `formdesk mounts the application shell into its host document and serves
it over HTTP. Every location not claimed by the API is routed through the
static route table and rendered server side.

Without a subcommand, formdesk serves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.profile, "profile", "p", defaultProfile(),
		"configuration profile (configs/<profile>.yaml)")
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs",
		"directory holding base.yaml and the profile files")

	root.AddCommand(
		serveCmd(opts),
		routesCmd(opts),
		resolveCmd(opts),
		renderCmd(opts),
		versionCmd(),
	)

	return root
}

// defaultProfile is APP_ENVIRONMENT, or local.
func defaultProfile() string {
	if p := os.Getenv("APP_ENVIRONMENT"); p != "" {
		return p
	}

	return "local"
}
