// Package cli defines the bookexchange command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookexchange/internal/config"
	"github.com/mrlokans/bookexchange/internal/entrypoint"
)

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand(version string) *cobra.Command {
	serve := func(cmd *cobra.Command, args []string) error {
		return entrypoint.Run(config.NewConfig(), version)
	}

	root := &cobra.Command{
		Use:           "bookexchange",
		Short:         "Peer-to-peer book exchange API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE:  serve,
	})
	root.AddCommand(newUserCommand())

	return root
}
