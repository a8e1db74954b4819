package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookstorectl",
		Short:         "Tooling for bookstore identifiers, payloads and running services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts := &remoteOptions{}
	opts.bind(root)

	root.AddCommand(
		newIDCmd(),
		newValidateCmd(),
		newGetCmd(opts),
		newBooksCmd(opts),
		newOrderCmd(opts),
		newReadyCmd(opts),
	)

	return root
}
