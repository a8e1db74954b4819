package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/bookstore-service/internal/domain"
)

var errCount = errors.New("count must be at least 1")

func newIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "id",
		Short: "Generate or inspect identifiers",
	}

	cmd.AddCommand(newIDNewCmd(), newIDInspectCmd())

	return cmd
}

func newIDNewCmd() *cobra.Command {
	var (
		count int
		seed  string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Print fresh identifiers, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return errCount
			}

			var gen domain.IDGenerator = domain.NewKSUIDGenerator()

			if seed != "" {
				start, err := domain.ParseID(seed)
				if err != nil {
					return fmt.Errorf("seed: %w", err)
				}

				gen = domain.NewSequenceGenerator(start)
			}

			out := cmd.OutOrStdout()
			for range count {
				fmt.Fprintln(out, gen.NewID().String())
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of identifiers to print")
	cmd.Flags().StringVar(&seed, "seed", "", "issue a deterministic sequence starting at this identifier")

	return cmd
}

func newIDInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <id>",
		Short: "Decode an identifier into its timestamp and payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID(args[0])
			if err != nil {
				return err
			}

			k := id.KSUID()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:        %s\n", id)
			fmt.Fprintf(out, "timestamp: %s\n", k.Time().UTC().Format(time.RFC3339))
			fmt.Fprintf(out, "payload:   %s\n", hex.EncodeToString(k.Payload()))

			return nil
		},
	}
}
