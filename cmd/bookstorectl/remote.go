package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/clients"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/mapper"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
	"github.com/jsamuelsen/bookstore-service/internal/platform/config"
	"github.com/jsamuelsen/bookstore-service/internal/platform/logging"
)

const remoteServiceName = "bookstore-api"

var errNotReady = errors.New("service not ready")

// remoteOptions locate the service the remote commands talk to.
type remoteOptions struct {
	addr      string
	profile   string
	configDir string
}

func (o *remoteOptions) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.addr, "addr", "", "service base URL (overrides client.base_url)")
	flags.StringVar(&o.profile, "profile", "local", "config profile for the client section")
	flags.StringVar(&o.configDir, "config-dir", "configs", "directory holding base.yaml and profiles")
}

// client builds a BookstoreClient from the client section of the config.
func (o *remoteOptions) client(cmd *cobra.Command) (*acl.BookstoreClient, error) {
	cfg, err := config.LoadFrom(o.configDir, o.profile)
	if err != nil {
		return nil, err
	}

	if o.addr != "" {
		cfg.Client.BaseURL = o.addr
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   "warn",
		Format:  "text",
		Service: "bookstorectl",
		Version: cfg.App.Version,
	}, cmd.ErrOrStderr())

	clientCfg := clients.ConfigFrom(&cfg.Client, remoteServiceName)
	clientCfg.Logger = logger

	c, err := clients.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return acl.NewBookstoreClient(c, logger), nil
}

func newGetCmd(opts *remoteOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch one resource from a running service",
	}

	cmd.AddCommand(
		newGetResourceCmd(opts, "book", func(cmd *cobra.Command, c *acl.BookstoreClient, id domain.ID) (any, error) {
			book, err := c.GetBook(cmd.Context(), id)
			if err != nil {
				return nil, err
			}

			return mapper.ToBookResponse(&book), nil
		}),
		newGetResourceCmd(opts, "inventory", func(cmd *cobra.Command, c *acl.BookstoreClient, id domain.ID) (any, error) {
			inv, err := c.GetInventory(cmd.Context(), id)
			if err != nil {
				return nil, err
			}

			return mapper.ToInventoryResponse(inv), nil
		}),
		newGetResourceCmd(opts, "order", func(cmd *cobra.Command, c *acl.BookstoreClient, id domain.ID) (any, error) {
			order, err := c.GetOrder(cmd.Context(), id)
			if err != nil {
				return nil, err
			}

			return mapper.ToOrderResponse(&order), nil
		}),
	)

	return cmd
}

type fetchFunc func(cmd *cobra.Command, c *acl.BookstoreClient, id domain.ID) (any, error)

func newGetResourceCmd(opts *remoteOptions, name string, fetch fetchFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: "Fetch a " + name + " by identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID(args[0])
			if err != nil {
				return rejection(err)
			}

			c, err := opts.client(cmd)
			if err != nil {
				return err
			}

			resource, err := fetch(cmd, c, id)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), resource)
		},
	}
}

func newBooksCmd(opts *remoteOptions) *cobra.Command {
	var (
		statuses []string
		limit    int
		cursor   string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the catalog of a running service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := domain.ParseCatalogStatuses(statuses)
			if err != nil {
				return rejection(err)
			}

			c, err := opts.client(cmd)
			if err != nil {
				return err
			}

			q := acl.BookQuery{Statuses: filter, Limit: limit, Cursor: cursor}

			if all {
				books, err := c.AllBooks(cmd.Context(), q)
				if err != nil {
					return err
				}

				return writeJSON(cmd.OutOrStdout(), mapper.ToBookResponses(books))
			}

			page, err := c.ListBooks(cmd.Context(), q)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), dto.PaginatedResponse[dto.BookResponse]{
				Items:      mapper.ToBookResponses(page.Items),
				NextCursor: page.NextCursor,
				HasMore:    page.HasMore,
			})
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "catalog status filter, repeatable")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (server default when 0)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "cursor from a previous page")
	cmd.Flags().BoolVar(&all, "all", false, "follow cursors and print every page")

	return cmd
}

func newOrderCmd(opts *remoteOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Change orders on a running service",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-status <id> <placed|shipped|delivered|canceled>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID(args[0])
			if err != nil {
				return rejection(err)
			}

			status, err := domain.ParseOrderStatus(args[1])
			if err != nil {
				return rejection(err)
			}

			c, err := opts.client(cmd)
			if err != nil {
				return err
			}

			order, err := c.UpdateOrderStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), mapper.ToOrderResponse(&order))
		},
	})

	return cmd
}

func newReadyCmd(opts *remoteOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Run the readiness probe of a running service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client(cmd)
			if err != nil {
				return err
			}

			ready, err := c.Ready(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ready.Status)

			names := make([]string, 0, len(ready.Checks))
			for name := range ready.Checks {
				names = append(names, name)
			}

			slices.Sort(names)

			for _, name := range names {
				check := ready.Checks[name]
				fmt.Fprintf(out, "  %-16s %s %s\n", name, check.Status, check.Message)
			}

			if !ready.Healthy() {
				return errNotReady
			}

			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
