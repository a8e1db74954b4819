package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/mapper"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
)

// payloadKinds maps a validate argument to the mapping it exercises.
var payloadKinds = map[string]func(in *mapper.Inbound, raw []byte) (any, error){
	"book": func(in *mapper.Inbound, raw []byte) (any, error) {
		var req dto.CreateBookRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}

		book, err := in.NewBook(&req)
		if err != nil {
			return nil, err
		}

		return mapper.ToBookResponse(&domain.BookDetails{Book: book}), nil
	},
	"order": func(in *mapper.Inbound, raw []byte) (any, error) {
		var req dto.CreateOrderRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}

		order, err := in.NewOrder(&req)
		if err != nil {
			return nil, err
		}

		return mapper.ToOrderResponse(&order), nil
	},
	"discount-code": func(in *mapper.Inbound, raw []byte) (any, error) {
		var req dto.CreateDiscountCodeRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}

		code, err := in.NewDiscountCode(&req)
		if err != nil {
			return nil, err
		}

		return mapper.ToDiscountCodeResponse(&code), nil
	},
}

func decode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", dto.ErrBinding, err)
	}

	return dto.Validate(v)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "validate <book|order|discount-code> <file>",
		Short:     "Map a create payload and print the entity or the rejection",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"book", "order", "discount-code"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mapFn, ok := payloadKinds[args[0]]
			if !ok {
				return fmt.Errorf("unknown payload kind %q", args[0])
			}

			raw, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading payload: %w", err)
			}

			in := mapper.NewInbound(domain.NewKSUIDGenerator())

			entity, err := mapFn(in, raw)
			if err != nil {
				return rejection(err)
			}

			return writeJSON(cmd.OutOrStdout(), entity)
		},
	}
}

// rejection names the mapping error kind or lists schema violations.
func rejection(err error) error {
	if me, ok := domain.AsMappingError(err); ok {
		return fmt.Errorf("rejected (%s): %w", domain.KindOf(me), err)
	}

	if fields := dto.ValidationErrors(err); len(fields) > 0 {
		return fmt.Errorf("rejected (schema): %v", fields)
	}

	return err
}
