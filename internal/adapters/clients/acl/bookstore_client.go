package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/clients"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/mapper"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
	"github.com/jsamuelsen/bookstore-service/internal/platform/logging"
	"github.com/jsamuelsen/bookstore-service/internal/ports"
)

const apiPrefix = "/api/v1"

// BookstoreClient reads and updates a remote bookstore service.
type BookstoreClient struct {
	client *clients.Client
	logger *slog.Logger
}

// NewBookstoreClient wraps client. Panics if client is nil; logger defaults
// to slog.Default().
func NewBookstoreClient(client *clients.Client, logger *slog.Logger) *BookstoreClient {
	if client == nil {
		panic("BookstoreClient: client is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &BookstoreClient{client: client, logger: logger}
}

// BookQuery selects a page of the remote catalog.
type BookQuery struct {
	Statuses []domain.CatalogStatus
	Limit    int
	Cursor   string
}

func (q BookQuery) encode() string {
	v := url.Values{}
	for _, s := range q.Statuses {
		v.Add("status", s.String())
	}

	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Cursor != "" {
		v.Set("cursor", q.Cursor)
	}

	if len(v) == 0 {
		return ""
	}

	return "?" + v.Encode()
}

// Readiness is the remote answer of the readiness probe.
type Readiness struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Healthy reports whether every remote check passed.
func (r *Readiness) Healthy() bool {
	return r.Status == string(ports.HealthStatusHealthy)
}

// GetBook fetches one catalog item with its references expanded.
func (c *BookstoreClient) GetBook(ctx context.Context, id domain.ID) (domain.BookDetails, error) {
	body, err := c.get(ctx, apiPrefix+"/books/"+id.String(), "get book")
	if err != nil {
		return domain.BookDetails{}, err
	}

	ext, err := decodeResponse[dto.BookResponse](body)
	if err != nil {
		return domain.BookDetails{}, err
	}

	return TranslateBook(*ext)
}

// ListBooks fetches one page of the catalog.
func (c *BookstoreClient) ListBooks(ctx context.Context, q BookQuery) (Page[domain.BookDetails], error) {
	body, err := c.get(ctx, apiPrefix+"/books"+q.encode(), "list books")
	if err != nil {
		return Page[domain.BookDetails]{}, err
	}

	ext, err := decodeResponse[dto.PaginatedResponse[dto.BookResponse]](body)
	if err != nil {
		return Page[domain.BookDetails]{}, err
	}

	books, err := mapper.TranslateSlice(ext.Items, TranslateBook)
	if err != nil {
		return Page[domain.BookDetails]{}, fmt.Errorf("list books: %w", err)
	}

	return Page[domain.BookDetails]{Items: books, NextCursor: ext.NextCursor, HasMore: ext.HasMore}, nil
}

// AllBooks follows cursors until the last page.
func (c *BookstoreClient) AllBooks(ctx context.Context, q BookQuery) ([]domain.BookDetails, error) {
	var all []domain.BookDetails

	for {
		page, err := c.ListBooks(ctx, q)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Items...)

		if !page.HasMore || page.NextCursor == "" {
			return all, nil
		}

		q.Cursor = page.NextCursor
	}
}

// GetInventory fetches the stock level of a book.
func (c *BookstoreClient) GetInventory(ctx context.Context, id domain.ID) (domain.Inventory, error) {
	body, err := c.get(ctx, apiPrefix+"/books/"+id.String()+"/inventory", "get inventory")
	if err != nil {
		return domain.Inventory{}, err
	}

	ext, err := decodeResponse[dto.InventoryResponse](body)
	if err != nil {
		return domain.Inventory{}, err
	}

	return TranslateInventory(*ext)
}

// GetOrder fetches one order.
func (c *BookstoreClient) GetOrder(ctx context.Context, id domain.ID) (domain.Order, error) {
	body, err := c.get(ctx, apiPrefix+"/orders/"+id.String(), "get order")
	if err != nil {
		return domain.Order{}, err
	}

	ext, err := decodeResponse[dto.OrderResponse](body)
	if err != nil {
		return domain.Order{}, err
	}

	return TranslateOrder(*ext)
}

// UpdateOrderStatus moves an order to status and returns the stored order.
func (c *BookstoreClient) UpdateOrderStatus(ctx context.Context, id domain.ID, status domain.OrderStatus) (domain.Order, error) {
	const operation = "update order"

	payload, err := json.Marshal(dto.UpdateOrderRequest{Status: status.String()})
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: encoding request: %w", operation, err)
	}

	resp, err := c.client.Patch(ctx, apiPrefix+"/orders/"+id.String(), bytes.NewReader(payload))

	body, err := c.checkResponse(ctx, resp, err, operation)
	if err != nil {
		return domain.Order{}, err
	}

	ext, err := decodeResponse[dto.OrderResponse](body)
	if err != nil {
		return domain.Order{}, err
	}

	return TranslateOrder(*ext)
}

// Ready runs the remote readiness probe. An unhealthy service is reported
// through Readiness, not as an error.
func (c *BookstoreClient) Ready(ctx context.Context) (*Readiness, error) {
	resp, err := c.client.Get(ctx, "/-/ready")
	if err != nil {
		return nil, MapHTTPError(nil, err, "readiness")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, "readiness")
	}

	return decodeResponse[Readiness](resp.Body)
}

// Name implements ports.HealthChecker.
func (c *BookstoreClient) Name() string {
	return c.client.ServiceName()
}

// Check implements ports.HealthChecker against the liveness probe.
func (c *BookstoreClient) Check(ctx context.Context) error {
	body, err := c.get(ctx, "/-/live", "liveness")
	if err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, body)

	return body.Close()
}

func (c *BookstoreClient) get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := c.client.Get(ctx, path)

	return c.checkResponse(ctx, resp, err, operation)
}

// checkResponse returns the body of a 2xx answer, or the mapped error.
func (c *BookstoreClient) checkResponse(ctx context.Context, resp *http.Response, err error, operation string) (io.ReadCloser, error) {
	if err != nil {
		return nil, MapHTTPError(nil, err, operation)
	}

	c.logger.Log(ctx, logging.LevelTrace, "response received",
		slog.String("operation", operation),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, operation)
	}

	return resp.Body, nil
}
