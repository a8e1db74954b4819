package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/bookstore-service/internal/domain"
	"github.com/jsamuelsen/bookstore-service/internal/ports"
)

// OrderService implements ports.OrderService over Fixtures. Orders are not
// stored; status changes are applied to a copy and returned.
type OrderService struct {
	fixtures *Fixtures
	logger   *slog.Logger
}

// OrderServiceConfig contains the dependencies of the order service.
type OrderServiceConfig struct {
	// Fixtures defaults to DefaultFixtures().
	Fixtures *Fixtures
	Logger   *slog.Logger
}

var _ ports.OrderService = (*OrderService)(nil)

// NewOrderService creates an order service.
func NewOrderService(cfg OrderServiceConfig) *OrderService {
	fixtures := cfg.Fixtures
	if fixtures == nil {
		fixtures = DefaultFixtures()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OrderService{
		fixtures: fixtures,
		logger:   logger.With(slog.String("component", "app.OrderService")),
	}
}

// Name implements ports.HealthChecker.
func (s *OrderService) Name() string {
	return "order-service"
}

// Check implements ports.HealthChecker.
func (s *OrderService) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(s.fixtures.Books) == 0 {
		return errNoFixtures
	}

	return nil
}

// PlaceOrder echoes order back once every line references a known book.
func (s *OrderService) PlaceOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	for _, line := range order.Lines {
		if _, ok := s.fixtures.Books[line.BookID]; !ok {
			err := domain.NewNotFoundError("book", line.BookID)
			s.logger.WarnContext(ctx, "rejected order", slog.String("order_id", order.ID.String()), slog.Any("error", err))

			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "placed order",
		slog.String("order_id", order.ID.String()),
		slog.String("customer_id", order.CustomerID.String()),
		slog.Int("lines", len(order.Lines)),
		slog.Bool("ships_to_billing", order.ShipsToBillingAddress()),
	)

	return &order, nil
}

// GetOrder returns an order.
func (s *OrderService) GetOrder(_ context.Context, id domain.ID) (*domain.Order, error) {
	order, ok := s.fixtures.Orders[id]
	if !ok {
		return nil, domain.NewNotFoundError("order", id)
	}

	order = order.Apply(domain.OrderUpdate{ID: id, Status: order.Status})

	return &order, nil
}

// UpdateOrder applies a status change. Any status may follow any other.
func (s *OrderService) UpdateOrder(ctx context.Context, update domain.OrderUpdate) (*domain.Order, error) {
	order, ok := s.fixtures.Orders[update.ID]
	if !ok {
		return nil, domain.NewNotFoundError("order", update.ID)
	}

	updated := order.Apply(update)

	s.logger.InfoContext(ctx, "updated order",
		slog.String("order_id", update.ID.String()),
		slog.String("from", order.Status.String()),
		slog.String("to", updated.Status.String()),
	)

	return &updated, nil
}
