// Package ports defines the contracts between the HTTP adapter and the
// application layer.
//
// Port design:
//   - Context as first parameter
//   - Arguments and results are domain types, already validated by the
//     inbound mapper
//   - Errors are domain errors (ErrNotFound, ErrConflict); mapping errors
//     never cross a port
package ports

import (
	"context"

	"github.com/jsamuelsen/bookstore-service/internal/domain"
)

// BookQuery selects a page of catalog items ordered by identifier.
type BookQuery struct {
	// After is the exclusive lower bound; NilID starts at the beginning.
	After domain.ID

	// Limit is the maximum number of items to return. Callers ask for one
	// more than the page size to learn whether another page exists.
	Limit int

	// Statuses keeps only items in one of these statuses. Empty matches all.
	Statuses []domain.CatalogStatus
}

// Matches reports whether status passes the filter.
func (q *BookQuery) Matches(status domain.CatalogStatus) bool {
	if len(q.Statuses) == 0 {
		return true
	}

	for _, s := range q.Statuses {
		if s == status {
			return true
		}
	}

	return false
}

// CatalogService manages catalog items and the entities they reference.
//
// Lookups of unknown identifiers return a *domain.NotFoundError. Creating a
// discount code whose code is already taken returns a *domain.ConflictError.
type CatalogService interface {
	CreateBook(ctx context.Context, book domain.Book) (*domain.BookDetails, error)
	GetBook(ctx context.Context, id domain.ID) (*domain.BookDetails, error)
	ListBooks(ctx context.Context, query BookQuery) ([]domain.BookDetails, error)
	UpdateBook(ctx context.Context, update domain.BookUpdate) (*domain.BookDetails, error)
	DeleteBook(ctx context.Context, id domain.ID) error
	GetInventory(ctx context.Context, id domain.ID) (*domain.Inventory, error)

	CreateAuthor(ctx context.Context, author domain.Author) (*domain.Author, error)
	GetAuthor(ctx context.Context, id domain.ID) (*domain.Author, error)
	UpdateAuthor(ctx context.Context, update domain.AuthorUpdate) (*domain.Author, error)

	CreateGenre(ctx context.Context, genre domain.Genre) (*domain.Genre, error)
	ListGenres(ctx context.Context) ([]domain.Genre, error)

	CreateDiscountCode(ctx context.Context, code domain.DiscountCode) (*domain.DiscountCode, error)
	GetDiscountCode(ctx context.Context, id domain.ID) (*domain.DiscountCode, error)
}

// OrderService manages customer orders. Any status may follow any other.
type OrderService interface {
	PlaceOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, id domain.ID) (*domain.Order, error)
	UpdateOrder(ctx context.Context, update domain.OrderUpdate) (*domain.Order, error)
}
