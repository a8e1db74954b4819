// Package app contains the application services behind the HTTP adapter.
//
// The services are stubs: they answer from a hard-coded fixture catalog,
// echo created entities back without storing them and apply patches to a
// copy of the fixture. Inputs arrive already validated by the inbound
// mapper; failures here are domain errors (not found, conflict).
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jsamuelsen/bookstore-service/internal/domain"
	"github.com/jsamuelsen/bookstore-service/internal/ports"
)

// expandConcurrency bounds the goroutines resolving a page of books.
const expandConcurrency = 8

var errNoFixtures = errors.New("fixture catalog is empty")

// CatalogService implements ports.CatalogService over Fixtures.
type CatalogService struct {
	fixtures *Fixtures
	logger   *slog.Logger
}

// CatalogServiceConfig contains the dependencies of the catalog service.
type CatalogServiceConfig struct {
	// Fixtures defaults to DefaultFixtures().
	Fixtures *Fixtures
	Logger   *slog.Logger
}

var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a catalog service.
func NewCatalogService(cfg CatalogServiceConfig) *CatalogService {
	fixtures := cfg.Fixtures
	if fixtures == nil {
		fixtures = DefaultFixtures()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CatalogService{
		fixtures: fixtures,
		logger:   logger.With(slog.String("component", "app.CatalogService")),
	}
}

// Name implements ports.HealthChecker.
func (s *CatalogService) Name() string {
	return "catalog-service"
}

// Check implements ports.HealthChecker.
func (s *CatalogService) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(s.fixtures.Books) == 0 {
		return errNoFixtures
	}

	return nil
}

// CreateBook echoes book back with its references resolved. Every
// referenced author, genre and discount code must exist.
func (s *CatalogService) CreateBook(ctx context.Context, book domain.Book) (*domain.BookDetails, error) {
	details, err := s.expand(ctx, book)
	if err != nil {
		s.logger.WarnContext(ctx, "rejected book", slog.String("book_id", book.ID.String()), slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "created book",
		slog.String("book_id", book.ID.String()),
		slog.String("title", book.Title),
	)

	return details, nil
}

// GetBook returns a catalog item with its references resolved.
func (s *CatalogService) GetBook(ctx context.Context, id domain.ID) (*domain.BookDetails, error) {
	book, err := s.book(id)
	if err != nil {
		return nil, err
	}

	return s.expand(ctx, book)
}

// ListBooks returns up to query.Limit books after query.After in
// identifier order.
func (s *CatalogService) ListBooks(ctx context.Context, query ports.BookQuery) ([]domain.BookDetails, error) {
	page := make([]domain.Book, 0, query.Limit)

	for _, book := range s.fixtures.SortedBooks() {
		if len(page) == query.Limit {
			break
		}

		if book.ID.Compare(query.After) <= 0 || !query.Matches(book.Status) {
			continue
		}

		page = append(page, book)
	}

	expanded, err := ParallelMap(ctx, expandConcurrency, page, func(ctx context.Context, b domain.Book) (domain.BookDetails, error) {
		details, err := s.expand(ctx, b)
		if err != nil {
			return domain.BookDetails{}, err
		}

		return *details, nil
	})
	if err != nil {
		return nil, fmt.Errorf("expanding books: %w", err)
	}

	s.logger.DebugContext(ctx, "listed books", slog.Int("count", len(expanded)))

	return expanded, nil
}

// UpdateBook applies update to the stored book and returns the result.
func (s *CatalogService) UpdateBook(ctx context.Context, update domain.BookUpdate) (*domain.BookDetails, error) {
	book, err := s.book(update.ID)
	if err != nil {
		return nil, err
	}

	details, err := s.expand(ctx, book.Apply(update))
	if err != nil {
		s.logger.WarnContext(ctx, "rejected book update", slog.String("book_id", update.ID.String()), slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "updated book", slog.String("book_id", update.ID.String()))

	return details, nil
}

// DeleteBook succeeds for any known book.
func (s *CatalogService) DeleteBook(ctx context.Context, id domain.ID) error {
	if _, err := s.book(id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "deleted book", slog.String("book_id", id.String()))

	return nil
}

// GetInventory returns the stock view of a book.
func (s *CatalogService) GetInventory(_ context.Context, id domain.ID) (*domain.Inventory, error) {
	book, err := s.book(id)
	if err != nil {
		return nil, err
	}

	inv := book.Inventory()

	return &inv, nil
}

// CreateAuthor echoes author back.
func (s *CatalogService) CreateAuthor(ctx context.Context, author domain.Author) (*domain.Author, error) {
	s.logger.InfoContext(ctx, "created author", slog.String("author_id", author.ID.String()))
	return &author, nil
}

// GetAuthor returns an author.
func (s *CatalogService) GetAuthor(_ context.Context, id domain.ID) (*domain.Author, error) {
	author, ok := s.fixtures.Authors[id]
	if !ok {
		return nil, domain.NewNotFoundError("author", id)
	}

	author.SecondNames = slices.Clone(author.SecondNames)

	return &author, nil
}

// UpdateAuthor applies update to the stored author and returns the result.
func (s *CatalogService) UpdateAuthor(ctx context.Context, update domain.AuthorUpdate) (*domain.Author, error) {
	author, ok := s.fixtures.Authors[update.ID]
	if !ok {
		return nil, domain.NewNotFoundError("author", update.ID)
	}

	updated := author.Apply(update)

	s.logger.InfoContext(ctx, "updated author", slog.String("author_id", update.ID.String()))

	return &updated, nil
}

// CreateGenre echoes genre back.
func (s *CatalogService) CreateGenre(ctx context.Context, genre domain.Genre) (*domain.Genre, error) {
	s.logger.InfoContext(ctx, "created genre", slog.String("genre_id", genre.ID.String()))
	return &genre, nil
}

// ListGenres returns every genre ordered by name.
func (s *CatalogService) ListGenres(context.Context) ([]domain.Genre, error) {
	genres := make([]domain.Genre, 0, len(s.fixtures.Genres))
	for _, g := range s.fixtures.Genres {
		genres = append(genres, g)
	}

	slices.SortFunc(genres, func(a, b domain.Genre) int { return strings.Compare(a.Name, b.Name) })

	return genres, nil
}

// CreateDiscountCode echoes code back unless its code is already taken.
// Codes compare case-insensitively.
func (s *CatalogService) CreateDiscountCode(ctx context.Context, code domain.DiscountCode) (*domain.DiscountCode, error) {
	for _, existing := range s.fixtures.DiscountCodes {
		if strings.EqualFold(existing.Code, code.Code) {
			err := domain.NewConflictError("discount code", fmt.Sprintf("code %q already exists", existing.Code))
			s.logger.WarnContext(ctx, "rejected discount code", slog.String("code", code.Code), slog.Any("error", err))

			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "created discount code",
		slog.String("discount_code_id", code.ID.String()),
		slog.Int("percentage", code.Percentage),
	)

	return &code, nil
}

// GetDiscountCode returns a discount code.
func (s *CatalogService) GetDiscountCode(_ context.Context, id domain.ID) (*domain.DiscountCode, error) {
	code, ok := s.fixtures.DiscountCodes[id]
	if !ok {
		return nil, domain.NewNotFoundError("discount code", id)
	}

	return &code, nil
}

func (s *CatalogService) book(id domain.ID) (domain.Book, error) {
	book, ok := s.fixtures.Books[id]
	if !ok {
		return domain.Book{}, domain.NewNotFoundError("book", id)
	}

	book.AuthorIDs = slices.Clone(book.AuthorIDs)
	book.GenreIDs = slices.Clone(book.GenreIDs)
	book.DiscountCodeIDs = slices.Clone(book.DiscountCodeIDs)

	return book, nil
}

// expand resolves the references of book. The three lists are resolved
// concurrently; the first unknown reference fails the whole expansion.
func (s *CatalogService) expand(ctx context.Context, book domain.Book) (*domain.BookDetails, error) {
	authors, genres, discounts, err := Parallel3(ctx,
		func(context.Context) ([]domain.Author, error) {
			return resolve(book.AuthorIDs, s.fixtures.Authors, "author")
		},
		func(context.Context) ([]domain.Genre, error) {
			return resolve(book.GenreIDs, s.fixtures.Genres, "genre")
		},
		func(context.Context) ([]domain.DiscountCode, error) {
			return resolve(book.DiscountCodeIDs, s.fixtures.DiscountCodes, "discount code")
		},
	)
	if err != nil {
		return nil, err
	}

	return &domain.BookDetails{
		Book:          book,
		Authors:       authors,
		Genres:        genres,
		DiscountCodes: discounts,
	}, nil
}

func resolve[T any](refs []domain.ID, from map[domain.ID]T, entity string) ([]T, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	out := make([]T, 0, len(refs))

	for _, id := range refs {
		item, ok := from[id]
		if !ok {
			return nil, domain.NewNotFoundError(entity, id)
		}

		out = append(out, item)
	}

	return out, nil
}
