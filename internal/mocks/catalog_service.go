package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/bookstore-service/internal/domain"
	"github.com/jsamuelsen/bookstore-service/internal/ports"
)

// MockCatalogService is a mock implementation of ports.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

var _ ports.CatalogService = (*MockCatalogService)(nil)

// NewMockCatalogService creates a mock whose expectations are asserted when
// the test ends.
func NewMockCatalogService(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockCatalogService {
	m := &MockCatalogService{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// result extracts a typed pointer result that may be nil.
func result[T any](args mock.Arguments, i int) *T {
	v, _ := args.Get(i).(*T)
	return v
}

func (m *MockCatalogService) CreateBook(ctx context.Context, book domain.Book) (*domain.BookDetails, error) {
	args := m.Called(ctx, book)
	return result[domain.BookDetails](args, 0), args.Error(1)
}

func (m *MockCatalogService) GetBook(ctx context.Context, id domain.ID) (*domain.BookDetails, error) {
	args := m.Called(ctx, id)
	return result[domain.BookDetails](args, 0), args.Error(1)
}

func (m *MockCatalogService) ListBooks(ctx context.Context, query ports.BookQuery) ([]domain.BookDetails, error) {
	args := m.Called(ctx, query)
	books, _ := args.Get(0).([]domain.BookDetails)

	return books, args.Error(1)
}

func (m *MockCatalogService) UpdateBook(ctx context.Context, update domain.BookUpdate) (*domain.BookDetails, error) {
	args := m.Called(ctx, update)
	return result[domain.BookDetails](args, 0), args.Error(1)
}

func (m *MockCatalogService) DeleteBook(ctx context.Context, id domain.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) GetInventory(ctx context.Context, id domain.ID) (*domain.Inventory, error) {
	args := m.Called(ctx, id)
	return result[domain.Inventory](args, 0), args.Error(1)
}

func (m *MockCatalogService) CreateAuthor(ctx context.Context, author domain.Author) (*domain.Author, error) {
	args := m.Called(ctx, author)
	return result[domain.Author](args, 0), args.Error(1)
}

func (m *MockCatalogService) GetAuthor(ctx context.Context, id domain.ID) (*domain.Author, error) {
	args := m.Called(ctx, id)
	return result[domain.Author](args, 0), args.Error(1)
}

func (m *MockCatalogService) UpdateAuthor(ctx context.Context, update domain.AuthorUpdate) (*domain.Author, error) {
	args := m.Called(ctx, update)
	return result[domain.Author](args, 0), args.Error(1)
}

func (m *MockCatalogService) CreateGenre(ctx context.Context, genre domain.Genre) (*domain.Genre, error) {
	args := m.Called(ctx, genre)
	return result[domain.Genre](args, 0), args.Error(1)
}

func (m *MockCatalogService) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	args := m.Called(ctx)
	genres, _ := args.Get(0).([]domain.Genre)

	return genres, args.Error(1)
}

func (m *MockCatalogService) CreateDiscountCode(ctx context.Context, code domain.DiscountCode) (*domain.DiscountCode, error) {
	args := m.Called(ctx, code)
	return result[domain.DiscountCode](args, 0), args.Error(1)
}

func (m *MockCatalogService) GetDiscountCode(ctx context.Context, id domain.ID) (*domain.DiscountCode, error) {
	args := m.Called(ctx, id)
	return result[domain.DiscountCode](args, 0), args.Error(1)
}
