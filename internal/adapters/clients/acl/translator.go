package acl

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/mapper"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
)

// Page is one page of a remote listing.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// decodeResponse reads a JSON body into T and closes it.
func decodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, fmt.Errorf("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// TranslateBook converts a remote catalog item. Identifiers and the status
// go through the same codecs as inbound requests, so a misbehaving server
// surfaces as a MappingError.
func TranslateBook(ext dto.BookResponse) (domain.BookDetails, error) {
	id, err := domain.ParseID(ext.ID)
	if err != nil {
		return domain.BookDetails{}, err
	}

	status, err := domain.ParseCatalogStatus(ext.Status)
	if err != nil {
		return domain.BookDetails{}, err
	}

	authors, err := mapper.TranslateSlice(ext.Authors, TranslateAuthor)
	if err != nil {
		return domain.BookDetails{}, fmt.Errorf("authors: %w", err)
	}

	genres, err := mapper.TranslateSlice(ext.Genres, translateGenre)
	if err != nil {
		return domain.BookDetails{}, fmt.Errorf("genres: %w", err)
	}

	codes, err := mapper.TranslateSlice(ext.DiscountCodes, translateDiscountCode)
	if err != nil {
		return domain.BookDetails{}, fmt.Errorf("discount codes: %w", err)
	}

	return domain.BookDetails{
		Book: domain.Book{
			ID:               id,
			Title:            ext.Title,
			ReleaseDate:      ext.ReleaseDate.Time(),
			FirstReleaseDate: ext.FirstReleaseDate.Time(),
			AuthorIDs:        idsOf(authors, func(a domain.Author) domain.ID { return a.ID }),
			GenreIDs:         idsOf(genres, func(g domain.Genre) domain.ID { return g.ID }),
			DiscountCodeIDs:  idsOf(codes, func(d domain.DiscountCode) domain.ID { return d.ID }),
			Edition:          ext.Edition,
			Price:            ext.Price,
			Available:        ext.Available,
			Status:           status,
		},
		Authors:       authors,
		Genres:        genres,
		DiscountCodes: codes,
	}, nil
}

// TranslateAuthor converts a remote author.
func TranslateAuthor(ext dto.AuthorResponse) (domain.Author, error) {
	id, err := domain.ParseID(ext.ID)
	if err != nil {
		return domain.Author{}, err
	}

	var death *time.Time

	if ext.DateOfDeath != nil {
		t := ext.DateOfDeath.Time()
		death = &t
	}

	return domain.Author{
		ID:          id,
		Title:       ext.Title,
		FirstName:   ext.FirstName,
		LastName:    ext.LastName,
		SecondNames: ext.SecondNames,
		DateOfBirth: ext.DateOfBirth.Time(),
		DateOfDeath: death,
	}, nil
}

func translateGenre(ext dto.GenreResponse) (domain.Genre, error) {
	id, err := domain.ParseID(ext.ID)
	if err != nil {
		return domain.Genre{}, err
	}

	return domain.Genre{ID: id, Name: ext.Name}, nil
}

func translateDiscountCode(ext dto.DiscountCodeResponse) (domain.DiscountCode, error) {
	id, err := domain.ParseID(ext.ID)
	if err != nil {
		return domain.DiscountCode{}, err
	}

	return domain.DiscountCode{
		ID:         id,
		Code:       ext.Code,
		Percentage: ext.Percentage,
		ValidFrom:  ext.ValidFrom.Time(),
		ValidTo:    ext.ValidTo.Time(),
	}, nil
}

// TranslateInventory converts a remote stock level.
func TranslateInventory(ext dto.InventoryResponse) (domain.Inventory, error) {
	id, err := domain.ParseID(ext.BookID)
	if err != nil {
		return domain.Inventory{}, err
	}

	status, err := domain.ParseCatalogStatus(ext.Status)
	if err != nil {
		return domain.Inventory{}, err
	}

	return domain.Inventory{BookID: id, Available: ext.Available, Status: status}, nil
}

// TranslateOrder converts a remote order. An absent shipping address means
// the order ships to the billing address.
func TranslateOrder(ext dto.OrderResponse) (domain.Order, error) {
	id, err := domain.ParseID(ext.ID)
	if err != nil {
		return domain.Order{}, err
	}

	customer, err := domain.ParseID(ext.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}

	status, err := domain.ParseOrderStatus(ext.Status)
	if err != nil {
		return domain.Order{}, err
	}

	lines, err := mapper.TranslateSlice(ext.Lines, translateOrderLine)
	if err != nil {
		return domain.Order{}, fmt.Errorf("lines: %w", err)
	}

	billing := toAddress(ext.BillingAddress)
	shipping := billing.Clone()

	if ext.ShippingAddress != nil {
		shipping = toAddress(*ext.ShippingAddress)
	}

	return domain.Order{
		ID:              id,
		CustomerID:      customer,
		Lines:           lines,
		ShippingDate:    ext.ShippingDate.Time(),
		BillingAddress:  billing,
		ShippingAddress: shipping,
		Status:          status,
	}, nil
}

func translateOrderLine(ext dto.OrderLineResponse) (domain.OrderLine, error) {
	id, err := domain.ParseID(ext.ID)
	if err != nil {
		return domain.OrderLine{}, err
	}

	bookID, err := domain.ParseID(ext.BookID)
	if err != nil {
		return domain.OrderLine{}, err
	}

	return domain.OrderLine{ID: id, BookID: bookID, Quantity: ext.Quantity}, nil
}

func toAddress(a dto.Address) domain.Address {
	return domain.Address{
		Street:       a.Street,
		StreetNumber: a.StreetNumber,
		ZipCode:      a.ZipCode,
		City:         a.City,
		Province:     a.Province,
		Country:      a.Country,
	}
}

func idsOf[T any](items []T, id func(T) domain.ID) []domain.ID {
	out := make([]domain.ID, len(items))
	for i, item := range items {
		out[i] = id(item)
	}

	return out
}
