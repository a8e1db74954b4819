package mapper

import (
	"slices"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
)

// ToBookResponse renders a catalog item with its authors, genres and
// discount codes expanded.
func ToBookResponse(b *domain.BookDetails) dto.BookResponse {
	resp := dto.BookResponse{
		ID:               b.ID.String(),
		Title:            b.Title,
		ReleaseDate:      dto.NewDate(b.ReleaseDate),
		FirstReleaseDate: dto.NewDate(b.FirstReleaseDate),
		Authors:          projectSlice(b.Authors, ToAuthorResponse),
		Edition:          b.Edition,
		Price:            b.Price,
		Available:        b.Available,
		Status:           b.Status.String(),
	}

	if len(b.Genres) > 0 {
		resp.Genres = projectSlice(b.Genres, ToGenreResponse)
	}

	if len(b.DiscountCodes) > 0 {
		resp.DiscountCodes = projectSlice(b.DiscountCodes, ToDiscountCodeResponse)
	}

	return resp
}

// ToBookResponses renders a page of catalog items.
func ToBookResponses(books []domain.BookDetails) []dto.BookResponse {
	return projectSlice(books, ToBookResponse)
}

// ToAuthorResponse renders an author.
func ToAuthorResponse(a *domain.Author) dto.AuthorResponse {
	return dto.AuthorResponse{
		ID:          a.ID.String(),
		Title:       clonePtr(a.Title),
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		SecondNames: slices.Clone(a.SecondNames),
		DateOfBirth: dto.NewDate(a.DateOfBirth),
		DateOfDeath: dto.NewDatePtr(a.DateOfDeath),
	}
}

// ToGenreResponse renders a genre.
func ToGenreResponse(g *domain.Genre) dto.GenreResponse {
	return dto.GenreResponse{ID: g.ID.String(), Name: g.Name}
}

// ToGenreResponses renders a list of genres.
func ToGenreResponses(genres []domain.Genre) []dto.GenreResponse {
	return projectSlice(genres, ToGenreResponse)
}

// ToDiscountCodeResponse renders a discount code.
func ToDiscountCodeResponse(d *domain.DiscountCode) dto.DiscountCodeResponse {
	return dto.DiscountCodeResponse{
		ID:         d.ID.String(),
		Code:       d.Code,
		Percentage: d.Percentage,
		ValidFrom:  dto.NewDate(d.ValidFrom),
		ValidTo:    dto.NewDate(d.ValidTo),
	}
}

// ToInventoryResponse renders the stock view of a catalog item.
func ToInventoryResponse(inv domain.Inventory) dto.InventoryResponse {
	return dto.InventoryResponse{
		BookID:    inv.BookID.String(),
		Available: inv.Available,
		Status:    inv.Status.String(),
	}
}

// ToOrderResponse renders an order. The shipping address is emitted only
// when it currently differs from the billing address.
func ToOrderResponse(o *domain.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:             o.ID.String(),
		CustomerID:     o.CustomerID.String(),
		Lines:          projectSlice(o.Lines, toOrderLineResponse),
		ShippingDate:   dto.NewDate(o.ShippingDate),
		BillingAddress: fromAddress(&o.BillingAddress),
		Status:         o.Status.String(),
	}

	if !o.ShipsToBillingAddress() {
		shipping := fromAddress(&o.ShippingAddress)
		resp.ShippingAddress = &shipping
	}

	return resp
}

func toOrderLineResponse(l *domain.OrderLine) dto.OrderLineResponse {
	return dto.OrderLineResponse{
		ID:       l.ID.String(),
		BookID:   l.BookID.String(),
		Quantity: l.Quantity,
	}
}

func fromAddress(a *domain.Address) dto.Address {
	return dto.Address{
		Street:       a.Street,
		StreetNumber: a.StreetNumber,
		ZipCode:      a.ZipCode,
		City:         a.City,
		Province:     clonePtr(a.Province),
		Country:      a.Country,
	}
}
