package dto

import "github.com/shopspring/decimal"

// CreateBookRequest is the body of POST /books. Identifiers arrive as raw
// strings and are parsed by the mapper. Any status sent by the client is
// not part of the schema and is dropped during decoding.
type CreateBookRequest struct {
	Title            string          `json:"title"            validate:"required,notempty,max=512"`
	ReleaseDate      Date            `json:"releaseDate"      validate:"required"`
	FirstReleaseDate *Date           `json:"firstReleaseDate"`
	AuthorIDs        []string        `json:"authorIds"        validate:"required,min=1"`
	GenreIDs         []string        `json:"genreIds"`
	DiscountCodeIDs  []string        `json:"discountCodeIds"`
	Edition          *int            `json:"edition"          validate:"omitempty,gte=1"`
	Price            decimal.Decimal `json:"price"            validate:"gte=0"`
	Available        int             `json:"available"`
}

// UpdateBookRequest is the body of PATCH /books/{id}. Absent keys leave the
// field unchanged; genreIds and discountCodeIds may be null to clear them.
type UpdateBookRequest struct {
	Title            *string            `json:"title"            validate:"omitempty,notempty,max=512"`
	ReleaseDate      *Date              `json:"releaseDate"`
	FirstReleaseDate *Date              `json:"firstReleaseDate"`
	AuthorIDs        *[]string          `json:"authorIds"        validate:"omitempty,min=1"`
	GenreIDs         Nullable[[]string] `json:"genreIds"`
	DiscountCodeIDs  Nullable[[]string] `json:"discountCodeIds"`
	Edition          *int               `json:"edition"          validate:"omitempty,gte=1"`
	Price            *decimal.Decimal   `json:"price"            validate:"omitempty,gte=0"`
	Available        *int               `json:"available"`
	Status           *string            `json:"status"`
}

// ListBooksRequest holds the query parameters of GET /books.
type ListBooksRequest struct {
	PaginationRequest

	// Status filters by catalog status; repeat the key to match several.
	Status []string `form:"status"`
}

// BookResponse is a catalog item with its references expanded.
type BookResponse struct {
	ID               string                 `json:"id"`
	Title            string                 `json:"title"`
	ReleaseDate      Date                   `json:"releaseDate"`
	FirstReleaseDate Date                   `json:"firstReleaseDate"`
	Authors          []AuthorResponse       `json:"authors"`
	Genres           []GenreResponse        `json:"genres,omitempty"`
	DiscountCodes    []DiscountCodeResponse `json:"discountCodes,omitempty"`
	Edition          int                    `json:"edition"`
	Price            decimal.Decimal        `json:"price"`
	Available        int                    `json:"available"`
	Status           string                 `json:"status"`
}

// InventoryResponse is the stock view of a catalog item.
type InventoryResponse struct {
	BookID    string `json:"bookId"`
	Available int    `json:"available"`
	Status    string `json:"status"`
}

// CreateAuthorRequest is the body of POST /authors.
type CreateAuthorRequest struct {
	Title       *string  `json:"title"`
	FirstName   string   `json:"firstName"   validate:"required,notempty"`
	LastName    string   `json:"lastName"    validate:"required,notempty"`
	SecondNames []string `json:"secondNames"`
	DateOfBirth Date     `json:"dateOfBirth" validate:"required"`
	DateOfDeath *Date    `json:"dateOfDeath"`
}

// UpdateAuthorRequest is the body of PATCH /authors/{id}. title,
// secondNames and dateOfDeath may be null to clear them.
type UpdateAuthorRequest struct {
	Title       Nullable[string]   `json:"title"`
	FirstName   *string            `json:"firstName"   validate:"omitempty,notempty"`
	LastName    *string            `json:"lastName"    validate:"omitempty,notempty"`
	SecondNames Nullable[[]string] `json:"secondNames"`
	DateOfBirth *Date              `json:"dateOfBirth"`
	DateOfDeath Nullable[Date]     `json:"dateOfDeath"`
}

// AuthorResponse is an author as returned by the API.
type AuthorResponse struct {
	ID          string   `json:"id"`
	Title       *string  `json:"title,omitempty"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	SecondNames []string `json:"secondNames,omitempty"`
	DateOfBirth Date     `json:"dateOfBirth"`
	DateOfDeath *Date    `json:"dateOfDeath,omitempty"`
}

// CreateGenreRequest is the body of POST /genres.
type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,notempty,max=128"`
}

// GenreResponse is a genre as returned by the API.
type GenreResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateDiscountCodeRequest is the body of POST /discount-codes. The wire
// schema accepts any percentage from 0 to 100; the business range is
// narrower and enforced when mapping.
type CreateDiscountCodeRequest struct {
	Code       string `json:"code"       validate:"required,notempty,max=64"`
	Percentage int    `json:"percentage" validate:"gte=0,lte=100"`
	ValidFrom  Date   `json:"validFrom"  validate:"required"`
	ValidTo    Date   `json:"validTo"    validate:"required"`
}

// DiscountCodeResponse is a discount code as returned by the API.
type DiscountCodeResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Percentage int    `json:"percentage"`
	ValidFrom  Date   `json:"validFrom"`
	ValidTo    Date   `json:"validTo"`
}
