package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultEdition is assigned to new catalog items that do not name one.
const DefaultEdition = 1

// Book is a catalog item. Authors, genres and discount codes are referenced
// by ID and only expanded in query results (see BookDetails).
type Book struct {
	ID               ID
	Title            string
	ReleaseDate      time.Time
	FirstReleaseDate time.Time
	AuthorIDs        []ID
	GenreIDs         []ID
	DiscountCodeIDs  []ID
	Edition          int
	Price            decimal.Decimal
	Available        int
	Status           CatalogStatus
}

// BookDetails is a Book with its references resolved.
type BookDetails struct {
	Book
	Authors       []Author
	Genres        []Genre
	DiscountCodes []DiscountCode
}

// Inventory is the stock view of a catalog item.
type Inventory struct {
	BookID    ID
	Available int
	Status    CatalogStatus
}

// Inventory projects the stock fields of b.
func (b *Book) Inventory() Inventory {
	return Inventory{BookID: b.ID, Available: b.Available, Status: b.Status}
}

// BookUpdate carries the fields of a catalog item being changed.
// A present nil GenreIDs or DiscountCodeIDs clears the list.
type BookUpdate struct {
	ID               ID
	Title            Optional[string]
	ReleaseDate      Optional[time.Time]
	FirstReleaseDate Optional[time.Time]
	AuthorIDs        Optional[[]ID]
	GenreIDs         Optional[[]ID]
	DiscountCodeIDs  Optional[[]ID]
	Edition          Optional[int]
	Price            Optional[decimal.Decimal]
	Available        Optional[int]
	Status           Optional[CatalogStatus]
}

// Apply returns a copy of b with the present fields of u written over it.
func (b Book) Apply(u BookUpdate) Book {
	u.Title.applyTo(&b.Title)
	u.ReleaseDate.applyTo(&b.ReleaseDate)
	u.FirstReleaseDate.applyTo(&b.FirstReleaseDate)
	u.AuthorIDs.applyTo(&b.AuthorIDs)
	u.GenreIDs.applyTo(&b.GenreIDs)
	u.DiscountCodeIDs.applyTo(&b.DiscountCodeIDs)
	u.Edition.applyTo(&b.Edition)
	u.Price.applyTo(&b.Price)
	u.Available.applyTo(&b.Available)
	u.Status.applyTo(&b.Status)

	b.AuthorIDs = slices.Clone(b.AuthorIDs)
	b.GenreIDs = slices.Clone(b.GenreIDs)
	b.DiscountCodeIDs = slices.Clone(b.DiscountCodeIDs)

	return b
}

// Author writes catalog items. Names and dates are stored as given.
type Author struct {
	ID          ID
	Title       *string
	FirstName   string
	LastName    string
	SecondNames []string
	DateOfBirth time.Time
	DateOfDeath *time.Time
}

// AuthorUpdate carries the fields of an author being changed.
// A present nil Title, SecondNames or DateOfDeath clears the field.
type AuthorUpdate struct {
	ID          ID
	Title       Optional[*string]
	FirstName   Optional[string]
	LastName    Optional[string]
	SecondNames Optional[[]string]
	DateOfBirth Optional[time.Time]
	DateOfDeath Optional[*time.Time]
}

// Apply returns a copy of a with the present fields of u written over it.
func (a Author) Apply(u AuthorUpdate) Author {
	u.Title.applyTo(&a.Title)
	u.FirstName.applyTo(&a.FirstName)
	u.LastName.applyTo(&a.LastName)
	u.SecondNames.applyTo(&a.SecondNames)
	u.DateOfBirth.applyTo(&a.DateOfBirth)
	u.DateOfDeath.applyTo(&a.DateOfDeath)

	a.SecondNames = slices.Clone(a.SecondNames)

	return a
}

// Genre classifies catalog items.
type Genre struct {
	ID   ID
	Name string
}

// DiscountCode grants a percentage off while it is valid.
type DiscountCode struct {
	ID         ID
	Percentage int
	ValidFrom  time.Time
	ValidTo    time.Time
	Code       string
}
