package app

import (
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/bookstore-service/internal/domain"
)

// Identifiers of the built-in catalog. They are stable so clients and tests
// can address fixture entities directly.
const (
	FixtureAuthorHerbert = "2Zh4tDdO9eGzMcNU77sVTUUJ596"
	FixtureAuthorLeGuin  = "2Zh6UeP3C4DSA7Lc360a9Y6yNd1"
	FixtureAuthorCalvino = "2ZhCpFqPlpECXVMk11oHUGCiczM"

	FixtureGenreScienceFiction = "2ZhKLiMcVbpT4r5yHUig43kiJfa"
	FixtureGenreFantasy        = "2ZhKy9Pf34qY6Nb3wWD25RQ4F5Z"
	FixtureGenreLiterary       = "2ZhMpf5rg7wOojmCUuBRoeL5pyk"

	FixtureDiscountWelcome = "2ZhPPwtV5ASPZHu8qRtZHjQMhuO"
	FixtureDiscountSummer  = "2ZhPTPly5kAA819bvTpf9dqcUgx"

	FixtureBookDune            = "2ZhR3qa7yEeeby3abP3E2Zs8IQ9"
	FixtureBookLeftHand        = "2ZhSIc47WQAmL9xVQ2zg4mZaouq"
	FixtureBookEarthsea        = "2ZhSpxkMzN5E6EUCLDUdvdr0Uwf"
	FixtureBookInvisibleCities = "2ZhY7aJZqhB6baeCN6Zj4a3dDVh"

	FixtureCustomer = "2ZhYRnKTbxTNJFoBinF5aJXVuLk"

	FixtureOrderHome = "2ZhhqSIjOugM1yTMAd7V3DnI8lF"
	FixtureOrderGift = "2ZhlLlGUriAX1DyyXN9iYw1mXJf"
)

// Fixtures is the hard-coded data set the stub services answer from. It is
// never mutated after construction.
type Fixtures struct {
	Books         map[domain.ID]domain.Book
	Authors       map[domain.ID]domain.Author
	Genres        map[domain.ID]domain.Genre
	DiscountCodes map[domain.ID]domain.DiscountCode
	Orders        map[domain.ID]domain.Order
}

// SortedBooks returns the books in identifier order.
func (f *Fixtures) SortedBooks() []domain.Book {
	return slices.SortedFunc(maps.Values(f.Books), func(a, b domain.Book) int {
		return a.ID.Compare(b.ID)
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ids(raw ...string) []domain.ID {
	out := make([]domain.ID, 0, len(raw))
	for _, s := range raw {
		out = append(out, domain.MustParseID(s))
	}

	return out
}

// DefaultFixtures builds a fresh copy of the built-in catalog.
func DefaultFixtures() *Fixtures {
	ms := "Ms."
	died := day(2018, time.January, 22)
	calvinoDied := day(1985, time.September, 19)
	herbertDied := day(1986, time.February, 11)
	province := "TO"

	authors := []domain.Author{
		{
			ID:          domain.MustParseID(FixtureAuthorHerbert),
			FirstName:   "Frank",
			LastName:    "Herbert",
			SecondNames: []string{"Patrick"},
			DateOfBirth: day(1920, time.October, 8),
			DateOfDeath: &herbertDied,
		},
		{
			ID:          domain.MustParseID(FixtureAuthorLeGuin),
			Title:       &ms,
			FirstName:   "Ursula",
			LastName:    "Le Guin",
			SecondNames: []string{"Kroeber"},
			DateOfBirth: day(1929, time.October, 21),
			DateOfDeath: &died,
		},
		{
			ID:          domain.MustParseID(FixtureAuthorCalvino),
			FirstName:   "Italo",
			LastName:    "Calvino",
			DateOfBirth: day(1923, time.October, 15),
			DateOfDeath: &calvinoDied,
		},
	}

	genres := []domain.Genre{
		{ID: domain.MustParseID(FixtureGenreScienceFiction), Name: "Science Fiction"},
		{ID: domain.MustParseID(FixtureGenreFantasy), Name: "Fantasy"},
		{ID: domain.MustParseID(FixtureGenreLiterary), Name: "Literary Fiction"},
	}

	discounts := []domain.DiscountCode{
		{
			ID:         domain.MustParseID(FixtureDiscountWelcome),
			Code:       "WELCOME10",
			Percentage: 10,
			ValidFrom:  day(2026, time.January, 1),
			ValidTo:    day(2026, time.December, 31),
		},
		{
			ID:         domain.MustParseID(FixtureDiscountSummer),
			Code:       "SUMMER25",
			Percentage: 25,
			ValidFrom:  day(2026, time.June, 1),
			ValidTo:    day(2026, time.August, 31),
		},
	}

	books := []domain.Book{
		{
			ID:               domain.MustParseID(FixtureBookDune),
			Title:            "Dune",
			ReleaseDate:      day(1965, time.August, 1),
			FirstReleaseDate: day(1965, time.August, 1),
			AuthorIDs:        ids(FixtureAuthorHerbert),
			GenreIDs:         ids(FixtureGenreScienceFiction),
			DiscountCodeIDs:  ids(FixtureDiscountWelcome),
			Edition:          3,
			Price:            decimal.RequireFromString("12.99"),
			Available:        12,
			Status:           domain.CatalogStatusAvailable,
		},
		{
			ID:               domain.MustParseID(FixtureBookLeftHand),
			Title:            "The Left Hand of Darkness",
			ReleaseDate:      day(1969, time.March, 1),
			FirstReleaseDate: day(1969, time.March, 1),
			AuthorIDs:        ids(FixtureAuthorLeGuin),
			GenreIDs:         ids(FixtureGenreScienceFiction),
			Edition:          1,
			Price:            decimal.RequireFromString("10.50"),
			Available:        0,
			Status:           domain.CatalogStatusOutOfStock,
		},
		{
			ID:               domain.MustParseID(FixtureBookEarthsea),
			Title:            "A Wizard of Earthsea",
			ReleaseDate:      day(2012, time.September, 11),
			FirstReleaseDate: day(1968, time.November, 1),
			AuthorIDs:        ids(FixtureAuthorLeGuin),
			GenreIDs:         ids(FixtureGenreFantasy),
			DiscountCodeIDs:  ids(FixtureDiscountSummer),
			Edition:          2,
			Price:            decimal.RequireFromString("8.99"),
			Available:        3,
			Status:           domain.CatalogStatusAvailable,
		},
		{
			ID:               domain.MustParseID(FixtureBookInvisibleCities),
			Title:            "Invisible Cities",
			ReleaseDate:      day(1972, time.November, 1),
			FirstReleaseDate: day(1972, time.November, 1),
			AuthorIDs:        ids(FixtureAuthorCalvino),
			GenreIDs:         ids(FixtureGenreLiterary),
			Edition:          1,
			Price:            decimal.RequireFromString("14.00"),
			Available:        0,
			Status:           domain.CatalogStatusReOrdered,
		},
	}

	home := domain.Address{
		Street:       "Via Roma",
		StreetNumber: "12",
		ZipCode:      "10121",
		City:         "Torino",
		Province:     &province,
		Country:      "IT",
	}

	gift := domain.Address{
		Street:       "Rue de Rivoli",
		StreetNumber: "99",
		ZipCode:      "75001",
		City:         "Paris",
		Country:      "FR",
	}

	orders := []domain.Order{
		{
			ID:         domain.MustParseID(FixtureOrderHome),
			CustomerID: domain.MustParseID(FixtureCustomer),
			Lines: []domain.OrderLine{
				{ID: domain.MustParseID("2Zht5isGXNwAMnEYYnWLeEdpoms"), BookID: domain.MustParseID(FixtureBookDune), Quantity: 1},
				{ID: domain.MustParseID("2Zhy8isWydfhl3TvtnythpZPPPP"), BookID: domain.MustParseID(FixtureBookEarthsea), Quantity: 2},
			},
			ShippingDate:    day(2026, time.October, 16),
			BillingAddress:  home,
			ShippingAddress: home.Clone(),
			Status:          domain.OrderStatusShipped,
		},
		{
			ID:         domain.MustParseID(FixtureOrderGift),
			CustomerID: domain.MustParseID(FixtureCustomer),
			Lines: []domain.OrderLine{
				{ID: domain.MustParseID("2ZhzE95B9EgE0VrbBGI09QYNdaK"), BookID: domain.MustParseID(FixtureBookInvisibleCities), Quantity: 1},
			},
			ShippingDate:    day(2026, time.November, 2),
			BillingAddress:  home.Clone(),
			ShippingAddress: gift,
			Status:          domain.OrderStatusPlaced,
		},
	}

	return &Fixtures{
		Books:         index(books, func(b domain.Book) domain.ID { return b.ID }),
		Authors:       index(authors, func(a domain.Author) domain.ID { return a.ID }),
		Genres:        index(genres, func(g domain.Genre) domain.ID { return g.ID }),
		DiscountCodes: index(discounts, func(d domain.DiscountCode) domain.ID { return d.ID }),
		Orders:        index(orders, func(o domain.Order) domain.ID { return o.ID }),
	}
}

func index[T any](items []T, key func(T) domain.ID) map[domain.ID]T {
	m := make(map[domain.ID]T, len(items))
	for _, item := range items {
		m[key(item)] = item
	}

	return m
}
