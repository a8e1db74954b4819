package mapper

import (
	"slices"
	"time"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
)

// Inbound converts request payloads into domain values. It is safe for
// concurrent use as long as its IDGenerator is.
type Inbound struct {
	ids domain.IDGenerator
}

// NewInbound creates an Inbound mapper drawing new identifiers from ids.
func NewInbound(ids domain.IDGenerator) *Inbound {
	return &Inbound{ids: ids}
}

// ID parses an identifier taken from a path parameter.
func (m *Inbound) ID(raw string) (domain.ID, error) {
	return domain.ParseID(raw)
}

// CatalogStatusFilter parses the status query filter of a book listing.
func (m *Inbound) CatalogStatusFilter(raw []string) ([]domain.CatalogStatus, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	return domain.ParseCatalogStatuses(raw)
}

// NewBook maps a creation request to a catalog item. The item is always
// created available; edition defaults to 1 and the first release date to
// the release date.
func (m *Inbound) NewBook(req *dto.CreateBookRequest) (domain.Book, error) {
	authors, err := parseIDList(req.AuthorIDs)
	if err != nil {
		return domain.Book{}, err
	}

	genres, err := parseIDList(req.GenreIDs)
	if err != nil {
		return domain.Book{}, err
	}

	discounts, err := parseIDList(req.DiscountCodeIDs)
	if err != nil {
		return domain.Book{}, err
	}

	if err := checkAvailable(req.Available); err != nil {
		return domain.Book{}, err
	}

	edition := domain.DefaultEdition
	if req.Edition != nil {
		edition = *req.Edition
	}

	release := req.ReleaseDate.Time()

	firstRelease := release
	if req.FirstReleaseDate != nil {
		firstRelease = req.FirstReleaseDate.Time()
	}

	return domain.Book{
		ID:               m.ids.NewID(),
		Title:            req.Title,
		ReleaseDate:      release,
		FirstReleaseDate: firstRelease,
		AuthorIDs:        authors,
		GenreIDs:         genres,
		DiscountCodeIDs:  discounts,
		Edition:          edition,
		Price:            req.Price,
		Available:        req.Available,
		Status:           domain.CatalogStatusAvailable,
	}, nil
}

// BookUpdate maps a patch of the catalog item identified by rawID. Each
// present field is validated in declaration order.
func (m *Inbound) BookUpdate(rawID string, req *dto.UpdateBookRequest) (domain.BookUpdate, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return domain.BookUpdate{}, err
	}

	update := domain.BookUpdate{
		ID:               id,
		Title:            optional(req.Title),
		ReleaseDate:      optionalDate(req.ReleaseDate),
		FirstReleaseDate: optionalDate(req.FirstReleaseDate),
		Edition:          optional(req.Edition),
		Price:            optional(req.Price),
	}

	if req.AuthorIDs != nil {
		authors, err := parseIDList(*req.AuthorIDs)
		if err != nil {
			return domain.BookUpdate{}, err
		}

		update.AuthorIDs = domain.Some(authors)
	}

	if update.GenreIDs, err = nullableIDs(req.GenreIDs); err != nil {
		return domain.BookUpdate{}, err
	}

	if update.DiscountCodeIDs, err = nullableIDs(req.DiscountCodeIDs); err != nil {
		return domain.BookUpdate{}, err
	}

	if req.Available != nil {
		if err := checkAvailable(*req.Available); err != nil {
			return domain.BookUpdate{}, err
		}

		update.Available = domain.Some(*req.Available)
	}

	if req.Status != nil {
		status, err := domain.ParseCatalogStatus(*req.Status)
		if err != nil {
			return domain.BookUpdate{}, err
		}

		update.Status = domain.Some(status)
	}

	return update, nil
}

// NewAuthor maps a creation request to an author. Names and dates pass
// through unchecked.
func (m *Inbound) NewAuthor(req *dto.CreateAuthorRequest) domain.Author {
	return domain.Author{
		ID:          m.ids.NewID(),
		Title:       clonePtr(req.Title),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		SecondNames: slices.Clone(req.SecondNames),
		DateOfBirth: req.DateOfBirth.Time(),
		DateOfDeath: datePtr(req.DateOfDeath),
	}
}

// AuthorUpdate maps a patch of the author identified by rawID. Only the
// identifier is checked.
func (m *Inbound) AuthorUpdate(rawID string, req *dto.UpdateAuthorRequest) (domain.AuthorUpdate, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return domain.AuthorUpdate{}, err
	}

	update := domain.AuthorUpdate{
		ID:          id,
		FirstName:   optional(req.FirstName),
		LastName:    optional(req.LastName),
		DateOfBirth: optionalDate(req.DateOfBirth),
	}

	if req.Title.Set {
		var title *string
		if !req.Title.Null {
			v := req.Title.Value
			title = &v
		}

		update.Title = domain.Some(title)
	}

	if req.SecondNames.Set {
		update.SecondNames = domain.Some(slices.Clone(req.SecondNames.Value))
	}

	if req.DateOfDeath.Set {
		var died *time.Time
		if !req.DateOfDeath.Null {
			t := req.DateOfDeath.Value.Time()
			died = &t
		}

		update.DateOfDeath = domain.Some(died)
	}

	return update, nil
}

// NewGenre maps a creation request to a genre.
func (m *Inbound) NewGenre(req *dto.CreateGenreRequest) domain.Genre {
	return domain.Genre{ID: m.ids.NewID(), Name: req.Name}
}

// NewDiscountCode maps a creation request to a discount code. The
// percentage must lie within [1, 80].
func (m *Inbound) NewDiscountCode(req *dto.CreateDiscountCodeRequest) (domain.DiscountCode, error) {
	if req.Percentage < domain.MinDiscountPercentage || req.Percentage > domain.MaxDiscountPercentage {
		return domain.DiscountCode{}, &domain.DiscountPercentageOutOfBoundsError{Value: req.Percentage}
	}

	return domain.DiscountCode{
		ID:         m.ids.NewID(),
		Percentage: req.Percentage,
		ValidFrom:  req.ValidFrom.Time(),
		ValidTo:    req.ValidTo.Time(),
		Code:       req.Code,
	}, nil
}

func checkAvailable(n int) error {
	if n < domain.MinAvailable {
		return &domain.AvailabilityOutOfBoundsError{Value: n}
	}

	return nil
}

// nullableIDs maps a clearable id list: absent stays absent, null clears.
func nullableIDs(n dto.Nullable[[]string]) (domain.Optional[[]domain.ID], error) {
	if !n.Set {
		return domain.None[[]domain.ID](), nil
	}

	if n.Null {
		return domain.Some[[]domain.ID](nil), nil
	}

	ids, err := TranslateSlice(n.Value, domain.ParseID)
	if err != nil {
		return domain.None[[]domain.ID](), err
	}

	if ids == nil {
		ids = []domain.ID{}
	}

	return domain.Some(ids), nil
}

func optionalDate(d *dto.Date) domain.Optional[time.Time] {
	if d == nil {
		return domain.None[time.Time]()
	}

	return domain.Some(d.Time())
}

func datePtr(d *dto.Date) *time.Time {
	if d == nil {
		return nil
	}

	t := d.Time()

	return &t
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
