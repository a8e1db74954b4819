package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
	"github.com/jsamuelsen/bookstore-service/internal/ports"
)

func testBook(id domain.ID) *domain.BookDetails {
	release := time.Date(1965, time.August, 1, 0, 0, 0, 0, time.UTC)

	return &domain.BookDetails{
		Book: domain.Book{
			ID:               id,
			Title:            "Dune",
			ReleaseDate:      release,
			FirstReleaseDate: release,
			AuthorIDs:        []domain.ID{domain.MustParseID(authorID)},
			Edition:          1,
			Price:            decimal.RequireFromString("9.99"),
			Available:        3,
			Status:           domain.CatalogStatusAvailable,
		},
		Authors: []domain.Author{{
			ID:        domain.MustParseID(authorID),
			FirstName: "Frank",
			LastName:  "Herbert",
		}},
	}
}

func createBookBody() map[string]any {
	return map[string]any{
		"title":       "Dune",
		"releaseDate": "1965-08-01",
		"authorIds":   []string{authorID},
		"price":       "9.99",
		"available":   3,
	}
}

func TestCatalogHandler_CreateBook(t *testing.T) {
	api := newTestAPI(t)
	newID := api.ids.NewID()

	api.catalog.On("CreateBook", mock.Anything, mock.MatchedBy(func(b domain.Book) bool {
		return b.ID == newID && b.Status == domain.CatalogStatusAvailable && b.Edition == 1
	})).Return(testBook(newID), nil)

	w := api.do(t, http.MethodPost, "/api/v1/books", createBookBody())

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/api/v1/books/"+newID.String(), w.Header().Get("Location"))

	resp := decode[dto.BookResponse](t, w)
	assert.Equal(t, newID.String(), resp.ID)
	assert.Equal(t, "available", resp.Status)
	require.Len(t, resp.Authors, 1)
	assert.Equal(t, "Herbert", resp.Authors[0].LastName)
}

func TestCatalogHandler_CreateBookIgnoresStatus(t *testing.T) {
	api := newTestAPI(t)
	newID := api.ids.NewID()

	api.catalog.On("CreateBook", mock.Anything, mock.MatchedBy(func(b domain.Book) bool {
		return b.Status == domain.CatalogStatusAvailable && b.Available == 0
	})).Return(testBook(newID), nil)

	body := createBookBody()
	body["status"] = "out_of_stock"
	body["available"] = 0

	w := api.do(t, http.MethodPost, "/api/v1/books", body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "available", decode[dto.BookResponse](t, w).Status)
	api.catalog.AssertExpectations(t)
}

func TestCatalogHandler_CreateBookRejected(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(map[string]any)
		body       string
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{
			name:       "malformed json",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeBadRequest,
		},
		{
			name:       "missing title",
			mutate:     func(b map[string]any) { delete(b, "title") },
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeValidation,
			wantDetail: "title",
		},
		{
			name:       "malformed author id",
			mutate:     func(b map[string]any) { b["authorIds"] = []string{"nope"} },
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeValidation,
			wantDetail: dto.DetailID,
		},
		{
			name:       "negative availability",
			mutate:     func(b map[string]any) { b["available"] = -1 },
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeValidation,
			wantDetail: dto.DetailAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			var body any = tt.body
			if tt.mutate != nil {
				b := createBookBody()
				tt.mutate(b)
				body = b
			}

			w := api.do(t, http.MethodPost, "/api/v1/books", body)

			assert.Equal(t, tt.wantStatus, w.Code)

			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)

			if tt.wantDetail != "" {
				assert.Contains(t, resp.Error.Details, tt.wantDetail)
			}

			api.catalog.AssertNotCalled(t, "CreateBook", mock.Anything, mock.Anything)
		})
	}
}

func TestCatalogHandler_CreateBookUnknownAuthor(t *testing.T) {
	api := newTestAPI(t)

	api.catalog.On("CreateBook", mock.Anything, mock.Anything).
		Return(nil, domain.NewNotFoundError("author", domain.MustParseID(authorID)))

	w := api.do(t, http.MethodPost, "/api/v1/books", createBookBody())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeNotFound, decodeError(t, w).Error.Code)
}

func TestCatalogHandler_GetBook(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(*testAPI)
		wantStatus int
	}{
		{
			name: "found",
			path: bookID,
			setup: func(a *testAPI) {
				a.catalog.On("GetBook", mock.Anything, domain.MustParseID(bookID)).
					Return(testBook(domain.MustParseID(bookID)), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not found",
			path: bookID,
			setup: func(a *testAPI) {
				a.catalog.On("GetBook", mock.Anything, domain.MustParseID(bookID)).
					Return(nil, domain.NewNotFoundError("book", domain.MustParseID(bookID)))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed id",
			path:       "short",
			setup:      func(*testAPI) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "internal error",
			path: bookID,
			setup: func(a *testAPI) {
				a.catalog.On("GetBook", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			tt.setup(api)

			w := api.do(t, http.MethodGet, "/api/v1/books/"+tt.path, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCatalogHandler_ListBooks(t *testing.T) {
	ids := []domain.ID{
		domain.MustParseID(authorID),
		domain.MustParseID(bookID),
		domain.MustParseID(custID),
	}

	api := newTestAPI(t)
	api.catalog.On("ListBooks", mock.Anything, ports.BookQuery{
		Limit:    3,
		Statuses: []domain.CatalogStatus{domain.CatalogStatusAvailable},
	}).Return([]domain.BookDetails{*testBook(ids[0]), *testBook(ids[1]), *testBook(ids[2])}, nil)

	w := api.do(t, http.MethodGet, "/api/v1/books?status=available", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	page := decode[dto.PaginatedResponse[dto.BookResponse]](t, w)
	require.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)

	cursor, err := dto.DecodeCursor(page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, ids[1].String(), cursor.After)
}

func TestCatalogHandler_ListBooksCursor(t *testing.T) {
	api := newTestAPI(t)
	api.catalog.On("ListBooks", mock.Anything, ports.BookQuery{
		After: domain.MustParseID(bookID),
		Limit: 6,
	}).Return([]domain.BookDetails{}, nil)

	cursor := dto.EncodeCursor(dto.NewCursor(bookID))
	w := api.do(t, http.MethodGet, "/api/v1/books?limit=5&cursor="+cursor, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	page := decode[dto.PaginatedResponse[dto.BookResponse]](t, w)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
}

func TestCatalogHandler_ListBooksRejected(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{name: "unknown status", query: "status=lost", wantCode: dto.ErrorCodeValidation},
		{name: "limit too large", query: "limit=500", wantCode: dto.ErrorCodeValidation},
		{name: "garbage cursor", query: "cursor=!!!", wantCode: dto.ErrorCodeBadRequest},
		{name: "cursor with bad id", query: "cursor=" + dto.EncodeCursor(dto.NewCursor("x")), wantCode: dto.ErrorCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			w := api.do(t, http.MethodGet, "/api/v1/books?"+tt.query, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Error.Code)
		})
	}
}

func TestCatalogHandler_UpdateBook(t *testing.T) {
	api := newTestAPI(t)
	id := domain.MustParseID(bookID)

	api.catalog.On("UpdateBook", mock.Anything, mock.MatchedBy(func(u domain.BookUpdate) bool {
		genres, genresSet := u.GenreIDs.Get()

		return u.ID == id &&
			u.Status == domain.Some(domain.CatalogStatusOutOfStock) &&
			genresSet && genres == nil &&
			!u.Title.IsSet()
	})).Return(testBook(id), nil)

	w := api.do(t, http.MethodPatch, "/api/v1/books/"+bookID, `{"status":"out_of_stock","genreIds":null}`)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestCatalogHandler_UpdateBookBadStatus(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPatch, "/api/v1/books/"+bookID, `{"status":"sold"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Details, dto.DetailStatus)
}

func TestPatchHandlers_TargetIDCheckedBeforeBody(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "book schema error", path: "/api/v1/books/nope", body: `{"title":""}`},
		{name: "book malformed body", path: "/api/v1/books/nope", body: `{"title":`},
		{name: "author schema error", path: "/api/v1/authors/nope", body: `{"firstName":" "}`},
		{name: "order malformed body", path: "/api/v1/orders/nope", body: `{"status":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			w := api.do(t, http.MethodPatch, tt.path, tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)

			errResp := decodeError(t, w)
			assert.Equal(t, dto.ErrorCodeValidation, errResp.Error.Code)
			assert.Contains(t, errResp.Error.Details, dto.DetailID)
		})
	}
}

func TestCatalogHandler_DeleteBook(t *testing.T) {
	api := newTestAPI(t)
	api.catalog.On("DeleteBook", mock.Anything, domain.MustParseID(bookID)).Return(nil)

	w := api.do(t, http.MethodDelete, "/api/v1/books/"+bookID, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCatalogHandler_GetInventory(t *testing.T) {
	api := newTestAPI(t)
	id := domain.MustParseID(bookID)

	api.catalog.On("GetInventory", mock.Anything, id).Return(&domain.Inventory{
		BookID:    id,
		Available: 0,
		Status:    domain.CatalogStatusReOrdered,
	}, nil)

	w := api.do(t, http.MethodGet, "/api/v1/books/"+bookID+"/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.InventoryResponse](t, w)
	assert.Equal(t, dto.InventoryResponse{BookID: bookID, Available: 0, Status: "re_ordered"}, resp)
}

func TestCatalogHandler_Authors(t *testing.T) {
	api := newTestAPI(t)
	newID := api.ids.NewID()
	dob := time.Date(1920, time.October, 8, 0, 0, 0, 0, time.UTC)

	author := &domain.Author{ID: newID, FirstName: "Frank", LastName: "Herbert", DateOfBirth: dob}
	api.catalog.On("CreateAuthor", mock.Anything, *author).Return(author, nil)

	w := api.do(t, http.MethodPost, "/api/v1/authors", map[string]any{
		"firstName":   "Frank",
		"lastName":    "Herbert",
		"dateOfBirth": "1920-10-08",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/api/v1/authors/"+newID.String(), w.Header().Get("Location"))

	api.catalog.On("UpdateAuthor", mock.Anything, mock.MatchedBy(func(u domain.AuthorUpdate) bool {
		died, ok := u.DateOfDeath.Get()
		return u.ID == newID && ok && died != nil
	})).Return(author, nil)

	w = api.do(t, http.MethodPatch, "/api/v1/authors/"+newID.String(), `{"dateOfDeath":"1986-02-11"}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	api.catalog.On("GetAuthor", mock.Anything, newID).Return(author, nil)

	w = api.do(t, http.MethodGet, "/api/v1/authors/"+newID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Frank", decode[dto.AuthorResponse](t, w).FirstName)
}

func TestCatalogHandler_Genres(t *testing.T) {
	api := newTestAPI(t)
	newID := api.ids.NewID()

	genre := &domain.Genre{ID: newID, Name: "Science Fiction"}
	api.catalog.On("CreateGenre", mock.Anything, *genre).Return(genre, nil)
	api.catalog.On("ListGenres", mock.Anything).Return([]domain.Genre{*genre}, nil)

	w := api.do(t, http.MethodPost, "/api/v1/genres", map[string]any{"name": "Science Fiction"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/v1/genres", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Items []dto.GenreResponse `json:"items"`
	}](t, w)
	assert.Equal(t, []dto.GenreResponse{{ID: newID.String(), Name: "Science Fiction"}}, resp.Items)
}

func TestCatalogHandler_CreateDiscountCode(t *testing.T) {
	body := func(pct int) map[string]any {
		return map[string]any{
			"code":       "SPRING15",
			"percentage": pct,
			"validFrom":  "2026-03-01",
			"validTo":    "2026-05-31",
		}
	}

	t.Run("created", func(t *testing.T) {
		api := newTestAPI(t)
		newID := api.ids.NewID()

		api.catalog.On("CreateDiscountCode", mock.Anything, mock.MatchedBy(func(d domain.DiscountCode) bool {
			return d.ID == newID && d.Percentage == 15
		})).Return(&domain.DiscountCode{ID: newID, Code: "SPRING15", Percentage: 15}, nil)

		w := api.do(t, http.MethodPost, "/api/v1/discount-codes", body(15))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, 15, decode[dto.DiscountCodeResponse](t, w).Percentage)
	})

	t.Run("percentage out of bounds", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/discount-codes", body(90))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Error.Details, dto.DetailPercentage)
	})

	t.Run("duplicate code", func(t *testing.T) {
		api := newTestAPI(t)
		api.catalog.On("CreateDiscountCode", mock.Anything, mock.Anything).
			Return(nil, domain.NewConflictError("discount code", "code already exists"))

		w := api.do(t, http.MethodPost, "/api/v1/discount-codes", body(15))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrorCodeConflict, decodeError(t, w).Error.Code)
	})
}

func TestCatalogHandler_GetDiscountCode(t *testing.T) {
	api := newTestAPI(t)
	id := domain.MustParseID(bookID)

	api.catalog.On("GetDiscountCode", mock.Anything, id).
		Return(&domain.DiscountCode{ID: id, Code: "WELCOME10", Percentage: 10}, nil)

	w := api.do(t, http.MethodGet, "/api/v1/discount-codes/"+bookID, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "WELCOME10", decode[dto.DiscountCodeResponse](t, w).Code)
}

func TestNewCatalogHandler_PageDefaults(t *testing.T) {
	h := NewCatalogHandler(CatalogHandlerConfig{})

	assert.Equal(t, dto.DefaultLimit, h.pageSize)
	assert.Equal(t, dto.MaxLimit, h.maxPageSize)
}
