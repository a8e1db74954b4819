package dto

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/bookstore-service/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	got := NewErrorResponseWithDetails(ErrorCodeValidation, "validation failed", map[string]string{
		"title": "this field is required",
	}).WithTraceID("trace-1")

	assert.Equal(t, &ErrorResponse{
		Error: ErrorDetail{
			Code:    ErrorCodeValidation,
			Message: "validation failed",
			Details: map[string]string{"title": "this field is required"},
		},
		TraceID: "trace-1",
	}, got)
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found", ErrorCodeNotFound, http.StatusNotFound},
		{"conflict", ErrorCodeConflict, http.StatusConflict},
		{"validation error", ErrorCodeValidation, http.StatusBadRequest},
		{"bad request", ErrorCodeBadRequest, http.StatusBadRequest},
		{"payload too large", ErrorCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"rate limited", ErrorCodeRateLimited, http.StatusTooManyRequests},
		{"timeout", ErrorCodeTimeout, http.StatusGatewayTimeout},
		{"internal error", ErrorCodeInternal, http.StatusInternalServerError},
		{"unknown code defaults to internal error", "UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestMapDomainError(t *testing.T) {
	bookID := domain.MustParseID("2ZgWqzDVq0ZuSvCuNQwJjblFbnZ")

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantDetails map[string]string
	}{
		{
			name:       "not found",
			err:        domain.NewNotFoundError("book", bookID),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrorCodeNotFound,
		},
		{
			name:       "conflict",
			err:        domain.NewConflictError("discount code", "code already exists"),
			wantStatus: http.StatusConflict,
			wantCode:   ErrorCodeConflict,
		},
		{
			name:        "invalid identifier",
			err:         &domain.InvalidIdentifierError{Raw: "x", Cause: domain.ErrIDLength},
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantDetails: map[string]string{DetailID: `invalid identifier "x": identifier must be 27 characters`},
		},
		{
			name:        "invalid enum",
			err:         &domain.InvalidEnumValueError{Domain: domain.EnumDomainCatalogStatus, Raw: "gone"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantDetails: map[string]string{DetailStatus: `invalid catalog_status value "gone"`},
		},
		{
			name:        "availability",
			err:         fmt.Errorf("mapping book: %w", &domain.AvailabilityOutOfBoundsError{Value: -2}),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantDetails: map[string]string{DetailAvailable: "available count -2 must be at least 0"},
		},
		{
			name:        "percentage",
			err:         &domain.DiscountPercentageOutOfBoundsError{Value: 0},
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantDetails: map[string]string{DetailPercentage: "discount percentage 0 must be between 1 and 80"},
		},
		{
			name:        "quantity",
			err:         &domain.OrderQuantityOutOfBoundsError{Value: 0},
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantDetails: map[string]string{DetailQuantity: "order quantity 0 must be at least 1"},
		},
		{
			name:       "bare validation sentinel",
			err:        domain.ErrValidation,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidation,
		},
		{
			name:       "unknown error",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
		})
	}

	t.Run("internal errors do not leak", func(t *testing.T) {
		_, resp := MapDomainError(errors.New("password=hunter2"))
		assert.NotContains(t, resp.Error.Message, "hunter2")
	})

	t.Run("nil error", func(t *testing.T) {
		status, resp := MapDomainError(nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, resp)
	})
}

func TestGetTraceID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, GetTraceID(c))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	c.Request = c.Request.WithContext(trace.ContextWithSpanContext(context.Background(), sc))

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(c))
}

func TestHandleError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, &domain.OrderQuantityOutOfBoundsError{Value: 0})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, ErrorCodeValidation, response.Error.Code)
	assert.Contains(t, response.Error.Details, DetailQuantity)
}

func TestHandleBindingError(t *testing.T) {
	type payload struct {
		Title string `json:"title" validate:"required"`
	}

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed json", `{"title":`, ErrorCodeBadRequest},
		{"schema violation", `{}`, ErrorCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var p payload
			err := BindAndValidate(c, &p)
			require.Error(t, err)

			HandleBindingError(c, err)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantCode, response.Error.Code)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLimitWithin(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"unset uses default", 0, 10},
		{"negative uses default", -5, 10},
		{"within range", 25, 25},
		{"capped", 500, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PaginationRequest{Limit: tt.limit}
			assert.Equal(t, tt.want, p.LimitWithin(10, 50))
		})
	}

	assert.Equal(t, DefaultLimit, (&PaginationRequest{}).GetLimit())
}

func TestCursorRoundTrip(t *testing.T) {
	encoded := EncodeCursor(NewCursor("2ZgWqzDVq0ZuSvCuNQwJjblFbnZ"))
	require.NotEmpty(t, encoded)

	p := PaginationRequest{Cursor: encoded}
	got, err := p.DecodeCursor()
	require.NoError(t, err)
	assert.Equal(t, "2ZgWqzDVq0ZuSvCuNQwJjblFbnZ", got.After)

	assert.Empty(t, EncodeCursor(nil))
}

func TestDecodeCursor_Errors(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{"empty", "", ErrNoCursor},
		{"not base64", "!!!", ErrInvalidCursor},
		{"not json", base64.RawURLEncoding.EncodeToString([]byte("nope")), ErrInvalidCursor},
		{"missing position", base64.RawURLEncoding.EncodeToString([]byte(`{}`)), ErrInvalidCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.encoded)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	ids := []string{"a", "b", "c"}
	builder := func(s string) *CursorData { return NewCursor(s) }

	t.Run("more pages", func(t *testing.T) {
		resp := NewPaginatedResponse(ids, 2, builder)

		assert.Equal(t, []string{"a", "b"}, resp.Items)
		assert.True(t, resp.HasMore)

		cursor, err := DecodeCursor(resp.NextCursor)
		require.NoError(t, err)
		assert.Equal(t, "b", cursor.After)
	})

	t.Run("last page", func(t *testing.T) {
		resp := NewPaginatedResponse(ids, 5, builder)

		assert.Len(t, resp.Items, 3)
		assert.False(t, resp.HasMore)
		assert.Empty(t, resp.NextCursor)
	})

	t.Run("empty page is an empty array", func(t *testing.T) {
		resp := NewPaginatedResponse[string](nil, 5, builder)

		body, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[],"hasMore":false}`, string(body))
	})
}

func TestValidator_Singleton(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}

func validBookRequest() CreateBookRequest {
	return CreateBookRequest{
		Title:       "Dune",
		ReleaseDate: NewDate(time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC)),
		AuthorIDs:   []string{"2ZgWqzDVq0ZuSvCuNQwJjblFbnZ"},
		Price:       decimal.RequireFromString("12.50"),
	}
}

func TestValidate_CreateBookRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateBookRequest)
		wantKey string
	}{
		{"valid", func(*CreateBookRequest) {}, ""},
		{"blank title", func(r *CreateBookRequest) { r.Title = "   " }, "title"},
		{"missing release date", func(r *CreateBookRequest) { r.ReleaseDate = Date{} }, "releaseDate"},
		{"no authors", func(r *CreateBookRequest) { r.AuthorIDs = nil }, "authorIds"},
		{"negative price", func(r *CreateBookRequest) { r.Price = decimal.RequireFromString("-0.01") }, "price"},
		{"zero edition", func(r *CreateBookRequest) { r.Edition = new(int) }, "edition"},
		{"negative available is left to the mapper", func(r *CreateBookRequest) { r.Available = -1 }, ""},
		{"malformed author id is left to the mapper", func(r *CreateBookRequest) { r.AuthorIDs = []string{"x"} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBookRequest()
			tt.mutate(&req)

			err := Validate(&req)
			if tt.wantKey == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, ValidationErrors(err), tt.wantKey)
		})
	}
}

func TestValidate_CreateDiscountCodeRequest(t *testing.T) {
	day := NewDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		percentage int
		wantErr    bool
	}{
		{percentage: 0},
		{percentage: 95},
		{percentage: 100},
		{percentage: -1, wantErr: true},
		{percentage: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.percentage), func(t *testing.T) {
			err := Validate(&CreateDiscountCodeRequest{
				Code: "SPRING", Percentage: tt.percentage, ValidFrom: day, ValidTo: day,
			})

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, ValidationErrors(err), "percentage")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidate_CreateOrderRequestNestedPaths(t *testing.T) {
	req := CreateOrderRequest{
		CustomerID:   "2ZgWqzDVq0ZuSvCuNQwJjblFbnZ",
		Lines:        []OrderLineRequest{{BookID: "2ZgWqzDVq0ZuSvCuNQwJjblFbnZ", Quantity: 1}},
		ShippingDate: NewDate(time.Now()),
		BillingAddress: Address{
			Street: "Via Roma", StreetNumber: "1", ZipCode: "10121", City: "Torino", Country: "IT",
		},
		ShippingAddress: &Address{Street: "Via Po"},
	}

	err := Validate(&req)
	require.Error(t, err)

	details := ValidationErrors(err)
	assert.Contains(t, details, "shippingAddress.city")
	assert.NotContains(t, details, "billingAddress.city")

	req.ShippingAddress = nil
	require.NoError(t, Validate(&req))

	req.Lines = nil
	err = Validate(&req)
	require.Error(t, err)
	assert.Contains(t, ValidationErrors(err), "lines")
}

func TestBindQueryAndValidate_ListBooks(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/books?limit=5&status=available&status=RE_ORDERED", nil)

	var req ListBooksRequest
	require.NoError(t, BindQueryAndValidate(c, &req))

	assert.Equal(t, 5, req.Limit)
	assert.Equal(t, []string{"available", "RE_ORDERED"}, req.Status)

	c.Request = httptest.NewRequest(http.MethodGet, "/books?limit=1000", nil)
	require.ErrorIs(t, BindQueryAndValidate(c, &ListBooksRequest{}), ErrValidation)
}

func TestValidationMessage(t *testing.T) {
	type testStruct struct {
		Name  string   `json:"name"  validate:"required"`
		Tags  []string `json:"tags"  validate:"min=2"`
		Code  string   `json:"code"  validate:"max=2"`
		Count int      `json:"count" validate:"lte=3"`
	}

	err := Validate(&testStruct{Tags: []string{"a"}, Code: "abc", Count: 4})
	require.Error(t, err)

	got := ValidationErrors(err)
	assert.Equal(t, "this field is required", got["name"])
	assert.Equal(t, "must be at least 2 items", got["tags"])
	assert.Equal(t, "must be at most 2 characters", got["code"])
	assert.Equal(t, "must be less than or equal to 3", got["count"])
}

func TestValidationErrors_NonValidationError(t *testing.T) {
	assert.Empty(t, ValidationErrors(errors.New("some error")))
	assert.False(t, IsValidationError(errors.New("some error")))
	assert.False(t, IsValidationError(nil))
}

func TestDate_JSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"1965-08-01"`), &d))
	assert.Equal(t, time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC), d.Time())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"1965-08-01"`, string(out))

	require.Error(t, json.Unmarshal([]byte(`"01/08/1965"`), &d))
	require.Error(t, json.Unmarshal([]byte(`19650801`), &d))

	assert.Nil(t, NewDatePtr(nil))
	assert.True(t, Date{}.IsZero())
}

func TestNullable_States(t *testing.T) {
	type patch struct {
		GenreIDs Nullable[[]string] `json:"genreIds"`
	}

	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantNull  bool
		wantValue []string
	}{
		{"absent", `{}`, false, false, nil},
		{"null", `{"genreIds":null}`, true, true, nil},
		{"empty list", `{"genreIds":[]}`, true, false, []string{}},
		{"value", `{"genreIds":["a"]}`, true, false, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			assert.Equal(t, tt.wantSet, p.GenreIDs.Set)
			assert.Equal(t, tt.wantNull, p.GenreIDs.Null)
			assert.Equal(t, tt.wantValue, p.GenreIDs.Value)
		})
	}

	assert.Equal(t, Nullable[int]{Value: 3, Set: true}, Some(3))
	assert.Equal(t, Nullable[int]{Set: true, Null: true}, Null[int]())
}

func TestCreateBookRequest_IgnoresStatus(t *testing.T) {
	var req CreateBookRequest
	body := `{"title":"Dune","releaseDate":"1965-08-01","authorIds":["x"],"price":"1.00","status":"out_of_stock"}`

	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, "Dune", req.Title)
	assert.True(t, req.Price.Equal(decimal.RequireFromString("1")))
}
