package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page size bounds used when a handler is configured without its own.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	// ErrInvalidCursor reports a cursor that was not issued by this API.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor marks a first-page request. It is a signal, not a failure.
	ErrNoCursor = errors.New("no cursor provided")
)

// cursorEncoding keeps cursors URL-safe without padding.
var cursorEncoding = base64.RawURLEncoding

// PaginationRequest is the cursor/limit pair of a list query.
type PaginationRequest struct {
	// Cursor is the NextCursor of a previous page, opaque to clients.
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"  validate:"omitempty,gte=1,lte=100"`
}

// GetLimit applies DefaultLimit and MaxLimit.
func (p *PaginationRequest) GetLimit() int {
	return p.LimitWithin(DefaultLimit, MaxLimit)
}

// LimitWithin returns def for an unset limit and caps the rest at maxLimit.
func (p *PaginationRequest) LimitWithin(def, maxLimit int) int {
	switch {
	case p.Limit <= 0:
		return def
	case p.Limit > maxLimit:
		return maxLimit
	default:
		return p.Limit
	}
}

// DecodeCursor decodes the request cursor; ErrNoCursor when absent.
func (p *PaginationRequest) DecodeCursor() (*CursorData, error) {
	return DecodeCursor(p.Cursor)
}

// PaginatedResponse is one page of a listing.
type PaginatedResponse[T any] struct {
	Items []T `json:"items"`

	// NextCursor is empty on the last page.
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// NewPaginatedResponse trims items to limit. Callers fetch limit+1 items so
// that the extra one reveals whether another page exists; the cursor points
// after the last item kept.
func NewPaginatedResponse[T any](items []T, limit int, cursorAt func(T) *CursorData) *PaginatedResponse[T] {
	page := &PaginatedResponse[T]{Items: items, HasMore: len(items) > limit}

	if page.HasMore {
		page.Items = items[:limit]

		if limit > 0 && cursorAt != nil {
			page.NextCursor = EncodeCursor(cursorAt(page.Items[limit-1]))
		}
	}

	if page.Items == nil {
		page.Items = []T{}
	}

	return page
}

// CursorData is a page boundary. Books are listed in identifier order, so
// the last identifier seen is the whole position.
type CursorData struct {
	After string `json:"after"`
}

// NewCursor positions a cursor after the given identifier.
func NewCursor(after string) *CursorData {
	return &CursorData{After: after}
}

// EncodeCursor renders data as an opaque token; nil renders as "".
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return cursorEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token made by EncodeCursor. The identifier inside is
// not checked here; the inbound mapper does that like for any other ID.
func DecodeCursor(token string) (*CursorData, error) {
	if token == "" {
		return nil, ErrNoCursor
	}

	raw, err := cursorEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData
	if err := json.Unmarshal(raw, &data); err != nil || data.After == "" {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}
