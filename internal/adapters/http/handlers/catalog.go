package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/mapper"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
	"github.com/jsamuelsen/bookstore-service/internal/ports"
)

// CatalogHandler serves books, authors, genres and discount codes.
type CatalogHandler struct {
	service     ports.CatalogService
	in          *mapper.Inbound
	pageSize    int
	maxPageSize int
}

// CatalogHandlerConfig contains the dependencies of CatalogHandler.
type CatalogHandlerConfig struct {
	Service ports.CatalogService
	Mapper  *mapper.Inbound

	// DefaultPageSize and MaxPageSize bound book listings. Zero selects
	// dto.DefaultLimit and dto.MaxLimit.
	DefaultPageSize int
	MaxPageSize     int
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(cfg CatalogHandlerConfig) *CatalogHandler {
	h := &CatalogHandler{
		service:     cfg.Service,
		in:          cfg.Mapper,
		pageSize:    cfg.DefaultPageSize,
		maxPageSize: cfg.MaxPageSize,
	}

	if h.pageSize <= 0 {
		h.pageSize = dto.DefaultLimit
	}

	if h.maxPageSize <= 0 {
		h.maxPageSize = dto.MaxLimit
	}

	return h
}

// CreateBook handles POST /api/v1/books.
//
// @Summary Add a book to the catalog
// @Description New books always start in status available
// @Tags books
// @Accept json
// @Produce json
// @Param book body dto.CreateBookRequest true "Book"
// @Success 201 {object} dto.BookResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/books [post]
func (h *CatalogHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	book, err := h.in.NewBook(&req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	details, err := h.service.CreateBook(c.Request.Context(), book)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Location", c.FullPath()+"/"+details.ID.String())
	c.JSON(http.StatusCreated, mapper.ToBookResponse(details))
}

// ListBooks handles GET /api/v1/books.
//
// @Summary List books
// @Tags books
// @Produce json
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size"
// @Param status query []string false "Catalog status filter"
// @Success 200 {object} dto.PaginatedResponse[dto.BookResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/books [get]
func (h *CatalogHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	statuses, err := h.in.CatalogStatusFilter(req.Status)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	after, err := h.cursorPosition(&req.PaginationRequest)
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "invalid cursor", nil)
		return
	}

	limit := req.LimitWithin(h.pageSize, h.maxPageSize)

	books, err := h.service.ListBooks(c.Request.Context(), ports.BookQuery{
		After:    after,
		Limit:    limit + 1,
		Statuses: statuses,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(mapper.ToBookResponses(books), limit,
		func(b dto.BookResponse) *dto.CursorData { return dto.NewCursor(b.ID) },
	))
}

func (h *CatalogHandler) cursorPosition(p *dto.PaginationRequest) (domain.ID, error) {
	cursor, err := p.DecodeCursor()
	if errors.Is(err, dto.ErrNoCursor) {
		return domain.NilID, nil
	}

	if err != nil {
		return domain.NilID, err
	}

	return h.in.ID(cursor.After)
}

// GetBook handles GET /api/v1/books/:id.
func (h *CatalogHandler) GetBook(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	details, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToBookResponse(details))
}

// UpdateBook handles PATCH /api/v1/books/:id. Absent fields are left
// unchanged; genreIds and discountCodeIds may be null to clear them.
func (h *CatalogHandler) UpdateBook(c *gin.Context) {
	if _, ok := h.pathID(c); !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	update, err := h.in.BookUpdate(c.Param("id"), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	details, err := h.service.UpdateBook(c.Request.Context(), update)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToBookResponse(details))
}

// DeleteBook handles DELETE /api/v1/books/:id.
func (h *CatalogHandler) DeleteBook(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetInventory handles GET /api/v1/books/:id/inventory.
func (h *CatalogHandler) GetInventory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	inv, err := h.service.GetInventory(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToInventoryResponse(*inv))
}

// CreateAuthor handles POST /api/v1/authors.
func (h *CatalogHandler) CreateAuthor(c *gin.Context) {
	var req dto.CreateAuthorRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	author, err := h.service.CreateAuthor(c.Request.Context(), h.in.NewAuthor(&req))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Location", c.FullPath()+"/"+author.ID.String())
	c.JSON(http.StatusCreated, mapper.ToAuthorResponse(author))
}

// GetAuthor handles GET /api/v1/authors/:id.
func (h *CatalogHandler) GetAuthor(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	author, err := h.service.GetAuthor(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToAuthorResponse(author))
}

// UpdateAuthor handles PATCH /api/v1/authors/:id.
func (h *CatalogHandler) UpdateAuthor(c *gin.Context) {
	if _, ok := h.pathID(c); !ok {
		return
	}

	var req dto.UpdateAuthorRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	update, err := h.in.AuthorUpdate(c.Param("id"), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	author, err := h.service.UpdateAuthor(c.Request.Context(), update)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToAuthorResponse(author))
}

// CreateGenre handles POST /api/v1/genres.
func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	var req dto.CreateGenreRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	genre, err := h.service.CreateGenre(c.Request.Context(), h.in.NewGenre(&req))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToGenreResponse(genre))
}

// ListGenres handles GET /api/v1/genres.
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	genres, err := h.service.ListGenres(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": mapper.ToGenreResponses(genres)})
}

// CreateDiscountCode handles POST /api/v1/discount-codes.
//
// @Summary Create a discount code
// @Description Percentages outside [1, 80] are rejected
// @Tags discount-codes
// @Accept json
// @Produce json
// @Param code body dto.CreateDiscountCodeRequest true "Discount code"
// @Success 201 {object} dto.DiscountCodeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/discount-codes [post]
func (h *CatalogHandler) CreateDiscountCode(c *gin.Context) {
	var req dto.CreateDiscountCodeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	code, err := h.in.NewDiscountCode(&req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	created, err := h.service.CreateDiscountCode(c.Request.Context(), code)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Location", c.FullPath()+"/"+created.ID.String())
	c.JSON(http.StatusCreated, mapper.ToDiscountCodeResponse(created))
}

// GetDiscountCode handles GET /api/v1/discount-codes/:id.
func (h *CatalogHandler) GetDiscountCode(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	code, err := h.service.GetDiscountCode(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToDiscountCodeResponse(code))
}

// pathID parses the :id parameter, answering 400 when it is malformed.
func (h *CatalogHandler) pathID(c *gin.Context) (domain.ID, bool) {
	return parsePathID(c, h.in)
}

func parsePathID(c *gin.Context, in *mapper.Inbound) (domain.ID, bool) {
	id, err := in.ID(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return domain.NilID, false
	}

	return id, true
}

// RegisterCatalogRoutes registers the catalog routes on rg.
func (h *CatalogHandler) RegisterCatalogRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	books.POST("", h.CreateBook)
	books.GET("", h.ListBooks)
	books.GET("/:id", h.GetBook)
	books.PATCH("/:id", h.UpdateBook)
	books.DELETE("/:id", h.DeleteBook)
	books.GET("/:id/inventory", h.GetInventory)

	authors := rg.Group("/authors")
	authors.POST("", h.CreateAuthor)
	authors.GET("/:id", h.GetAuthor)
	authors.PATCH("/:id", h.UpdateAuthor)

	genres := rg.Group("/genres")
	genres.POST("", h.CreateGenre)
	genres.GET("", h.ListGenres)

	codes := rg.Group("/discount-codes")
	codes.POST("", h.CreateDiscountCode)
	codes.GET("/:id", h.GetDiscountCode)
}
