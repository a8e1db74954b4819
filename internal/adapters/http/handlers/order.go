package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/mapper"
	"github.com/jsamuelsen/bookstore-service/internal/ports"
)

// OrderHandler serves customer orders.
type OrderHandler struct {
	service ports.OrderService
	in      *mapper.Inbound
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(service ports.OrderService, in *mapper.Inbound) *OrderHandler {
	return &OrderHandler{service: service, in: in}
}

// PlaceOrder handles POST /api/v1/orders.
//
// @Summary Place an order
// @Description Without shippingAddress the order ships to the billing address
// @Tags orders
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Order"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	order, err := h.in.NewOrder(&req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	placed, err := h.service.PlaceOrder(c.Request.Context(), order)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Location", c.FullPath()+"/"+placed.ID.String())
	c.JSON(http.StatusCreated, mapper.ToOrderResponse(placed))
}

// GetOrder handles GET /api/v1/orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parsePathID(c, h.in)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToOrderResponse(order))
}

// UpdateOrder handles PATCH /api/v1/orders/:id. The body must name a
// status; any status may follow any other.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	if _, ok := parsePathID(c, h.in); !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	update, err := h.in.OrderUpdate(c.Param("id"), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	order, err := h.service.UpdateOrder(c.Request.Context(), update)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToOrderResponse(order))
}

// RegisterOrderRoutes registers the order routes on rg.
func (h *OrderHandler) RegisterOrderRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", h.PlaceOrder)
	orders.GET("/:id", h.GetOrder)
	orders.PATCH("/:id", h.UpdateOrder)
}
