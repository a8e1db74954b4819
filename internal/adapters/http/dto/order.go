package dto

// Address is the wire form of a postal address, used in both directions.
type Address struct {
	Street       string  `json:"street"             validate:"required,notempty"`
	StreetNumber string  `json:"streetNumber"       validate:"required,notempty"`
	ZipCode      string  `json:"zipCode"            validate:"required,notempty"`
	City         string  `json:"city"               validate:"required,notempty"`
	Province     *string `json:"province,omitempty"`
	Country      string  `json:"country"            validate:"required,notempty"`
}

// OrderLineRequest is one line of a new order. Quantity bounds are checked
// when mapping.
type OrderLineRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest is the body of POST /orders. When shippingAddress is
// omitted the order ships to the billing address.
type CreateOrderRequest struct {
	CustomerID      string             `json:"customerId"`
	Lines           []OrderLineRequest `json:"lines"           validate:"required,min=1,dive"`
	ShippingDate    Date               `json:"shippingDate"    validate:"required"`
	BillingAddress  Address            `json:"billingAddress"  validate:"required"`
	ShippingAddress *Address           `json:"shippingAddress" validate:"omitempty"`
}

// UpdateOrderRequest is the body of PATCH /orders/{id}. Status is required;
// an empty value is rejected as an unknown order status.
type UpdateOrderRequest struct {
	Status string `json:"status"`
}

// OrderLineResponse is one line of an order as returned by the API.
type OrderLineResponse struct {
	ID       string `json:"id"`
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// OrderResponse is an order as returned by the API. ShippingAddress is only
// present when it differs from the billing address.
type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerID      string              `json:"customerId"`
	Lines           []OrderLineResponse `json:"lines"`
	ShippingDate    Date                `json:"shippingDate"`
	BillingAddress  Address             `json:"billingAddress"`
	ShippingAddress *Address            `json:"shippingAddress,omitempty"`
	Status          string              `json:"status"`
}
