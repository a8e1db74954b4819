package domain

import (
	"slices"
	"time"
)

// OrderLine is one catalog item and the quantity ordered.
type OrderLine struct {
	ID       ID
	BookID   ID
	Quantity int
}

// Order is a customer purchase. ShippingAddress and BillingAddress are
// independent values; equality between them is recomputed whenever it
// matters, never remembered.
type Order struct {
	ID              ID
	CustomerID      ID
	Lines           []OrderLine
	ShippingDate    time.Time
	BillingAddress  Address
	ShippingAddress Address
	Status          OrderStatus
}

// ShipsToBillingAddress reports whether both addresses are currently equal.
func (o *Order) ShipsToBillingAddress() bool {
	return o.ShippingAddress.Equal(o.BillingAddress)
}

// OrderUpdate changes an order's status. Any valid status may follow any
// other.
type OrderUpdate struct {
	ID     ID
	Status OrderStatus
}

// Apply returns a copy of o with u applied.
func (o Order) Apply(u OrderUpdate) Order {
	o.Status = u.Status
	o.Lines = slices.Clone(o.Lines)
	o.BillingAddress = o.BillingAddress.Clone()
	o.ShippingAddress = o.ShippingAddress.Clone()

	return o
}
