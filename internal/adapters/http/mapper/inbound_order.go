package mapper

import (
	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/domain"
)

// NewOrder maps a creation request to an order in status placed. The
// customer id is parsed first; then, line by line, the quantity is checked
// before the book id. Without an override the order ships to a copy of the
// billing address.
func (m *Inbound) NewOrder(req *dto.CreateOrderRequest) (domain.Order, error) {
	customer, err := domain.ParseID(req.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}

	lines, err := TranslateSlice(req.Lines, orderLine)
	if err != nil {
		return domain.Order{}, err
	}

	billing := toAddress(&req.BillingAddress)

	shipping := billing.Clone()
	if req.ShippingAddress != nil {
		shipping = toAddress(req.ShippingAddress)
	}

	order := domain.Order{
		ID:              m.ids.NewID(),
		CustomerID:      customer,
		Lines:           lines,
		ShippingDate:    req.ShippingDate.Time(),
		BillingAddress:  billing,
		ShippingAddress: shipping,
		Status:          domain.OrderStatusPlaced,
	}

	for i := range order.Lines {
		order.Lines[i].ID = m.ids.NewID()
	}

	return order, nil
}

// OrderUpdate maps a status change of the order identified by rawID. The
// status is required and any valid status is accepted.
func (m *Inbound) OrderUpdate(rawID string, req *dto.UpdateOrderRequest) (domain.OrderUpdate, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return domain.OrderUpdate{}, err
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		return domain.OrderUpdate{}, err
	}

	return domain.OrderUpdate{ID: id, Status: status}, nil
}

func orderLine(l dto.OrderLineRequest) (domain.OrderLine, error) {
	if l.Quantity < domain.MinOrderQuantity {
		return domain.OrderLine{}, &domain.OrderQuantityOutOfBoundsError{Value: l.Quantity}
	}

	book, err := domain.ParseID(l.BookID)
	if err != nil {
		return domain.OrderLine{}, err
	}

	return domain.OrderLine{BookID: book, Quantity: l.Quantity}, nil
}

func toAddress(a *dto.Address) domain.Address {
	return domain.Address{
		Street:       a.Street,
		StreetNumber: a.StreetNumber,
		ZipCode:      a.ZipCode,
		City:         a.City,
		Province:     clonePtr(a.Province),
		Country:      a.Country,
	}
}
