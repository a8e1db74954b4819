package domain

// CatalogStatus is the availability state of a catalog item. The zero value
// is not a valid status.
type CatalogStatus int

const (
	CatalogStatusAvailable CatalogStatus = iota + 1
	CatalogStatusOutOfStock
	CatalogStatusReOrdered
)

// CatalogStatuses lists every catalog status in declaration order.
var CatalogStatuses = []CatalogStatus{
	CatalogStatusAvailable,
	CatalogStatusOutOfStock,
	CatalogStatusReOrdered,
}

// String returns the wire name. These spellings are part of the public API.
func (s CatalogStatus) String() string {
	switch s {
	case CatalogStatusAvailable:
		return "available"
	case CatalogStatusOutOfStock:
		return "out_of_stock"
	case CatalogStatusReOrdered:
		return "re_ordered"
	default:
		return ""
	}
}

// Valid reports whether s is one of the declared statuses.
func (s CatalogStatus) Valid() bool {
	return s.String() != ""
}

// ParseCatalogStatus maps a wire value to a status, ignoring ASCII case.
// Surrounding whitespace is not trimmed.
func ParseCatalogStatus(raw string) (CatalogStatus, error) {
	switch foldASCII(raw) {
	case "available":
		return CatalogStatusAvailable, nil
	case "out_of_stock":
		return CatalogStatusOutOfStock, nil
	case "re_ordered":
		return CatalogStatusReOrdered, nil
	default:
		return 0, &InvalidEnumValueError{Domain: EnumDomainCatalogStatus, Raw: raw}
	}
}

// ParseCatalogStatuses parses in order and reports the first invalid value.
func ParseCatalogStatuses(raw []string) ([]CatalogStatus, error) {
	return parseAll(raw, ParseCatalogStatus)
}

// OrderStatus is the fulfilment state of an order. The zero value is not a
// valid status. No transition rules are enforced between statuses.
type OrderStatus int

const (
	OrderStatusPlaced OrderStatus = iota + 1
	OrderStatusShipped
	OrderStatusDelivered
	OrderStatusCanceled
)

// OrderStatuses lists every order status in declaration order.
var OrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// String returns the wire name. These spellings are part of the public API.
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPlaced:
		return "placed"
	case OrderStatusShipped:
		return "shipped"
	case OrderStatusDelivered:
		return "delivered"
	case OrderStatusCanceled:
		return "canceled"
	default:
		return ""
	}
}

// Valid reports whether s is one of the declared statuses.
func (s OrderStatus) Valid() bool {
	return s.String() != ""
}

// ParseOrderStatus maps a wire value to a status, ignoring ASCII case.
// Surrounding whitespace is not trimmed.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch foldASCII(raw) {
	case "placed":
		return OrderStatusPlaced, nil
	case "shipped":
		return OrderStatusShipped, nil
	case "delivered":
		return OrderStatusDelivered, nil
	case "canceled":
		return OrderStatusCanceled, nil
	default:
		return 0, &InvalidEnumValueError{Domain: EnumDomainOrderStatus, Raw: raw}
	}
}

// ParseOrderStatuses parses in order and reports the first invalid value.
func ParseOrderStatuses(raw []string) ([]OrderStatus, error) {
	return parseAll(raw, ParseOrderStatus)
}

// foldASCII lower-cases ASCII letters. Input holding any non-ASCII byte
// folds to "", which matches no status, so look-alikes such as the Kelvin
// sign stay invalid.
func foldASCII(raw string) string {
	b := make([]byte, len(raw))

	for i := range len(raw) {
		c := raw[i]

		switch {
		case c >= 0x80:
			return ""
		case 'A' <= c && c <= 'Z':
			c += 'a' - 'A'
		}

		b[i] = c
	}

	return string(b)
}

func parseAll[T any](raw []string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(raw))

	for _, r := range raw {
		v, err := parse(r)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}
