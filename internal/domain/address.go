package domain

// Address is a value type with no identity. Two addresses are equal when
// every field matches; Province compares by value, not by pointer.
type Address struct {
	Street       string
	StreetNumber string
	ZipCode      string
	City         string
	Province     *string
	Country      string
}

// Equal reports structural equality.
func (a Address) Equal(b Address) bool {
	if a.Street != b.Street ||
		a.StreetNumber != b.StreetNumber ||
		a.ZipCode != b.ZipCode ||
		a.City != b.City ||
		a.Country != b.Country {
		return false
	}

	switch {
	case a.Province == nil && b.Province == nil:
		return true
	case a.Province == nil || b.Province == nil:
		return false
	default:
		return *a.Province == *b.Province
	}
}

// Clone returns a copy that shares no memory with a, so later edits to one
// never show up in the other.
func (a Address) Clone() Address {
	c := a
	if a.Province != nil {
		p := *a.Province
		c.Province = &p
	}

	return c
}
