package domain

import (
	"errors"
	"fmt"
)

// Bounds enforced at the mapping boundary. The wire schema is looser
// (percentages are nominally 0-100) so these are checked explicitly.
const (
	MinDiscountPercentage = 1
	MaxDiscountPercentage = 80
	MinOrderQuantity      = 1
	MinAvailable          = 0
)

// EnumDomain names a closed status vocabulary.
type EnumDomain string

const (
	// EnumDomainCatalogStatus is the catalog item status vocabulary.
	EnumDomainCatalogStatus EnumDomain = "catalog_status"

	// EnumDomainOrderStatus is the order status vocabulary.
	EnumDomainOrderStatus EnumDomain = "order_status"
)

// MappingError is the closed set of failures produced while turning wire
// input into domain values. The unexported method seals the interface to the
// variants declared in this file.
type MappingError interface {
	error
	mappingError()
}

// MappingErrorKind identifies a MappingError variant.
type MappingErrorKind string

const (
	KindInvalidIdentifier             MappingErrorKind = "invalid_identifier"
	KindInvalidEnumValue              MappingErrorKind = "invalid_enum_value"
	KindAvailabilityOutOfBounds       MappingErrorKind = "availability_out_of_bounds"
	KindDiscountPercentageOutOfBounds MappingErrorKind = "discount_percentage_out_of_bounds"
	KindOrderQuantityOutOfBounds      MappingErrorKind = "order_quantity_out_of_bounds"
)

// InvalidIdentifierError reports text that is not a well-formed identifier.
type InvalidIdentifierError struct {
	Raw   string
	Cause error
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %v", e.Raw, e.Cause)
}

// Unwrap exposes both the validation sentinel and the decoding cause.
func (e *InvalidIdentifierError) Unwrap() []error {
	return []error{ErrValidation, e.Cause}
}

func (*InvalidIdentifierError) mappingError() {}

// InvalidEnumValueError reports a value outside a closed status vocabulary.
type InvalidEnumValueError struct {
	Domain EnumDomain
	Raw    string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Domain, e.Raw)
}

func (e *InvalidEnumValueError) Unwrap() error { return ErrValidation }

func (*InvalidEnumValueError) mappingError() {}

// AvailabilityOutOfBoundsError reports a negative available count.
type AvailabilityOutOfBoundsError struct {
	Value int
}

func (e *AvailabilityOutOfBoundsError) Error() string {
	return fmt.Sprintf("available count %d must be at least %d", e.Value, MinAvailable)
}

func (e *AvailabilityOutOfBoundsError) Unwrap() error { return ErrValidation }

func (*AvailabilityOutOfBoundsError) mappingError() {}

// DiscountPercentageOutOfBoundsError reports a percentage outside [1, 80].
type DiscountPercentageOutOfBoundsError struct {
	Value int
}

func (e *DiscountPercentageOutOfBoundsError) Error() string {
	return fmt.Sprintf("discount percentage %d must be between %d and %d",
		e.Value, MinDiscountPercentage, MaxDiscountPercentage)
}

func (e *DiscountPercentageOutOfBoundsError) Unwrap() error { return ErrValidation }

func (*DiscountPercentageOutOfBoundsError) mappingError() {}

// OrderQuantityOutOfBoundsError reports an order line quantity below one.
type OrderQuantityOutOfBoundsError struct {
	Value int
}

func (e *OrderQuantityOutOfBoundsError) Error() string {
	return fmt.Sprintf("order quantity %d must be at least %d", e.Value, MinOrderQuantity)
}

func (e *OrderQuantityOutOfBoundsError) Unwrap() error { return ErrValidation }

func (*OrderQuantityOutOfBoundsError) mappingError() {}

// AsMappingError finds the first MappingError in err's chain.
func AsMappingError(err error) (MappingError, bool) {
	var me MappingError
	if errors.As(err, &me) {
		return me, true
	}

	return nil, false
}

// KindOf returns the variant of a MappingError. It panics on a type outside
// the closed set, which can only happen if a variant is added here without
// being registered in the switch.
func KindOf(err MappingError) MappingErrorKind {
	switch err.(type) {
	case *InvalidIdentifierError:
		return KindInvalidIdentifier
	case *InvalidEnumValueError:
		return KindInvalidEnumValue
	case *AvailabilityOutOfBoundsError:
		return KindAvailabilityOutOfBounds
	case *DiscountPercentageOutOfBoundsError:
		return KindDiscountPercentageOutOfBounds
	case *OrderQuantityOutOfBoundsError:
		return KindOrderQuantityOutOfBounds
	default:
		panic(fmt.Sprintf("domain: unhandled mapping error %T", err))
	}
}
