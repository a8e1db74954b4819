package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingErrors_Messages(t *testing.T) {
	tests := []struct {
		err  MappingError
		kind MappingErrorKind
		msg  string
	}{
		{
			err:  &InvalidIdentifierError{Raw: "x", Cause: ErrIDLength},
			kind: KindInvalidIdentifier,
			msg:  `invalid identifier "x": identifier must be 27 characters`,
		},
		{
			err:  &InvalidEnumValueError{Domain: EnumDomainOrderStatus, Raw: "lost"},
			kind: KindInvalidEnumValue,
			msg:  `invalid order_status value "lost"`,
		},
		{
			err:  &AvailabilityOutOfBoundsError{Value: -1},
			kind: KindAvailabilityOutOfBounds,
			msg:  "available count -1 must be at least 0",
		},
		{
			err:  &DiscountPercentageOutOfBoundsError{Value: 81},
			kind: KindDiscountPercentageOutOfBounds,
			msg:  "discount percentage 81 must be between 1 and 80",
		},
		{
			err:  &OrderQuantityOutOfBoundsError{Value: 0},
			kind: KindOrderQuantityOutOfBounds,
			msg:  "order quantity 0 must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.msg, tt.err.Error())
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.ErrorIs(t, tt.err, ErrValidation)
		})
	}
}

func TestAsMappingError(t *testing.T) {
	wrapped := fmt.Errorf("mapping order: %w", &OrderQuantityOutOfBoundsError{Value: 0})

	me, ok := AsMappingError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindOrderQuantityOutOfBounds, KindOf(me))

	_, ok = AsMappingError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = AsMappingError(NewNotFoundError("book", NilID))
	assert.False(t, ok)
}
