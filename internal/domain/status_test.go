package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogStatus_RoundTrip(t *testing.T) {
	for _, s := range CatalogStatuses {
		t.Run(s.String(), func(t *testing.T) {
			parsed, err := ParseCatalogStatus(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
			assert.True(t, parsed.Valid())
		})
	}
}

func TestOrderStatus_RoundTrip(t *testing.T) {
	for _, s := range OrderStatuses {
		t.Run(s.String(), func(t *testing.T) {
			parsed, err := ParseOrderStatus(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
			assert.True(t, parsed.Valid())
		})
	}
}

func TestStatus_WireNames(t *testing.T) {
	assert.Equal(t, []string{"available", "out_of_stock", "re_ordered"}, names(CatalogStatuses))
	assert.Equal(t, []string{"placed", "shipped", "delivered", "canceled"}, names(OrderStatuses))
}

func names[S interface{ String() string }](statuses []S) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.String())
	}

	return out
}

func TestParseCatalogStatus_CaseInsensitive(t *testing.T) {
	for _, raw := range []string{"AVAILABLE", "Out_Of_Stock", "RE_ordered"} {
		t.Run(raw, func(t *testing.T) {
			s, err := ParseCatalogStatus(raw)
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(raw), s.String())
		})
	}
}

func TestParseOrderStatus_CaseInsensitive(t *testing.T) {
	s, err := ParseOrderStatus("DELIVERED")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDelivered, s)
}

func TestParseCatalogStatus_Invalid(t *testing.T) {
	for _, raw := range []string{"", " ", "AVAILABLE ", " available", "out-of-stock", "placed", "sold"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseCatalogStatus(raw)

			var invalid *InvalidEnumValueError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, EnumDomainCatalogStatus, invalid.Domain)
			assert.Equal(t, raw, invalid.Raw)
		})
	}
}

func TestParseStatus_RejectsNonASCIILookalikes(t *testing.T) {
	// U+212A KELVIN SIGN lower-cases to 'k' under Unicode rules.
	for _, raw := range []string{"out_of_stoc\u212A", "OUT_OF_STOC\u212A", "availabl\u00e9"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseCatalogStatus(raw)

			var invalid *InvalidEnumValueError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, raw, invalid.Raw)
		})
	}

	_, err := ParseOrderStatus("\u017Fhipped") // long s folds to s under simple folding
	assert.Error(t, err)

	_, err = ParseOrderStatus("plac\u0435d") // Cyrillic e
	assert.Error(t, err)
}

func TestParseOrderStatus_Invalid(t *testing.T) {
	for _, raw := range []string{"", "cancelled", "available", "placed\n", "pending"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseOrderStatus(raw)

			var invalid *InvalidEnumValueError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, EnumDomainOrderStatus, invalid.Domain)
			assert.Equal(t, raw, invalid.Raw)
		})
	}
}

func TestParseStatuses_FirstErrorWins(t *testing.T) {
	_, err := ParseCatalogStatuses([]string{"available", "nope", "also-bad"})

	var invalid *InvalidEnumValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "nope", invalid.Raw)

	_, err = ParseOrderStatuses([]string{"shipped", "SHIPPED", "x", "y"})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "x", invalid.Raw)
}

func TestParseStatuses_AllValid(t *testing.T) {
	got, err := ParseOrderStatuses([]string{"placed", "Canceled"})
	require.NoError(t, err)
	assert.Equal(t, []OrderStatus{OrderStatusPlaced, OrderStatusCanceled}, got)
}

func TestStatus_ZeroValueInvalid(t *testing.T) {
	var c CatalogStatus
	var o OrderStatus

	assert.False(t, c.Valid())
	assert.False(t, o.Valid())
	assert.Empty(t, c.String())
	assert.Empty(t, o.String())
}
