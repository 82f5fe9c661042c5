package vendors

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdock/intake/internal/common"
	"github.com/freightdock/intake/internal/textline"
)

func TestRegistryRoutesByVendor(t *testing.T) {
	reg := NewDefaultRegistry(slog.Default())

	tests := []struct {
		name   string
		doc    textline.Document
		vendor string
	}{
		{"chartering confirmation", transallianceFixture(), "transalliance"},
		{"booking confirmation", zieglerFixture(), "ziegler"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, err := reg.Route(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.vendor, adapter.Name())
		})
	}
}

func TestRegistryUnrecognizedFormat(t *testing.T) {
	reg := NewDefaultRegistry(slog.Default())
	doc := textline.Normalize([]string{
		"ACME HAULAGE", "ORDER 1234", "56 PALLETS", "a", "b", "c", "d",
	})

	_, err := reg.Route(doc)
	assert.ErrorIs(t, err, common.ErrUnrecognizedFormat)

	_, _, err = reg.Extract(doc, "order.pdf")
	assert.ErrorIs(t, err, common.ErrUnrecognizedFormat)
}

// Registration order is part of the routing contract: a document claimed
// by more than one adapter goes to the earliest registration.
func TestRegistryRegistrationOrder(t *testing.T) {
	reg := NewDefaultRegistry(slog.Default())
	doc := textline.Normalize([]string{
		"ZIEGLER UK LTD Date/Time : 01/01/2025",
		"LONDON GATEWAY LOGISTICS PARK",
		"TRANSALLIANCE TS LTD",
		"CHARTERING CONFIRMATION",
		"a", "b", "c",
	})

	adapter, err := reg.Route(doc)
	require.NoError(t, err)
	assert.Equal(t, "transalliance", adapter.Name())
}

func TestExtractIsDeterministic(t *testing.T) {
	reg := NewDefaultRegistry(slog.Default())

	first, vendor1, err := reg.Extract(zieglerFixture(), "b.pdf")
	require.NoError(t, err)
	second, vendor2, err := reg.Extract(zieglerFixture(), "b.pdf")
	require.NoError(t, err)

	assert.Equal(t, vendor1, vendor2)
	assert.Equal(t, first, second)
}
