package mongo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mylaundry/order-system/internal/core/domain"
)

func TestDecimal128RoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "2.5", "30000", "12345.678"} {
		in := decimal.RequireFromString(s)
		enc, err := toDecimal128(in)
		require.NoError(t, err)
		assert.Truef(t, in.Equal(fromDecimal128(enc)), "round trip of %s", s)
	}
}

func TestOrderDocRoundTrip(t *testing.T) {
	completed := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	in := &domain.Order{
		ID:            12,
		UserID:        3,
		OrderNumber:   "ML2602030001",
		CustomerName:  "Jane Doe",
		ServiceID:     1,
		Quantity:      decimal.RequireFromString("2.5"),
		TotalPrice:    decimal.NewFromInt(20000),
		Status:        domain.StatusDone,
		EntryDate:     completed.Add(-48 * time.Hour),
		CompletedDate: &completed,
	}

	doc, err := newOrderDoc(in)
	require.NoError(t, err)
	out := doc.toDomain()

	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Status, out.Status)
	assert.True(t, in.Quantity.Equal(out.Quantity))
	assert.True(t, in.TotalPrice.Equal(out.TotalPrice))
	require.NotNil(t, out.CompletedDate)
	assert.True(t, completed.Equal(*out.CompletedDate))
}
