package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"cartsvc/internal/events"
	"cartsvc/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartEvent(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cart, err := models.NewCart(7, 5, 42, created)
	require.NoError(t, err)
	item, err := cart.AddItem(100, 2, decimal.RequireFromString("4.20"), "ring the bell", 42, created)
	require.NoError(t, err)
	require.NoError(t, cart.Checkout(43, created.Add(time.Minute)))

	evt := events.NewCartEvent(events.CartCheckedOut, cart)

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, events.CartCheckedOut, evt.Type)
	assert.Equal(t, cart.ID, evt.CartID)
	assert.Equal(t, models.CartStatusCheckedOut, evt.Status)
	assert.Equal(t, int64(43), evt.ActorID)
	assert.Equal(t, created.Add(time.Minute), evt.OccurredAt)
	require.Len(t, evt.Items, 1)
	assert.Equal(t, item.ID, evt.Items[0].ItemID)
	assert.Equal(t, "ring the bell", evt.Items[0].SpecialInstructions)

	body, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"type":"cart.checked_out"`)

	var decoded events.CartEvent
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.True(t, decoded.Subtotal.Equal(decimal.RequireFromString("8.40")))
}
