package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checkout-orchestrator/internal/core/commerce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCommerceAdapter_GetCart verifies cart lines are mapped to the domain shape.
func TestCommerceAdapter_GetCart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cart-items", r.URL.Path)
		assert.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{
					"id":       1,
					"quantity": 2,
					"product":  map[string]interface{}{"id": "p-1", "name": "Кроссовки", "price": 1500},
				},
			},
		})
	}))
	defer ts.Close()

	adapter := NewCommerceAdapter(ts.URL, time.Second)

	items, err := adapter.GetCart(context.Background(), "jwt-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p-1", items[0].Product.ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1500.0, items[0].Product.Price)
}

// TestCommerceAdapter_GetCart_Unauthorized verifies the 401 sentinel is surfaced.
func TestCommerceAdapter_GetCart_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	adapter := NewCommerceAdapter(ts.URL, time.Second)

	_, err := adapter.GetCart(context.Background(), "expired")
	assert.ErrorIs(t, err, commerce.ErrUnauthorized)
}

// TestCommerceAdapter_CountFavorites verifies the favorites count and the
// distinct 403 state.
func TestCommerceAdapter_CountFavorites(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/favorites", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    []map[string]interface{}{{"id": 1}, {"id": 2}, {"id": 3}},
		})
	}))
	defer ts.Close()

	adapter := NewCommerceAdapter(ts.URL, time.Second)

	count, err := adapter.CountFavorites(context.Background(), "jwt-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

// TestCommerceAdapter_CountFavorites_Forbidden verifies 403 maps to ErrForbidden.
func TestCommerceAdapter_CountFavorites_Forbidden(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	adapter := NewCommerceAdapter(ts.URL, time.Second)

	_, err := adapter.CountFavorites(context.Background(), "jwt-1")
	assert.ErrorIs(t, err, commerce.ErrForbidden)
}
