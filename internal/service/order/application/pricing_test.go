package application

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/service/order/domain"
)

func TestAggregateTotal(t *testing.T) {
	items := []CartItemPayload{
		{Name: "book", Price: float64(10)},
		{Name: "pen", Price: 2.5},
		{Name: "sample", Price: float64(0)}, // 零价赠品合法
	}

	total, products, err := AggregateTotal(items)
	require.NoError(t, err)
	assert.Equal(t, 12.5, total)
	assert.Equal(t, []domain.CartItem{
		{Name: "book", Price: 10},
		{Name: "pen", Price: 2.5},
		{Name: "sample", Price: 0},
	}, products)
}

func TestAggregateTotal_OrderIndependent(t *testing.T) {
	forward := []CartItemPayload{{Name: "a", Price: 1.1}, {Name: "b", Price: 2.2}, {Name: "c", Price: 3.3}}
	backward := []CartItemPayload{{Name: "c", Price: 3.3}, {Name: "b", Price: 2.2}, {Name: "a", Price: 1.1}}

	t1, _, err := AggregateTotal(forward)
	require.NoError(t, err)
	t2, _, err := AggregateTotal(backward)
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
}

func TestAggregateTotal_EmptyCart(t *testing.T) {
	total, products, err := AggregateTotal(nil)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, products)
}

func TestAggregateTotal_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		items []CartItemPayload
	}{
		{"string price", []CartItemPayload{{Name: "book", Price: "10"}}},
		{"nil price", []CartItemPayload{{Name: "book", Price: nil}}},
		{"negative price", []CartItemPayload{{Name: "book", Price: float64(-5)}}},
		{"NaN price", []CartItemPayload{{Name: "book", Price: math.NaN()}}},
		{"infinite price", []CartItemPayload{{Name: "book", Price: math.Inf(1)}}},
		{"bad item after good ones", []CartItemPayload{
			{Name: "book", Price: float64(10)},
			{Name: "pen", Price: "2.5"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := AggregateTotal(tt.items)
			require.Error(t, err)
			assert.Equal(t, domain.KindPricing, domain.KindOf(err))
		})
	}
}
