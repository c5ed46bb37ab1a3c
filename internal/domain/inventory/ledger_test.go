package inventory_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/inventory"
)

func TestLineSubtotal(t *testing.T) {
	cases := []struct {
		qty   int64
		price string
		want  string
	}{
		{3, "19.99", "59.97"},
		{1, "0.125", "0.12"}, // half-even hacia el par
		{1, "0.135", "0.14"},
		{7, "0", "0"},
		{2, "10.005", "20.01"},
		{1000, "33.333", "33333"},
	}
	for _, tc := range cases {
		got := inventory.LineSubtotal(tc.qty, decimal.RequireFromString(tc.price))
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"%d × %s = %s, se esperaba %s", tc.qty, tc.price, got, tc.want)
	}
}

func TestDistinctSortedIDs(t *testing.T) {
	in := []int64{9, 2, 9, 5, 2}
	assert.Equal(t, []int64{2, 5, 9}, inventory.DistinctSortedIDs(in))
	assert.Equal(t, []int64{9, 2, 9, 5, 2}, in, "no debe mutar la entrada")
	assert.Empty(t, inventory.DistinctSortedIDs(nil))
}

func TestMissingIDs(t *testing.T) {
	found := map[int64]*entity.Product{2: {ID: 2}, 9: {ID: 9}}
	assert.Equal(t, []int64{3, 7}, inventory.MissingIDs([]int64{2, 3, 7, 9}, found))
	assert.Nil(t, inventory.MissingIDs([]int64{2, 9}, found))
}

func TestDemand_AgregaAntesDeComparar(t *testing.T) {
	products := map[int64]*entity.Product{
		1: {ID: 1, Quantity: 10},
		2: {ID: 2, Quantity: 1},
		3: {ID: 3, Quantity: 0},
	}
	d := inventory.Demand{}
	d.Add(1, 4)
	d.Add(1, 3)
	d.Add(2, 1)
	d.Add(3, 2)
	d.Add(2, 1)

	assert.Equal(t, []domain.StockShortage{
		{ProductID: 2, Available: 1, Requested: 2},
		{ProductID: 3, Available: 0, Requested: 2},
	}, d.Shortages(products))
}

func TestDemand_SumaSaturaSinDesbordar(t *testing.T) {
	products := map[int64]*entity.Product{1: {ID: 1, Quantity: 10}}
	d := inventory.Demand{}
	d.Add(1, 1<<62)
	d.Add(1, 1<<62)
	d.Add(1, 1<<62)

	assert.Equal(t, int64(math.MaxInt64), d[1])
	assert.Equal(t, []domain.StockShortage{
		{ProductID: 1, Available: 10, Requested: math.MaxInt64},
	}, d.Shortages(products))
}

func TestMoneyInRange(t *testing.T) {
	assert.True(t, inventory.MoneyInRange(decimal.Zero))
	assert.True(t, inventory.MoneyInRange(decimal.RequireFromString("9999999999.99")))
	assert.False(t, inventory.MoneyInRange(decimal.RequireFromString("10000000000")))
	assert.False(t, inventory.MoneyInRange(decimal.RequireFromString("-0.01")))
}
