package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipbook-erp/slipbook/internal/catalog"
)

func testItems() []catalog.Item {
	return []catalog.Item{
		{ID: "i1", Name: "Cement Bag 50kg", Group: "cement"},
		{ID: "i2", Name: "Cement Bag 25kg", Group: "cement"},
		{ID: "i3", Name: "Steel Rod 8mm", Group: "steel"},
		{ID: "i4", Name: "Loose Gravel", Group: ""},
	}
}

func TestComputeSummaryGroupsByItemGroup(t *testing.T) {
	lines := []LineItem{
		{SrNo: 1, ItemName: "Cement Bag 50kg", Quantity: 10},
		{SrNo: 2, ItemName: "cement bag 25kg", Quantity: 5},
		{SrNo: 3, ItemName: "Steel Rod 8mm", Quantity: 2},
	}
	prices := map[string]float64{"cement": 300, "steel": 450}

	summary := ComputeSummary(lines, testItems(), prices)

	require.Len(t, summary.Rows, 2)
	assert.Equal(t, "Cement", summary.Rows[0].Item)
	assert.Equal(t, 15.0, summary.Rows[0].TotalQty)
	assert.Equal(t, 300.0, summary.Rows[0].Price)
	assert.Equal(t, 4500.0, summary.Rows[0].TotalPrice)
	assert.Equal(t, "Steel", summary.Rows[1].Item)
	assert.Equal(t, 900.0, summary.Rows[1].TotalPrice)
	assert.Equal(t, 5400.0, summary.GrandTotal)
}

func TestComputeSummarySkipsUnresolvedAndUngroupedLines(t *testing.T) {
	lines := []LineItem{
		{SrNo: 1, ItemName: "Cement Bag 50kg", Quantity: 10},
		{SrNo: 2, ItemName: "No Such Item", Quantity: 99},
		{SrNo: 3, ItemName: "Loose Gravel", Quantity: 4},
		{SrNo: 4, ItemName: "   ", Quantity: 7},
		{SrNo: 5, ItemName: "Steel Rod 8mm", Quantity: 0},
	}
	prices := map[string]float64{"cement": 100}

	summary := ComputeSummary(lines, testItems(), prices)

	require.Len(t, summary.Rows, 1)
	assert.Equal(t, "Cement", summary.Rows[0].Item)
	assert.Equal(t, 10.0, summary.Rows[0].TotalQty)
	assert.Equal(t, 1000.0, summary.GrandTotal)
}

func TestComputeSummaryMissingManualPriceDefaultsToZero(t *testing.T) {
	lines := []LineItem{{SrNo: 1, ItemName: "Steel Rod 8mm", Quantity: 3}}

	summary := ComputeSummary(lines, testItems(), nil)

	require.Len(t, summary.Rows, 1)
	assert.Equal(t, 3.0, summary.Rows[0].TotalQty)
	assert.Equal(t, 0.0, summary.Rows[0].Price)
	assert.Equal(t, 0.0, summary.GrandTotal)
}

func TestComputeSummaryCapQuantitiesSumAcrossAllLines(t *testing.T) {
	// Cap quantities accrue even from lines that never resolve to an item.
	lines := []LineItem{
		{SrNo: 1, ItemName: "No Such Item", Quantity: 1, UCap: 2, LCap: 1},
		{SrNo: 2, ItemName: "", Quantity: 0, UCap: 3, LCap: 0},
	}
	prices := map[string]float64{"u cap": 10, "l cap": 5}

	summary := ComputeSummary(lines, testItems(), prices)

	require.Len(t, summary.Rows, 2)
	assert.Equal(t, UCapLabel, summary.Rows[0].Item)
	assert.Equal(t, 5.0, summary.Rows[0].TotalQty)
	assert.Equal(t, 50.0, summary.Rows[0].TotalPrice)
	assert.Equal(t, LCapLabel, summary.Rows[1].Item)
	assert.Equal(t, 1.0, summary.Rows[1].TotalQty)
	assert.Equal(t, 55.0, summary.GrandTotal)
}

func TestComputeSummaryCapRowVisibility(t *testing.T) {
	tests := []struct {
		name   string
		uCap   float64
		prices map[string]float64
		want   int
	}{
		{name: "no quantity no price stays hidden", uCap: 0, prices: nil, want: 0},
		{name: "explicit zero price stays hidden", uCap: 0, prices: map[string]float64{"u cap": 0}, want: 0},
		{name: "nonzero price without quantity shows", uCap: 0, prices: map[string]float64{"u cap": 12}, want: 1},
		{name: "quantity without price shows", uCap: 4, prices: nil, want: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines := []LineItem{{SrNo: 1, UCap: tc.uCap}}
			summary := ComputeSummary(lines, nil, tc.prices)
			assert.Len(t, summary.Rows, tc.want)
		})
	}
}

func TestComputeSummaryDisplayCapitalizesFirstLetterOnly(t *testing.T) {
	items := []catalog.Item{{ID: "i1", Name: "Thing", Group: "mixedCase group"}}
	lines := []LineItem{{SrNo: 1, ItemName: "Thing", Quantity: 1}}

	summary := ComputeSummary(lines, items, nil)

	require.Len(t, summary.Rows, 1)
	assert.Equal(t, "MixedCase group", summary.Rows[0].Item)
}

func TestComputeSummaryEmptyInputs(t *testing.T) {
	summary := ComputeSummary(nil, nil, nil)
	assert.Empty(t, summary.Rows)
	assert.Equal(t, 0.0, summary.GrandTotal)
}

func TestMemoReusesCachedSummary(t *testing.T) {
	var memo Memo
	items := testItems()
	lines := []LineItem{{SrNo: 1, ItemName: "Cement Bag 50kg", Quantity: 2}}
	prices := map[string]float64{"cement": 50}

	first := memo.Compute(lines, items, prices)
	second := memo.Compute(lines, items, prices)
	require.Equal(t, first, second)

	prices["cement"] = 75
	third := memo.Compute(lines, items, prices)
	assert.Equal(t, 150.0, third.GrandTotal)
}
