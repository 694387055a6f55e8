package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipbook-erp/slipbook/internal/billing"
	"github.com/slipbook-erp/slipbook/internal/catalog"
	"github.com/slipbook-erp/slipbook/internal/docstore"
	"github.com/slipbook-erp/slipbook/internal/documents"
	"github.com/slipbook-erp/slipbook/internal/stock"
	_ "github.com/slipbook-erp/slipbook/testing"
)

type fixture struct {
	store     *docstore.Memory
	catalog   *catalog.Service
	documents *documents.Service
	stock     *stock.Service
}

type repoBillSource struct {
	repo *documents.Repository
}

func (b repoBillSource) ListBills(ctx context.Context) ([]documents.SlipDocument, error) {
	return b.repo.List(ctx, documents.KindBill)
}

// newFixture wires the real services over a memory store, mirroring the
// production object graph.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemory()
	catalogSvc := catalog.NewService(catalog.NewRepository(store))
	documentsRepo := documents.NewRepository(store)
	stockSvc := stock.NewService(stock.NewRepository(store), catalogSvc, repoBillSource{repo: documentsRepo}, nil)
	documentsSvc := documents.NewService(documentsRepo, catalogSvc, stockSvc, nil)
	return &fixture{store: store, catalog: catalogSvc, documents: documentsSvc, stock: stockSvc}
}

func (f *fixture) mustCreateItem(t *testing.T, item catalog.Item) catalog.Item {
	t.Helper()
	created, err := f.catalog.CreateItem(context.Background(), item)
	require.NoError(t, err)
	return created
}

func TestRecordProductionIncrementsBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.mustCreateItem(t, catalog.Item{Name: "Cement Bag 50kg", Balance: 5})

	logs, err := f.stock.RecordProduction(ctx, stock.ProductionInput{
		Date: "2026-08-30",
		Entries: []stock.ProductionEntry{
			{MachineName: "Mixer 1", ItemID: item.ID, Quantity: 10},
			{MachineName: "Mixer 2", ItemID: item.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Cement Bag 50kg", logs[0].ItemName)
	assert.Equal(t, "2026-08-30", logs[0].Date)

	stored, err := f.catalog.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 18.0, stored.Balance)

	listed, err := f.stock.ListLogs(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestRecordProductionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.mustCreateItem(t, catalog.Item{Name: "Cement Bag 50kg"})

	_, err := f.stock.RecordProduction(ctx, stock.ProductionInput{})
	require.ErrorIs(t, err, stock.ErrNoEntries)

	_, err = f.stock.RecordProduction(ctx, stock.ProductionInput{
		Date:    "30-08-2026",
		Entries: []stock.ProductionEntry{{ItemID: item.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, stock.ErrInvalidDate)

	_, err = f.stock.RecordProduction(ctx, stock.ProductionInput{
		Entries: []stock.ProductionEntry{{ItemID: item.ID, Quantity: 0}},
	})
	require.ErrorIs(t, err, stock.ErrInvalidQuantity)
}

func TestRecordProductionUnknownItemLeavesNothingBehind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.mustCreateItem(t, catalog.Item{Name: "Cement Bag 50kg", Balance: 5})

	_, err := f.stock.RecordProduction(ctx, stock.ProductionInput{
		Entries: []stock.ProductionEntry{
			{ItemID: item.ID, Quantity: 10},
			{ItemID: "missing", Quantity: 2},
		},
	})
	require.ErrorIs(t, err, catalog.ErrNotFound)

	// The batch never ran, so the first entry's balance must not move.
	stored, err := f.catalog.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, stored.Balance)

	logs, err := f.stock.ListLogs(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAddStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.mustCreateItem(t, catalog.Item{Name: "Cement Bag 50kg", Balance: 5})

	require.NoError(t, f.stock.AddStock(ctx, item.ID, 7))
	stored, err := f.catalog.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, stored.Balance)

	require.ErrorIs(t, f.stock.AddStock(ctx, item.ID, 0), stock.ErrInvalidQuantity)
}

func TestDeleteBillRestoresItemBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cement := f.mustCreateItem(t, catalog.Item{Name: "Cement Bag 50kg", Balance: 100})
	steel := f.mustCreateItem(t, catalog.Item{Name: "Steel Rod 8mm", Balance: 40})

	_, err := f.documents.Save(ctx, documents.KindBill, documents.SlipDocument{
		Filters: documents.Filters{PartyName: "Sharma Traders", SlipNo: "21"},
		BillingItems: []billing.LineItem{
			{SrNo: 1, ItemName: "cement bag 50kg", Quantity: 10},
			{SrNo: 2, ItemName: "Steel Rod 8mm", Quantity: 4},
			{SrNo: 3, ItemName: "Ghost Item", Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.documents.Delete(ctx, documents.KindBill, "21"))

	stored, err := f.catalog.GetItem(ctx, cement.ID)
	require.NoError(t, err)
	assert.Equal(t, 110.0, stored.Balance)

	stored, err = f.catalog.GetItem(ctx, steel.ID)
	require.NoError(t, err)
	assert.Equal(t, 44.0, stored.Balance)
}

func TestRestoreForBillSkipsBlankLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.mustCreateItem(t, catalog.Item{Name: "Cement Bag 50kg", Balance: 10})

	err := f.stock.RestoreForBill(ctx, documents.SlipDocument{
		ID: "3",
		BillingItems: []billing.LineItem{
			{ItemName: "", Quantity: 5},
			{ItemName: "Cement Bag 50kg", Quantity: 0},
			{ItemName: "Cement Bag 50kg", Quantity: 2},
		},
	})
	require.NoError(t, err)

	stored, err := f.catalog.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, stored.Balance)
}
