package documents_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipbook-erp/slipbook/internal/billing"
	"github.com/slipbook-erp/slipbook/internal/docstore"
	"github.com/slipbook-erp/slipbook/internal/documents"
	_ "github.com/slipbook-erp/slipbook/testing"
)

type stubMerger struct {
	calls []map[string]float64
	party string
	err   error
}

func (s *stubMerger) MergePartyPrices(ctx context.Context, partyName string, prices map[string]float64) error {
	s.party = partyName
	s.calls = append(s.calls, prices)
	return s.err
}

type stubRestorer struct {
	restored []documents.SlipDocument
	err      error
}

func (s *stubRestorer) RestoreForBill(ctx context.Context, doc documents.SlipDocument) error {
	if s.err != nil {
		return s.err
	}
	s.restored = append(s.restored, doc)
	return nil
}

func newService(t *testing.T) (*documents.Service, *stubMerger, *stubRestorer) {
	t.Helper()
	merger := &stubMerger{}
	restorer := &stubRestorer{}
	repo := documents.NewRepository(docstore.NewMemory())
	return documents.NewService(repo, merger, restorer, nil), merger, restorer
}

func billDoc(slipNo string) documents.SlipDocument {
	return documents.SlipDocument{
		Filters: documents.Filters{
			PartyName: "Sharma Traders",
			Date:      "2026-08-30T00:00:00Z",
			SlipNo:    slipNo,
		},
		BillingItems: []billing.LineItem{
			{SrNo: 1, ItemName: "Cement Bag 50kg", Quantity: 10},
		},
		ManualPrices: map[string]float64{"cement": 300},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	result, err := svc.Save(ctx, documents.KindBill, billDoc("12"))
	require.NoError(t, err)
	assert.Equal(t, "12", result.Document.ID)
	assert.Equal(t, "13", result.NextSlipNo)

	loaded, err := svc.Load(ctx, documents.KindBill, "12")
	require.NoError(t, err)
	assert.Equal(t, result.Document, loaded.SlipDocument)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), loaded.Date)
}

func TestSaveRequiresSlipNumber(t *testing.T) {
	svc, _, _ := newService(t)

	doc := billDoc("")
	_, err := svc.Save(context.Background(), documents.KindBill, doc)
	require.ErrorIs(t, err, documents.ErrSlipNumberRequired)

	doc.Filters.SlipNo = "   "
	_, err = svc.Save(context.Background(), documents.KindBill, doc)
	require.ErrorIs(t, err, documents.ErrSlipNumberRequired)
}

func TestSaveOrderRequiresParty(t *testing.T) {
	svc, _, _ := newService(t)

	doc := billDoc("5")
	doc.Filters.PartyName = ""
	_, err := svc.Save(context.Background(), documents.KindOrder, doc)
	require.ErrorIs(t, err, documents.ErrPartyRequired)

	_, err = svc.Save(context.Background(), documents.KindLoadingSlip, doc)
	require.ErrorIs(t, err, documents.ErrPartyRequired)

	// Bills tolerate a missing party.
	_, err = svc.Save(context.Background(), documents.KindBill, doc)
	require.NoError(t, err)
}

func TestSaveDropsTemplateRows(t *testing.T) {
	svc, _, _ := newService(t)

	doc := billDoc("3")
	doc.BillingItems = []billing.LineItem{
		{SrNo: 1, ItemName: "Cement Bag 50kg", Quantity: 10},
		{SrNo: 2, ItemName: "", Quantity: 5},
		{SrNo: 3, ItemName: "Steel Rod 8mm", Quantity: 0},
		{SrNo: 4, ItemName: "   ", Quantity: 2},
	}

	result, err := svc.Save(context.Background(), documents.KindBill, doc)
	require.NoError(t, err)
	require.Len(t, result.Document.BillingItems, 1)
	assert.Equal(t, "Cement Bag 50kg", result.Document.BillingItems[0].ItemName)
}

func TestSaveOverwritesExistingSlipNumber(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, documents.KindBill, billDoc("4"))
	require.NoError(t, err)

	edited := billDoc("4")
	edited.Filters.Notes = "edited"
	_, err = svc.Save(ctx, documents.KindBill, edited)
	require.NoError(t, err)

	bills, err := svc.ListBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "edited", bills[0].Filters.Notes)
}

func TestSaveOrderMergesManualPricesIntoPartyList(t *testing.T) {
	svc, merger, _ := newService(t)

	_, err := svc.Save(context.Background(), documents.KindOrder, billDoc("9"))
	require.NoError(t, err)

	require.Len(t, merger.calls, 1)
	assert.Equal(t, "Sharma Traders", merger.party)
	assert.Equal(t, map[string]float64{"cement": 300}, merger.calls[0])
}

func TestSaveBillDoesNotMergePrices(t *testing.T) {
	svc, merger, _ := newService(t)

	_, err := svc.Save(context.Background(), documents.KindBill, billDoc("9"))
	require.NoError(t, err)
	assert.Empty(t, merger.calls)
}

func TestSaveOrderSurvivesMergeFailure(t *testing.T) {
	svc, merger, _ := newService(t)
	merger.err = errors.New("price store down")

	_, err := svc.Save(context.Background(), documents.KindOrder, billDoc("9"))
	require.NoError(t, err)

	_, err = svc.Load(context.Background(), documents.KindOrder, "9")
	require.NoError(t, err)
}

func TestNextSlipNumberTracksSaves(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	next, err := svc.NextSlipNumber(ctx, documents.KindBill)
	require.NoError(t, err)
	assert.Equal(t, "1", next)

	_, err = svc.Save(ctx, documents.KindBill, billDoc("41"))
	require.NoError(t, err)

	next, err = svc.NextSlipNumber(ctx, documents.KindBill)
	require.NoError(t, err)
	assert.Equal(t, "42", next)

	// Each workflow sequences independently.
	next, err = svc.NextSlipNumber(ctx, documents.KindOrder)
	require.NoError(t, err)
	assert.Equal(t, "1", next)
}

func TestDeleteBillRestoresStockFirst(t *testing.T) {
	svc, _, restorer := newService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, documents.KindBill, billDoc("7"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, documents.KindBill, "7"))
	require.Len(t, restorer.restored, 1)
	assert.Equal(t, "7", restorer.restored[0].ID)

	_, err = svc.Load(ctx, documents.KindBill, "7")
	require.ErrorIs(t, err, documents.ErrNotFound)
}

func TestDeleteBillAbortsWhenRestoreFails(t *testing.T) {
	svc, _, restorer := newService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, documents.KindBill, billDoc("7"))
	require.NoError(t, err)

	restorer.err = errors.New("catalog down")
	require.Error(t, svc.Delete(ctx, documents.KindBill, "7"))

	// The bill must survive a failed compensation.
	_, err = svc.Load(ctx, documents.KindBill, "7")
	require.NoError(t, err)
}

func TestDeleteOrderSkipsRestore(t *testing.T) {
	svc, _, restorer := newService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, documents.KindOrder, billDoc("7"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, documents.KindOrder, "7"))
	assert.Empty(t, restorer.restored)
}

func TestDeleteMissingDocument(t *testing.T) {
	svc, _, _ := newService(t)
	err := svc.Delete(context.Background(), documents.KindBill, "404")
	require.ErrorIs(t, err, documents.ErrNotFound)
}

func TestConvertOrderMarksCompleted(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, documents.KindOrder, billDoc("15"))
	require.NoError(t, err)

	slipNo, err := svc.ConvertOrder(ctx, "15")
	require.NoError(t, err)
	assert.Equal(t, "15", slipNo)

	loaded, err := svc.Load(ctx, documents.KindOrder, "15")
	require.NoError(t, err)
	assert.Equal(t, documents.OrderStatusCompleted, loaded.Filters.OrderStatus)
}

func TestConvertMissingOrder(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.ConvertOrder(context.Background(), "404")
	require.ErrorIs(t, err, documents.ErrNotFound)
}

func TestLoadBackfillsManualPrices(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	doc := billDoc("2")
	doc.ManualPrices = nil
	_, err := svc.Save(ctx, documents.KindBill, doc)
	require.NoError(t, err)

	loaded, err := svc.Load(ctx, documents.KindBill, "2")
	require.NoError(t, err)
	require.NotNil(t, loaded.ManualPrices)
	assert.Empty(t, loaded.ManualPrices)
}

func TestLoadParsesPlainDate(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	doc := billDoc("2")
	doc.Filters.Date = "2026-08-30"
	_, err := svc.Save(ctx, documents.KindBill, doc)
	require.NoError(t, err)

	loaded, err := svc.Load(ctx, documents.KindBill, "2")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), loaded.Date)
}
