package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipbook-erp/slipbook/internal/catalog"
	"github.com/slipbook-erp/slipbook/internal/docstore"
	_ "github.com/slipbook-erp/slipbook/testing"
)

func newCatalog(t *testing.T) *catalog.Service {
	t.Helper()
	return catalog.NewService(catalog.NewRepository(docstore.NewMemory()))
}

func TestCreatePartyRejectsDuplicateNameStation(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	_, err := svc.CreateParty(ctx, catalog.Party{Name: "Sharma Traders", Station: "Indore"})
	require.NoError(t, err)

	_, err = svc.CreateParty(ctx, catalog.Party{Name: "SHARMA TRADERS", Station: "indore"})
	require.ErrorIs(t, err, catalog.ErrDuplicateParty)

	// Same name at a different station is a different party.
	_, err = svc.CreateParty(ctx, catalog.Party{Name: "Sharma Traders", Station: "Bhopal"})
	require.NoError(t, err)
}

func TestCreatePartyRequiresName(t *testing.T) {
	svc := newCatalog(t)
	_, err := svc.CreateParty(context.Background(), catalog.Party{Name: "  "})
	require.ErrorIs(t, err, catalog.ErrInvalidInput)
}

func TestMergePartyPricesLowercasesKeys(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	party, err := svc.CreateParty(ctx, catalog.Party{
		Name:      "Sharma Traders",
		Station:   "Indore",
		PriceList: map[string]float64{"cement": 250},
	})
	require.NoError(t, err)

	err = svc.MergePartyPrices(ctx, "sharma traders", map[string]float64{"Cement": 300, "Steel": 450})
	require.NoError(t, err)

	stored, err := svc.GetParty(ctx, party.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"cement": 300, "steel": 450}, stored.PriceList)
}

func TestMergePartyPricesUnknownPartyIsNoOp(t *testing.T) {
	svc := newCatalog(t)
	err := svc.MergePartyPrices(context.Background(), "Nobody", map[string]float64{"cement": 300})
	require.NoError(t, err)
}

func TestFindItemByNameIsCaseInsensitive(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, catalog.Item{Name: "Cement Bag 50kg", Group: "cement"})
	require.NoError(t, err)

	item, ok, err := svc.FindItemByName(ctx, "CEMENT BAG 50KG")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, item.ID)

	_, ok, err = svc.FindItemByName(ctx, "No Such Item")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdjustBalanceByName(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, catalog.Item{Name: "Cement Bag 50kg", Balance: 5})
	require.NoError(t, err)

	found, err := svc.AdjustBalanceByName(ctx, "cement bag 50kg", 10)
	require.NoError(t, err)
	require.True(t, found)

	item, err := svc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 15.0, item.Balance)

	// Unresolved names are not an error.
	found, err = svc.AdjustBalanceByName(ctx, "ghost", 10)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAdjustBalanceByIDMissingItem(t *testing.T) {
	svc := newCatalog(t)
	err := svc.AdjustBalanceByID(context.Background(), "missing", 1)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestUpdatePartyKeepsID(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateParty(ctx, catalog.Party{Name: "Sharma Traders", Station: "Indore"})
	require.NoError(t, err)

	updated, err := svc.UpdateParty(ctx, created.ID, catalog.Party{Name: "Sharma Traders", Station: "Indore", Phone: "12345"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "12345", updated.Phone)
}

func TestGroupsLifecycle(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, catalog.ItemGroup{Name: "cement"})
	require.NoError(t, err)
	require.NotEmpty(t, group.ID)

	groups, err := svc.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	require.NoError(t, svc.DeleteGroup(ctx, group.ID))
	groups, err = svc.ListGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
