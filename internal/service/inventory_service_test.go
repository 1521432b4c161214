package service

import (
	"context"
	"sync"
	"testing"

	"shopfloor/internal/dto"
	"shopfloor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInbound_CreatesMaterialOnFirstReceipt(t *testing.T) {
	f := newFixture(t)

	m, err := f.inventory.Inbound(context.Background(), dto.InboundRequest{Code: "STEEL", Name: "Steel", Amount: 100})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, "STEEL", m.Code)
	assert.Equal(t, "Steel", m.Name)
	assert.Equal(t, 100, m.CurrentStock)
}

func TestInbound_AddsToStockAndKeepsFirstName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.inventory.Inbound(ctx, dto.InboundRequest{Code: "STEEL", Name: "Steel", Amount: 100})
	require.NoError(t, err)
	m, err := f.inventory.Inbound(ctx, dto.InboundRequest{Code: "STEEL", Name: "Renamed", Amount: 50})
	require.NoError(t, err)

	assert.Equal(t, 150, m.CurrentStock)
	assert.Equal(t, "Steel", m.Name)

	all, err := f.inventory.ListMaterials(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 150, all[0].CurrentStock)
}

func TestInbound_NegativeAmountIsAccepted(t *testing.T) {
	f := newFixture(t)

	m, err := f.inventory.Inbound(context.Background(), dto.InboundRequest{Code: "BOLT", Name: "Bolt", Amount: -5})
	require.NoError(t, err)
	assert.Equal(t, -5, m.CurrentStock)
}

func TestInbound_ConcurrentReceiptsAreNotLost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.inventory.Inbound(ctx, dto.InboundRequest{Code: "NUT", Name: "Nut", Amount: 5})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := f.inventory.ListMaterials(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, n*5, all[0].CurrentStock)
}

func TestListMovements_RecordsInboundHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.inventory.Inbound(ctx, dto.InboundRequest{Code: "STEEL", Name: "Steel", Amount: 100})
	require.NoError(t, err)
	_, err = f.inventory.Inbound(ctx, dto.InboundRequest{Code: "STEEL", Amount: 20})
	require.NoError(t, err)
	_, err = f.inventory.Inbound(ctx, dto.InboundRequest{Code: "PAINT", Name: "Paint", Amount: 3})
	require.NoError(t, err)

	movs, err := f.inventory.ListMovements(ctx, dto.MovementFilter{MaterialCode: "STEEL", Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, movs, 2)

	assert.Equal(t, model.MovementInbound, movs[0].Type)
	assert.Equal(t, "STEEL", movs[0].MaterialCode)
	assert.Equal(t, 20, movs[0].Quantity)
	assert.Equal(t, 100, movs[0].StockBefore)
	assert.Equal(t, 120, movs[0].StockAfter)
	assert.Equal(t, 0, movs[1].StockBefore)
	assert.Equal(t, 100, movs[1].StockAfter)

	all, err := f.inventory.ListMovements(ctx, dto.MovementFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListMovements_UnknownMaterial(t *testing.T) {
	f := newFixture(t)

	_, err := f.inventory.ListMovements(context.Background(), dto.MovementFilter{MaterialCode: "NOPE", Page: 1, Limit: 50})
	assert.ErrorIs(t, err, ErrMaterialNotFound)
}
