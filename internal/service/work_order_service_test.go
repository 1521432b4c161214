package service

import (
	"context"
	"testing"

	"shopfloor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkOrder_StartsWaiting(t *testing.T) {
	f := newFixture(t)

	wo := f.createOrder(t, "P1", 5)
	assert.NotZero(t, wo.ID)
	assert.Equal(t, "P1", wo.ProductCode)
	assert.Equal(t, 5, wo.TargetQty)
	assert.Equal(t, 0, wo.CurrentQty)
	assert.Equal(t, model.WOStatusWaiting, wo.Status)
	assert.Nil(t, wo.AssignedMachineID)
}

func TestListWorkOrders_NewestFirst(t *testing.T) {
	f := newFixture(t)

	o1 := f.createOrder(t, "P1", 1)
	o2 := f.createOrder(t, "P2", 1)
	o3 := f.createOrder(t, "P3", 1)

	list, err := f.orders.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uint{o3.ID, o2.ID, o1.ID}, []uint{list[0].ID, list[1].ID, list[2].ID})
}

func TestGetWorkOrder(t *testing.T) {
	f := newFixture(t)
	created := f.createOrder(t, "P1", 2)

	got, err := f.orders.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.orders.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
