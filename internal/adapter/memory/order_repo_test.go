package memory

import (
	"context"
	"testing"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, id string) *entity.Order {
	t.Helper()
	order, err := entity.NewOrder("l1", "Tomatoes", "f1", "Urban Pantry", 2, 90)
	require.NoError(t, err)
	order.ID = id
	return order
}

func TestOrderRepository_CreatePrependsNewestFirst(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestOrder(t, "o1")))
	require.NoError(t, repo.Create(ctx, newTestOrder(t, "o2")))

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Equal(t, "o1", orders[1].ID)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestOrder(t, "o1")))
	require.NoError(t, repo.Create(ctx, newTestOrder(t, "o2")))

	require.NoError(t, repo.UpdateStatus(ctx, "o1", entity.StatusAccepted))

	got, err := repo.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, got.Status)

	// collection order is untouched by a status update
	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "o2", orders[0].ID)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", entity.StatusAccepted), repository.ErrNotFound)
}

func TestOrderRepository_GetByID_ReturnsCopy(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestOrder(t, "o1")))

	got, err := repo.GetByID(ctx, "o1")
	require.NoError(t, err)
	got.Status = entity.StatusCompleted

	again, err := repo.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, again.Status)
}
