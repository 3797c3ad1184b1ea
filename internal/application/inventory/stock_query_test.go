package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación y reconstrucción del cache
// ──────────────────────────────────────────────────────────────────────────────

func TestStockQuery_RebuildCorrigeCache(t *testing.T) {
	f := newFixture(t, testConfig())
	f.stockIn(t, f.locA, "8")

	// Corrompe la fila por fuera del motor
	repo := memory.NewStockLevelRepository(f.store)
	require.NoError(t, repo.Upsert(context.Background(), &entity.StockLevel{
		ProductID: f.product, LocationID: f.locA, Quantity: d("3"), ReservedQuantity: d("0"), UpdatedAt: time.Now(),
	}))

	rep, err := f.query.Reconcile(context.Background(), f.product, f.locA)
	require.NoError(t, err)
	assert.False(t, rep.Consistent())
	assert.True(t, rep.Cached.Equal(d("3")))
	assert.True(t, rep.Replayed.Equal(d("8")))
	assert.Equal(t, 1, rep.Entries)

	rep, err = f.query.Rebuild(context.Background(), f.product, f.locA)
	require.NoError(t, err)
	assert.True(t, rep.Cached.Equal(d("3")), "el reporte muestra el valor previo")
	assert.True(t, f.level(t, f.locA).Equal(d("8")))
	f.assertConsistent(t, f.locA)
}

func TestStockQuery_RebuildSinCambiosEsIdempotente(t *testing.T) {
	f := newFixture(t, testConfig())
	f.stockIn(t, f.locA, "2")

	for i := 0; i < 2; i++ {
		rep, err := f.query.Rebuild(context.Background(), f.product, f.locA)
		require.NoError(t, err)
		assert.True(t, rep.Consistent())
	}
	assert.True(t, f.level(t, f.locA).Equal(d("2")))
}

func TestStockQuery_ParNuncaMovidoEsCero(t *testing.T) {
	f := newFixture(t, testConfig())

	level, err := f.query.GetStockLevel(context.Background(), f.product, f.locB)
	require.NoError(t, err)
	assert.True(t, level.Quantity.IsZero())

	rep, err := f.query.Reconcile(context.Background(), f.product, f.locB)
	require.NoError(t, err)
	assert.True(t, rep.Consistent())
	assert.Equal(t, 0, rep.Entries)
}

func TestStockQuery_ParametrosRequeridos(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()

	_, err := f.query.GetStockLevel(ctx, "", f.locA)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.query.Reconcile(ctx, f.product, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.query.Rebuild(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.query.ListLevels(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.query.EntriesFor(ctx, "", f.locA)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockQuery_ListLevels(t *testing.T) {
	f := newFixture(t, testConfig())
	f.stockIn(t, f.locA, "1")
	f.stockIn(t, f.locB, "2")
	ctx := context.Background()

	byProduct, err := f.query.ListLevels(ctx, f.product, "")
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	byLocation, err := f.query.ListLevels(ctx, "", f.locB)
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.True(t, byLocation[0].Quantity.Equal(d("2")))
}

func TestStockQuery_LedgerDeDocumento(t *testing.T) {
	f := newFixture(t, testConfig())
	id := f.create(t, f.receipt(f.locA, "4"), entity.StatusReady)
	res, err := f.engine.ValidateReceipt(context.Background(), id, validator)
	require.NoError(t, err)

	entries, err := f.query.EntriesForDocument(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, res.Entries[0].TransactionID, entries[0].TransactionID)
	assert.Equal(t, "REC-00001", entries[0].DocumentNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservas
// ──────────────────────────────────────────────────────────────────────────────

func TestStockQuery_Reservas(t *testing.T) {
	f := newFixture(t, testConfig())
	f.stockIn(t, f.locA, "5")
	ctx := context.Background()

	level, err := f.query.Reserve(ctx, f.product, f.locA, d("3"))
	require.NoError(t, err)
	assert.True(t, level.ReservedQuantity.Equal(d("3")))

	_, err = f.query.Reserve(ctx, f.product, f.locA, d("3"))
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(d("2")))

	level, err = f.query.Release(ctx, f.product, f.locA, d("10"))
	require.NoError(t, err)
	assert.True(t, level.ReservedQuantity.IsZero(), "liberar de más deja la reserva en cero")
	assert.True(t, level.Quantity.Equal(d("5")))

	_, err = f.query.Reserve(ctx, f.product, f.locA, d("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.query.Release(ctx, f.product, f.locA, d("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
