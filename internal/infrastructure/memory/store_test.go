package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
)

func newDoc(number string) *entity.Document {
	now := time.Now().UTC()
	return &entity.Document{
		Kind: entity.DocumentKindReceipt, Number: number, Status: entity.StatusDraft,
		SupplierName: "Proveedor", CreatedAt: now, UpdatedAt: now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones optimistas
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_ConflictoEnDocumento(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()
	doc := newDoc("REC-1")
	require.NoError(t, memory.NewDocumentRepository(store).Create(ctx, doc, nil))

	err := runner.Run(ctx, func(repos inventory.TxRepos) error {
		mine, err := repos.Documents.GetForUpdate(ctx, doc.ID)
		require.NoError(t, err)

		// Otra transacción confirma primero sobre el mismo documento
		require.NoError(t, runner.Run(ctx, func(other inventory.TxRepos) error {
			d, err := other.Documents.GetForUpdate(ctx, doc.ID)
			if err != nil {
				return err
			}
			d.Status = entity.StatusCancelled
			return other.Documents.UpdateStatus(ctx, d)
		}))

		mine.Status = entity.StatusWaiting
		return repos.Documents.UpdateStatus(ctx, mine)
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	got, err := memory.NewDocumentRepository(store).GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
}

func TestTxRunner_ConflictoEnFilaDeStock(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()

	bump := func(repos inventory.TxRepos, qty int64) error {
		level, err := repos.Stock.GetForUpdate(ctx, "p", "l")
		if err != nil {
			return err
		}
		level.Quantity = level.Quantity.Add(decimal.NewFromInt(qty))
		return repos.Stock.Upsert(ctx, level)
	}

	err := runner.Run(ctx, func(repos inventory.TxRepos) error {
		// Lee la fila inexistente (versión 0) y otra tx la crea antes del commit
		if _, err := repos.Stock.GetForUpdate(ctx, "p", "l"); err != nil {
			return err
		}
		require.NoError(t, runner.Run(ctx, func(other inventory.TxRepos) error { return bump(other, 5) }))
		return bump(repos, 1)
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	level, err := memory.NewStockLevelRepository(store).Get(ctx, "p", "l")
	require.NoError(t, err)
	assert.True(t, level.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestTxRunner_ErrorDescartaTodo(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()
	boom := errors.New("boom")

	err := runner.Run(ctx, func(repos inventory.TxRepos) error {
		require.NoError(t, repos.Documents.Create(ctx, newDoc("REC-1"), nil))
		require.NoError(t, repos.Ledger.Append(ctx, &entity.LedgerEntry{ProductID: "p", ToLocationID: "l", Quantity: decimal.NewFromInt(1)}))
		require.NoError(t, repos.Stock.Upsert(ctx, &entity.StockLevel{ProductID: "p", LocationID: "l", Quantity: decimal.NewFromInt(1)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	docs, err := memory.NewDocumentRepository(store).List(ctx, repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Empty(t, docs)
	n := 0
	for range memory.NewLedgerRepository(store).EntriesFor(ctx, "p", "") {
		n++
	}
	assert.Zero(t, n)
	level, err := memory.NewStockLevelRepository(store).Get(ctx, "p", "l")
	require.NoError(t, err)
	assert.True(t, level.Quantity.IsZero())
}

func TestTxRunner_LedgerPendienteVisibleEnLaMismaTx(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()
	outside := memory.NewLedgerRepository(store)

	require.NoError(t, runner.Run(ctx, func(repos inventory.TxRepos) error {
		require.NoError(t, repos.Ledger.Append(ctx, &entity.LedgerEntry{ProductID: "p", ToLocationID: "l", Quantity: decimal.NewFromInt(2)}))

		inside, outsideCount := 0, 0
		for _, err := range repos.Ledger.EntriesFor(ctx, "p", "l") {
			require.NoError(t, err)
			inside++
		}
		for range outside.EntriesFor(ctx, "p", "l") {
			outsideCount++
		}
		assert.Equal(t, 1, inside)
		assert.Zero(t, outsideCount, "no visible fuera de la tx antes del commit")
		return nil
	}))

	n := 0
	for range outside.EntriesFor(ctx, "p", "l") {
		n++
	}
	assert.Equal(t, 1, n)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	runner := memory.NewTxRunner(memory.NewStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := runner.Run(ctx, func(inventory.TxRepos) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestDocumentRepo_NumeroUnicoEntreTransacciones(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()

	err := runner.Run(ctx, func(repos inventory.TxRepos) error {
		require.NoError(t, repos.Documents.Create(ctx, newDoc("REC-7"), nil))
		require.NoError(t, runner.Run(ctx, func(other inventory.TxRepos) error {
			return other.Documents.Create(ctx, newDoc("REC-7"), nil)
		}))
		return nil
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "number", verr.Field)
}

func TestDocumentRepo_NextNumberPorTipo(t *testing.T) {
	repo := memory.NewDocumentRepository(memory.NewStore())
	ctx := context.Background()

	for _, want := range []string{"ADJ-00001", "ADJ-00002"} {
		got, err := repo.NextNumber(ctx, entity.DocumentKindAdjustment)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := repo.NextNumber(ctx, entity.DocumentKindTransfer)
	require.NoError(t, err)
	assert.Equal(t, "TRF-00001", got)
}

func TestDocumentRepo_BusquedaSinTildesNiMayusculas(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewDocumentRepository(store)
	ctx := context.Background()

	adj := newDoc("ADJ-1")
	adj.Kind = entity.DocumentKindAdjustment
	adj.Reason = "Corrección por Recepción dañada"
	require.NoError(t, repo.Create(ctx, adj, nil))
	require.NoError(t, repo.Create(ctx, newDoc("REC-1"), nil))

	for _, q := range []string{"recepcion", "CORRECCIÓN", "  dañada "} {
		got, err := repo.List(ctx, repository.DocumentFilter{Search: q})
		require.NoError(t, err)
		require.Len(t, got, 1, q)
		assert.Equal(t, "ADJ-1", got[0].Number)
	}
	got, err := repo.List(ctx, repository.DocumentFilter{Kind: entity.DocumentKindReceipt})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "REC-1", got[0].Number)
}

func TestDocumentRepo_LineasOrdenadas(t *testing.T) {
	repo := memory.NewDocumentRepository(memory.NewStore())
	ctx := context.Background()
	doc := newDoc("REC-1")
	require.NoError(t, repo.Create(ctx, doc, []entity.DocumentLine{
		{Position: 2, ProductID: "b"},
		{Position: 1, ProductID: "a"},
	}))

	lines, err := repo.Lines(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].ProductID)
	assert.Equal(t, doc.ID, lines[0].DocumentID)
	assert.NotEmpty(t, lines[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboardRepo_BajoStock(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	low := store.AddProduct(entity.Product{SKU: "A", Name: "A", ReorderLevel: decimal.NewFromInt(10), IsActive: true})
	store.AddProduct(entity.Product{SKU: "B", Name: "B", ReorderLevel: decimal.NewFromInt(2), IsActive: true})
	ok := store.AddProduct(entity.Product{SKU: "C", Name: "C", ReorderLevel: decimal.NewFromInt(1), IsActive: true})
	store.AddProduct(entity.Product{SKU: "D", Name: "D", ReorderLevel: decimal.NewFromInt(50), IsActive: false})

	stock := memory.NewStockLevelRepository(store)
	require.NoError(t, stock.Upsert(ctx, &entity.StockLevel{ProductID: low.ID, LocationID: "l1", Quantity: decimal.NewFromInt(3)}))
	require.NoError(t, stock.Upsert(ctx, &entity.StockLevel{ProductID: ok.ID, LocationID: "l1", Quantity: decimal.NewFromInt(5)}))

	repo := memory.NewDashboardRepository(store)
	items, err := repo.ListLowStockProducts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].SKU, "déficit 7 antes que déficit 2")
	assert.Equal(t, "B", items[1].SKU)

	n, err := repo.CountLowStockProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = repo.CountActiveProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	items, err = repo.ListLowStockProducts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
