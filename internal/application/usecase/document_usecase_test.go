package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/application/usecase"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

const creator = "00000000-0000-0000-0000-0000000000c1"

type docFixture struct {
	uc      *usecase.DocumentUseCase
	engine  *inventory.ValidateDocumentUseCase
	wh      string
	loc     string
	product string
}

func newDocFixture(t *testing.T) *docFixture {
	t.Helper()
	store := memory.NewStore()
	wh := store.AddWarehouse(entity.Warehouse{Code: "WH", Name: "Principal", IsActive: true})
	loc, err := store.AddLocation(entity.Location{WarehouseID: wh.ID, Code: "WH/STOCK", Name: "Stock", IsActive: true})
	require.NoError(t, err)
	p := store.AddProduct(entity.Product{SKU: "SKU-1", Name: "Tuerca", IsActive: true})
	txRunner := memory.NewTxRunner(store)
	return &docFixture{
		uc:      usecase.NewDocumentUseCase(txRunner, memory.NewDocumentRepository(store)),
		engine:  inventory.NewValidateDocumentUseCase(txRunner, logger.NewNop(), inventory.DefaultEngineConfig()),
		wh:      wh.ID,
		loc:     loc.ID,
		product: p.ID,
	}
}

func (f *docFixture) receipt(q string) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{
		Kind: "Receipt", WarehouseID: f.wh, SupplierName: "Ferretería Andina",
		Lines: []dto.DocumentLineRequest{{ProductID: f.product, LocationID: f.loc, Quantity: decimal.RequireFromString(q)}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestDocumentUseCase_CreateNumeraPorTipo(t *testing.T) {
	f := newDocFixture(t)
	ctx := context.Background()

	first, err := f.uc.Create(ctx, creator, f.receipt("1"))
	require.NoError(t, err)
	second, err := f.uc.Create(ctx, creator, f.receipt("2"))
	require.NoError(t, err)
	delivery, err := f.uc.Create(ctx, creator, dto.CreateDocumentRequest{
		Kind: "delivery", WarehouseID: f.wh, CustomerName: "Cliente",
		Lines: []dto.DocumentLineRequest{{ProductID: f.product, LocationID: f.loc, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	assert.Equal(t, "REC-00001", first.Number)
	assert.Equal(t, "REC-00002", second.Number)
	assert.Equal(t, "DEL-00001", delivery.Number)
	assert.Equal(t, "receipt", first.Kind)
	assert.Equal(t, "draft", first.Status)
	assert.Equal(t, creator, first.CreatedBy)
	require.Len(t, first.Lines, 1)
	assert.Equal(t, 1, first.Lines[0].Position)
}

func TestDocumentUseCase_CreateNumeroManualRepetido(t *testing.T) {
	f := newDocFixture(t)
	ctx := context.Background()
	in := f.receipt("1")
	in.Number = "REC-MANUAL"

	_, err := f.uc.Create(ctx, creator, in)
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, creator, in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "number", verr.Field)
}

func TestDocumentUseCase_NumeracionSaltaNumerosManuales(t *testing.T) {
	f := newDocFixture(t)
	ctx := context.Background()
	for _, n := range []string{"REC-00001", "REC-00002"} {
		in := f.receipt("1")
		in.Number = n
		_, err := f.uc.Create(ctx, creator, in)
		require.NoError(t, err)
	}

	auto, err := f.uc.Create(ctx, creator, f.receipt("1"))
	require.NoError(t, err)
	assert.Equal(t, "REC-00003", auto.Number)

	next, err := f.uc.Create(ctx, creator, f.receipt("1"))
	require.NoError(t, err)
	assert.Equal(t, "REC-00004", next.Number)
}

func TestDocumentUseCase_CreateRechazaEntradas(t *testing.T) {
	f := newDocFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*dto.CreateDocumentRequest)
		want   error
	}{
		{"tipo desconocido", func(in *dto.CreateDocumentRequest) { in.Kind = "return" }, domain.ErrInvalidInput},
		{"sin bodega", func(in *dto.CreateDocumentRequest) { in.WarehouseID = "" }, domain.ErrInvalidInput},
		{"bodega inexistente", func(in *dto.CreateDocumentRequest) {
			in.WarehouseID = "00000000-0000-0000-0000-00000000dead"
		}, domain.ErrUnknownReference},
		{"cantidad cero", func(in *dto.CreateDocumentRequest) { in.Lines[0].Quantity = decimal.Zero }, domain.ErrInvalidInput},
		{"sin producto", func(in *dto.CreateDocumentRequest) { in.Lines[0].ProductID = "" }, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.receipt("1")
			tt.mutate(&in)
			_, err := f.uc.Create(ctx, creator, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDocumentUseCase_AjusteCapturaStockDelSistema(t *testing.T) {
	f := newDocFixture(t)
	ctx := context.Background()

	rec, err := f.uc.Create(ctx, creator, f.receipt("6"))
	require.NoError(t, err)
	_, err = f.uc.Submit(ctx, rec.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, rec.ID)
	require.NoError(t, err)
	_, err = f.engine.ValidateReceipt(ctx, rec.ID, creator)
	require.NoError(t, err)

	explicit := decimal.NewFromInt(4)
	adj, err := f.uc.Create(ctx, creator, dto.CreateDocumentRequest{
		Kind: "adjustment", WarehouseID: f.wh, Reason: "Conteo",
		Lines: []dto.DocumentLineRequest{
			{ProductID: f.product, LocationID: f.loc, PhysicalQuantity: decimal.NewFromInt(9)},
			{ProductID: f.product, LocationID: f.loc, PhysicalQuantity: decimal.NewFromInt(1), SystemQuantity: &explicit},
		},
	})
	require.NoError(t, err)
	require.Len(t, adj.Lines, 2)

	captured := adj.Lines[0]
	require.NotNil(t, captured.SystemQuantity)
	require.NotNil(t, captured.Difference)
	assert.True(t, captured.SystemQuantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, captured.Difference.Equal(decimal.NewFromInt(3)))
	assert.True(t, captured.Quantity.Equal(decimal.NewFromInt(3)))

	given := adj.Lines[1]
	require.NotNil(t, given.SystemQuantity)
	assert.True(t, given.SystemQuantity.Equal(explicit))
	assert.True(t, given.Difference.Equal(decimal.NewFromInt(-3)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestDocumentUseCase_Transiciones(t *testing.T) {
	f := newDocFixture(t)
	ctx := context.Background()
	doc, err := f.uc.Create(ctx, creator, f.receipt("1"))
	require.NoError(t, err)

	_, err = f.uc.Approve(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "draft → ready no está permitido")

	got, err := f.uc.Submit(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "waiting", got.Status)

	got, err = f.uc.Approve(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "ready", got.Status)

	got, err = f.uc.Cancel(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)

	_, err = f.uc.Submit(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Cancel(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDocumentUseCase_SubmitSinLineas(t *testing.T) {
	f := newDocFixture(t)
	ctx := context.Background()
	in := f.receipt("1")
	in.Lines = nil
	doc, err := f.uc.Create(ctx, creator, in)
	require.NoError(t, err)

	_, err = f.uc.Submit(ctx, doc.ID)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "lines", verr.Field)
}

func TestDocumentUseCase_ReplaceLinesSoloEnBorrador(t *testing.T) {
	f := newDocFixture(t)
	ctx := context.Background()
	doc, err := f.uc.Create(ctx, creator, f.receipt("1"))
	require.NoError(t, err)

	lines := []dto.DocumentLineRequest{
		{ProductID: f.product, LocationID: f.loc, Quantity: decimal.NewFromInt(2)},
		{ProductID: f.product, LocationID: f.loc, Quantity: decimal.NewFromInt(3)},
	}
	got, err := f.uc.ReplaceLines(ctx, doc.ID, lines)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[1].Quantity.Equal(decimal.NewFromInt(3)))

	_, err = f.uc.Submit(ctx, doc.ID)
	require.NoError(t, err)
	_, err = f.uc.ReplaceLines(ctx, doc.ID, lines)
	assert.ErrorIs(t, err, domain.ErrDocumentLocked)

	_, err = f.uc.ReplaceLines(ctx, "00000000-0000-0000-0000-000000000404", lines)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentUseCase_GetInexistente(t *testing.T) {
	f := newDocFixture(t)
	_, err := f.uc.Get(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestDocumentUseCase_ListFiltraYBuscaSinTildes(t *testing.T) {
	f := newDocFixture(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, creator, f.receipt("1"))
	require.NoError(t, err)
	other := f.receipt("1")
	other.SupplierName = "Distribuidora Norte"
	_, err = f.uc.Create(ctx, creator, other)
	require.NoError(t, err)

	res, err := f.uc.List(ctx, dto.DocumentFilterRequest{Search: "FERRETERIA"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Ferretería Andina", res.Items[0].SupplierName)
	assert.Empty(t, res.Items[0].Lines, "el listado no trae líneas")
	assert.Equal(t, 20, res.Page.Limit)

	res, err = f.uc.List(ctx, dto.DocumentFilterRequest{Kind: "receipt", Status: "draft", WarehouseID: f.wh})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	res, err = f.uc.List(ctx, dto.DocumentFilterRequest{PageRequest: dto.PageRequest{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	_, err = f.uc.List(ctx, dto.DocumentFilterRequest{Status: "archivado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentUseCase_ListAcotaLimite(t *testing.T) {
	f := newDocFixture(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, creator, f.receipt("1"))
	require.NoError(t, err)

	res, err := f.uc.List(ctx, dto.DocumentFilterRequest{PageRequest: dto.PageRequest{Limit: 10000, Offset: -5}})
	require.NoError(t, err)
	assert.Equal(t, dto.MaxPageLimit, res.Page.Limit)
	assert.Equal(t, 0, res.Page.Offset)
	assert.Len(t, res.Items, 1)
}
