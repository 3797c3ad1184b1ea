package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/inventory"
)

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheckHeader(t *testing.T) {
	tests := []struct {
		name  string
		doc   entity.Document
		field string // vacío = válido
	}{
		{"recepción completa", entity.Document{Kind: entity.DocumentKindReceipt, WarehouseID: "wh", SupplierName: "Acme"}, ""},
		{"recepción sin proveedor", entity.Document{Kind: entity.DocumentKindReceipt, WarehouseID: "wh"}, "supplier_name"},
		{"entrega sin bodega", entity.Document{Kind: entity.DocumentKindDelivery, CustomerName: "Cliente"}, "warehouse_id"},
		{"entrega sin cliente", entity.Document{Kind: entity.DocumentKindDelivery, WarehouseID: "wh", CustomerName: "  "}, "customer_name"},
		{"traslado sin destino", entity.Document{Kind: entity.DocumentKindTransfer, FromWarehouseID: "a"}, "from_warehouse_id/to_warehouse_id"},
		{"traslado misma bodega", entity.Document{Kind: entity.DocumentKindTransfer, FromWarehouseID: "a", ToWarehouseID: "a"}, ""},
		{"ajuste sin motivo", entity.Document{Kind: entity.DocumentKindAdjustment, WarehouseID: "wh"}, "reason"},
		{"tipo desconocido", entity.Document{Kind: "return"}, "kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := inventory.CheckHeader(&tt.doc)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "se esperaba ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPrepareLines_RecepcionCantidadCero(t *testing.T) {
	lines := []entity.DocumentLine{
		{ProductID: "p1", LocationID: "l1", Quantity: qty("2")},
		{ProductID: "p1", LocationID: "l1", Quantity: decimal.Zero},
	}
	err := inventory.PrepareLines(entity.DocumentKindReceipt, lines)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "lines[1].quantity", verr.Field)
}

func TestPrepareLines_TrasladoMismaUbicacion(t *testing.T) {
	lines := []entity.DocumentLine{{ProductID: "p1", FromLocationID: "l1", ToLocationID: "l1", Quantity: qty("1")}}
	assert.ErrorIs(t, inventory.PrepareLines(entity.DocumentKindTransfer, lines), domain.ErrInvalidInput)
}

func TestPrepareLines_AjusteRecalculaDiferencia(t *testing.T) {
	lines := []entity.DocumentLine{
		{ProductID: "p1", LocationID: "l1", PhysicalQuantity: qty("9"), SystemQuantity: qty("6"), Difference: qty("100")},
		{ProductID: "p2", LocationID: "l1", PhysicalQuantity: decimal.Zero, SystemQuantity: qty("4")},
	}
	require.NoError(t, inventory.PrepareLines(entity.DocumentKindAdjustment, lines))

	assert.Equal(t, 1, lines[0].Position)
	assert.Equal(t, 2, lines[1].Position)
	assert.True(t, lines[0].Difference.Equal(qty("3")))
	assert.True(t, lines[0].Quantity.Equal(qty("3")))
	assert.True(t, lines[1].Difference.Equal(qty("-4")))
	assert.True(t, lines[1].Quantity.Equal(qty("4")))
}

func TestPrepareLines_AjusteNegativo(t *testing.T) {
	lines := []entity.DocumentLine{{ProductID: "p1", LocationID: "l1", PhysicalQuantity: qty("-1")}}
	assert.ErrorIs(t, inventory.PrepareLines(entity.DocumentKindAdjustment, lines), domain.ErrInvalidInput)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, entity.CanTransition(entity.StatusDraft, entity.StatusWaiting))
	assert.True(t, entity.CanTransition(entity.StatusWaiting, entity.StatusReady))
	assert.True(t, entity.CanTransition(entity.StatusReady, entity.StatusDone))
	assert.True(t, entity.CanTransition(entity.StatusDraft, entity.StatusCancelled))
	assert.True(t, entity.CanTransition(entity.StatusReady, entity.StatusCancelled))

	assert.False(t, entity.CanTransition(entity.StatusDraft, entity.StatusReady))
	assert.False(t, entity.CanTransition(entity.StatusDone, entity.StatusCancelled))
	assert.False(t, entity.CanTransition(entity.StatusCancelled, entity.StatusDraft))
	assert.False(t, entity.CanTransition(entity.StatusWaiting, entity.StatusDraft))
}
