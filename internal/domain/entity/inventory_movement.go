package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger (uno por tipo de documento).
const (
	MovementTypeReceipt    = "receipt"
	MovementTypeDelivery   = "delivery"
	MovementTypeTransfer   = "transfer"
	MovementTypeAdjustment = "adjustment"
)

// LedgerEntry registro inmutable de un movimiento de stock (append-only: nunca se actualiza ni borra).
// Quantity es positiva en receipt/delivery/transfer y con signo (difference) en adjustment.
type LedgerEntry struct {
	ID             string
	TransactionID  string // agrupa las entradas de una misma validación
	ProductID      string
	FromLocationID string // vacío = sin origen
	ToLocationID   string // vacío = sin destino
	Quantity       decimal.Decimal
	MovementType   string
	DocumentID     string
	DocumentNumber string
	DocumentKind   DocumentKind
	UnitCost       *decimal.Decimal
	CreatedBy      string
	CreatedAt      time.Time
}

// EffectOn devuelve el efecto con signo de la entrada sobre la ubicación indicada.
func (e *LedgerEntry) EffectOn(locationID string) decimal.Decimal {
	effect := decimal.Zero
	if e.ToLocationID == locationID {
		effect = effect.Add(e.Quantity)
	}
	if e.FromLocationID == locationID {
		effect = effect.Sub(e.Quantity)
	}
	return effect
}

// Touches indica si la entrada afecta la ubicación.
func (e *LedgerEntry) Touches(locationID string) bool {
	return e.ToLocationID == locationID || e.FromLocationID == locationID
}
