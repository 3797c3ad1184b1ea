package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevelResponse stock de un producto en una ubicación.
type StockLevelResponse struct {
	ProductID        string          `json:"product_id"`
	LocationID       string          `json:"location_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
	Available        decimal.Decimal `json:"available"` // quantity - reserved_quantity
	UpdatedAt        time.Time       `json:"updated_at"`
}

// LedgerEntryResponse entrada del ledger de movimientos.
type LedgerEntryResponse struct {
	ID             string           `json:"id"`
	TransactionID  string           `json:"transaction_id"`
	ProductID      string           `json:"product_id"`
	FromLocationID string           `json:"from_location_id,omitempty"`
	ToLocationID   string           `json:"to_location_id,omitempty"`
	Quantity       decimal.Decimal  `json:"quantity"`
	MovementType   string           `json:"movement_type"`
	DocumentID     string           `json:"document_id"`
	DocumentNumber string           `json:"document_number"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	CreatedBy      string           `json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
}

// StockQueryRequest query de /api/stock/levels, /api/stock/ledger y /api/stock/reconcile;
// body de /api/stock/rebuild.
type StockQueryRequest struct {
	ProductID  string `query:"product_id" json:"product_id"`
	LocationID string `query:"location_id" json:"location_id"`
}

// ReconcileResponse resultado de comparar el stock cacheado con el ledger.
type ReconcileResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Cached     decimal.Decimal `json:"cached"`
	Replayed   decimal.Decimal `json:"replayed"`
	Entries    int             `json:"entries"`
	Consistent bool            `json:"consistent"`
}

// ReservationRequest body para POST/DELETE /api/stock/reservations.
type ReservationRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}
