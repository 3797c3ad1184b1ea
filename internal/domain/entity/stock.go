package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel cantidad actual de un producto en una ubicación (agregado materializado del ledger).
// Se crea al primer movimiento que toca el par; nunca se borra, solo queda en cero.
type StockLevel struct {
	ProductID        string
	LocationID       string
	Quantity         decimal.Decimal // on-hand, siempre >= 0
	ReservedQuantity decimal.Decimal
	UpdatedAt        time.Time
}

// StockKey identifica una fila de StockLevel.
type StockKey struct {
	ProductID  string
	LocationID string
}

// Key devuelve la llave (producto, ubicación) del nivel.
func (s *StockLevel) Key() StockKey {
	return StockKey{ProductID: s.ProductID, LocationID: s.LocationID}
}

// Less orden total usado para bloquear filas siempre en el mismo orden.
func (k StockKey) Less(o StockKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	return k.LocationID < o.LocationID
}
