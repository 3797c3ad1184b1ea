package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (datos de referencia, solo lectura para el motor).
// ReorderLevel lo mantiene el administrador del catálogo; el stock vive en StockLevel por ubicación.
type Product struct {
	ID           string
	SKU          string // único
	Name         string
	Category     string
	UnitMeasure  string
	ReorderLevel decimal.Decimal
	UnitCost     *decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
