package inventory

import (
	"iter"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReplayBalance suma el efecto de las entradas sobre la ubicación (invariante de saldo corrido).
// Devuelve el saldo y cuántas entradas tocaron la ubicación.
func ReplayBalance(entries iter.Seq2[*entity.LedgerEntry, error], locationID string) (decimal.Decimal, int, error) {
	balance := decimal.Zero
	n := 0
	for e, err := range entries {
		if err != nil {
			return decimal.Zero, 0, err
		}
		if !e.Touches(locationID) {
			continue
		}
		balance = balance.Add(e.EffectOn(locationID))
		n++
	}
	return balance, n, nil
}
