package inventory

import (
	"time"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Movement efecto de una línea sobre el stock, independiente del almacenamiento.
// Receipt: +Quantity en To. Delivery: -Quantity en From. Transfer: ambos.
// Adjustment: fija To en Physical si el stock actual coincide con Expected; Quantity = diferencia con signo.
type Movement struct {
	Line      *entity.DocumentLine
	Kind      entity.DocumentKind
	ProductID string
	From      string
	To        string
	Quantity  decimal.Decimal
	Physical  decimal.Decimal
	Expected  decimal.Decimal
	UnitCost  *decimal.Decimal
}

// BuildMovements traduce las líneas del documento a movimientos, en el orden de las líneas.
func BuildMovements(doc *entity.Document, lines []entity.DocumentLine) ([]Movement, error) {
	if len(lines) == 0 {
		return nil, domain.NewValidationError("lines", "el documento no tiene líneas")
	}
	out := make([]Movement, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		m := Movement{Line: l, Kind: doc.Kind, ProductID: l.ProductID}
		switch doc.Kind {
		case entity.DocumentKindReceipt:
			m.To = l.LocationID
			m.Quantity = l.Quantity
			m.UnitCost = l.UnitCost
		case entity.DocumentKindDelivery:
			m.From = l.LocationID
			m.Quantity = l.Quantity
		case entity.DocumentKindTransfer:
			m.From = l.FromLocationID
			m.To = l.ToLocationID
			m.Quantity = l.Quantity
		case entity.DocumentKindAdjustment:
			m.To = l.LocationID
			m.Physical = l.PhysicalQuantity
			m.Expected = l.SystemQuantity
			m.Quantity = l.PhysicalQuantity.Sub(l.SystemQuantity)
		default:
			return nil, domain.NewValidationError("kind", "desconocido")
		}
		out = append(out, m)
	}
	return out, nil
}

// Keys pares (producto, ubicación) que tocan los movimientos, sin repetir.
func Keys(movs []Movement) []entity.StockKey {
	seen := make(map[entity.StockKey]struct{})
	var keys []entity.StockKey
	add := func(productID, locationID string) {
		if locationID == "" {
			return
		}
		k := entity.StockKey{ProductID: productID, LocationID: locationID}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for _, m := range movs {
		add(m.ProductID, m.From)
		add(m.ProductID, m.To)
	}
	return keys
}

// Apply aplica el movimiento sobre el cache. Los dos lados de un traslado se validan antes de mutar.
func (m Movement) Apply(cache *StockCache) error {
	switch m.Kind {
	case entity.DocumentKindReceipt:
		_, err := cache.ApplyDelta(m.ProductID, m.To, m.Quantity)
		return err
	case entity.DocumentKindDelivery:
		_, err := cache.ApplyDelta(m.ProductID, m.From, m.Quantity.Neg())
		return err
	case entity.DocumentKindTransfer:
		if err := cache.CheckDelta(m.ProductID, m.From, m.Quantity.Neg()); err != nil {
			return err
		}
		if _, err := cache.ApplyDelta(m.ProductID, m.From, m.Quantity.Neg()); err != nil {
			return err
		}
		_, err := cache.ApplyDelta(m.ProductID, m.To, m.Quantity)
		return err
	case entity.DocumentKindAdjustment:
		current, err := cache.Get(m.ProductID, m.To)
		if err != nil {
			return err
		}
		if !current.Equal(m.Expected) {
			return &domain.StaleAdjustmentError{
				ProductID:  m.ProductID,
				LocationID: m.To,
				Expected:   m.Expected,
				Actual:     current,
			}
		}
		return cache.SetAbsolute(m.ProductID, m.To, m.Physical)
	}
	return domain.NewValidationError("kind", "desconocido")
}

// Entry construye la entrada de ledger del movimiento.
func (m Movement) Entry(doc *entity.Document, txID, createdBy string, now time.Time) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		TransactionID:  txID,
		ProductID:      m.ProductID,
		FromLocationID: m.From,
		ToLocationID:   m.To,
		Quantity:       m.Quantity,
		MovementType:   doc.Kind.MovementType(),
		DocumentID:     doc.ID,
		DocumentNumber: doc.Number,
		DocumentKind:   doc.Kind,
		UnitCost:       m.UnitCost,
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}
}

// LocationIDs ubicaciones referenciadas por la línea (para validar catálogo).
func (m Movement) LocationIDs() []string {
	var ids []string
	if m.From != "" {
		ids = append(ids, m.From)
	}
	if m.To != "" {
		ids = append(ids, m.To)
	}
	return ids
}
