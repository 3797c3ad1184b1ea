package dto

import (
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ToDocumentResponse convierte cabecera y (opcionalmente) líneas.
func ToDocumentResponse(d *entity.Document, lines []entity.DocumentLine) *DocumentResponse {
	if d == nil {
		return nil
	}
	out := &DocumentResponse{
		ID:              d.ID,
		Kind:            string(d.Kind),
		Number:          d.Number,
		Status:          string(d.Status),
		WarehouseID:     d.WarehouseID,
		FromWarehouseID: d.FromWarehouseID,
		ToWarehouseID:   d.ToWarehouseID,
		SupplierName:    d.SupplierName,
		CustomerName:    d.CustomerName,
		Reason:          d.Reason,
		Notes:           d.Notes,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		ValidatedBy:     d.ValidatedBy,
		ValidatedAt:     d.ValidatedAt,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, toLineResponse(d.Kind, l))
	}
	return out
}

func toLineResponse(kind entity.DocumentKind, l entity.DocumentLine) DocumentLineResponse {
	out := DocumentLineResponse{
		ID:             l.ID,
		Position:       l.Position,
		ProductID:      l.ProductID,
		LocationID:     l.LocationID,
		FromLocationID: l.FromLocationID,
		ToLocationID:   l.ToLocationID,
		Quantity:       l.Quantity,
		UnitCost:       l.UnitCost,
		UnitPrice:      l.UnitPrice,
	}
	if kind == entity.DocumentKindAdjustment {
		physical, system, diff := l.PhysicalQuantity, l.SystemQuantity, l.Difference
		out.PhysicalQuantity = &physical
		out.SystemQuantity = &system
		out.Difference = &diff
	}
	return out
}

// ToLineEntities convierte las líneas de entrada; PrepareLines completa Position y Difference.
// El segundo valor marca las líneas de ajuste sin system_quantity (se toma del stock actual).
func ToLineEntities(in []DocumentLineRequest) ([]entity.DocumentLine, []bool) {
	lines := make([]entity.DocumentLine, 0, len(in))
	capture := make([]bool, 0, len(in))
	for _, l := range in {
		var system decimal.Decimal
		if l.SystemQuantity != nil {
			system = *l.SystemQuantity
		}
		capture = append(capture, l.SystemQuantity == nil)
		lines = append(lines, entity.DocumentLine{
			ProductID:        l.ProductID,
			LocationID:       l.LocationID,
			FromLocationID:   l.FromLocationID,
			ToLocationID:     l.ToLocationID,
			Quantity:         l.Quantity,
			UnitCost:         l.UnitCost,
			UnitPrice:        l.UnitPrice,
			PhysicalQuantity: l.PhysicalQuantity,
			SystemQuantity:   system,
		})
	}
	return lines, capture
}

// ToLedgerEntryResponse convierte una entrada del ledger.
func ToLedgerEntryResponse(e *entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:             e.ID,
		TransactionID:  e.TransactionID,
		ProductID:      e.ProductID,
		FromLocationID: e.FromLocationID,
		ToLocationID:   e.ToLocationID,
		Quantity:       e.Quantity,
		MovementType:   e.MovementType,
		DocumentID:     e.DocumentID,
		DocumentNumber: e.DocumentNumber,
		UnitCost:       e.UnitCost,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
	}
}

// ToStockLevelResponse convierte un nivel de stock.
func ToStockLevelResponse(s *entity.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductID:        s.ProductID,
		LocationID:       s.LocationID,
		Quantity:         s.Quantity,
		ReservedQuantity: s.ReservedQuantity,
		Available:        s.Quantity.Sub(s.ReservedQuantity),
		UpdatedAt:        s.UpdatedAt,
	}
}
