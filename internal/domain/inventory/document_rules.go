package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CheckHeader valida los campos de cabecera propios de cada tipo de documento.
func CheckHeader(doc *entity.Document) error {
	if !doc.Kind.Valid() {
		return domain.NewValidationError("kind", "desconocido")
	}
	switch doc.Kind {
	case entity.DocumentKindReceipt:
		if doc.WarehouseID == "" {
			return domain.NewValidationError("warehouse_id", "es requerido")
		}
		if strings.TrimSpace(doc.SupplierName) == "" {
			return domain.NewValidationError("supplier_name", "es requerido")
		}
	case entity.DocumentKindDelivery:
		if doc.WarehouseID == "" {
			return domain.NewValidationError("warehouse_id", "es requerido")
		}
		if strings.TrimSpace(doc.CustomerName) == "" {
			return domain.NewValidationError("customer_name", "es requerido")
		}
	case entity.DocumentKindTransfer:
		if doc.FromWarehouseID == "" || doc.ToWarehouseID == "" {
			return domain.NewValidationError("from_warehouse_id/to_warehouse_id", "son requeridos")
		}
	case entity.DocumentKindAdjustment:
		if doc.WarehouseID == "" {
			return domain.NewValidationError("warehouse_id", "es requerido")
		}
		if strings.TrimSpace(doc.Reason) == "" {
			return domain.NewValidationError("reason", "es requerido")
		}
	}
	return nil
}

// PrepareLines valida las líneas según el tipo del documento y normaliza Position y Difference.
// Recepción/entrega: cantidad > 0 y una ubicación. Traslado: cantidad > 0 y origen != destino.
// Ajuste: físico >= 0 y sistema >= 0; Difference se recalcula siempre.
func PrepareLines(kind entity.DocumentKind, lines []entity.DocumentLine) error {
	for i := range lines {
		l := &lines[i]
		field := fmt.Sprintf("lines[%d]", i)
		l.Position = i + 1
		if l.ProductID == "" {
			return domain.NewValidationError(field+".product_id", "es requerido")
		}
		switch kind {
		case entity.DocumentKindReceipt, entity.DocumentKindDelivery:
			if l.LocationID == "" {
				return domain.NewValidationError(field+".location_id", "es requerido")
			}
			if !l.Quantity.GreaterThan(decimal.Zero) {
				return domain.NewValidationError(field+".quantity", "debe ser mayor que cero")
			}
			if l.UnitCost != nil && l.UnitCost.IsNegative() {
				return domain.NewValidationError(field+".unit_cost", "no puede ser negativo")
			}
			if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
				return domain.NewValidationError(field+".unit_price", "no puede ser negativo")
			}
		case entity.DocumentKindTransfer:
			if l.FromLocationID == "" || l.ToLocationID == "" {
				return domain.NewValidationError(field+".from_location_id/to_location_id", "son requeridos")
			}
			if l.FromLocationID == l.ToLocationID {
				return domain.NewValidationError(field, "origen y destino no pueden ser la misma ubicación")
			}
			if !l.Quantity.GreaterThan(decimal.Zero) {
				return domain.NewValidationError(field+".quantity", "debe ser mayor que cero")
			}
		case entity.DocumentKindAdjustment:
			if l.LocationID == "" {
				return domain.NewValidationError(field+".location_id", "es requerido")
			}
			if l.PhysicalQuantity.IsNegative() || l.SystemQuantity.IsNegative() {
				return domain.NewValidationError(field, "las cantidades física y de sistema no pueden ser negativas")
			}
			l.Difference = l.PhysicalQuantity.Sub(l.SystemQuantity)
			l.Quantity = l.Difference.Abs()
		default:
			return domain.NewValidationError("kind", "desconocido")
		}
	}
	return nil
}
