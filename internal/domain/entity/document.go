package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind discrimina las cuatro variantes de documento de stock.
type DocumentKind string

const (
	DocumentKindReceipt    DocumentKind = "receipt"
	DocumentKindDelivery   DocumentKind = "delivery"
	DocumentKindTransfer   DocumentKind = "transfer"
	DocumentKindAdjustment DocumentKind = "adjustment"
)

// DocumentKinds lista los tipos en orden estable (reportes, dashboard).
var DocumentKinds = []DocumentKind{
	DocumentKindReceipt, DocumentKindDelivery, DocumentKindTransfer, DocumentKindAdjustment,
}

// Valid indica si el tipo es uno de los cuatro conocidos.
func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentKindReceipt, DocumentKindDelivery, DocumentKindTransfer, DocumentKindAdjustment:
		return true
	}
	return false
}

// NumberPrefix prefijo del número secuencial legible (REC-00001).
func (k DocumentKind) NumberPrefix() string {
	switch k {
	case DocumentKindReceipt:
		return "REC"
	case DocumentKindDelivery:
		return "DEL"
	case DocumentKindTransfer:
		return "TRF"
	case DocumentKindAdjustment:
		return "ADJ"
	}
	return "DOC"
}

// FormatNumber número legible para el n-ésimo documento del tipo.
func (k DocumentKind) FormatNumber(n int64) string {
	return fmt.Sprintf("%s-%05d", k.NumberPrefix(), n)
}

// MovementType tipo de entrada de ledger que genera el documento.
func (k DocumentKind) MovementType() string {
	return string(k)
}

// DocumentStatus estado del ciclo de vida compartido por todos los tipos.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusWaiting   DocumentStatus = "waiting"
	StatusReady     DocumentStatus = "ready"
	StatusDone      DocumentStatus = "done"
	StatusCancelled DocumentStatus = "cancelled"
)

// Valid indica si el estado es conocido.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusWaiting, StatusReady, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Terminal done y cancelled no admiten más transiciones.
func (s DocumentStatus) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// PendingStatuses estados no terminales (contadores del dashboard).
var PendingStatuses = []DocumentStatus{StatusDraft, StatusWaiting, StatusReady}

// CanTransition aplica la máquina de estados:
//
//	draft --submit--> waiting --approve--> ready --validate--> done
//	draft/waiting/ready --cancel--> cancelled
//
// ready→done solo lo usa el motor de movimientos.
func CanTransition(from, to DocumentStatus) bool {
	switch {
	case from == StatusDraft && to == StatusWaiting:
		return true
	case from == StatusWaiting && to == StatusReady:
		return true
	case from == StatusReady && to == StatusDone:
		return true
	case !from.Terminal() && to == StatusCancelled:
		return true
	}
	return false
}

// Document cabecera de recepción, entrega, traslado o ajuste.
// Los campos de cabecera específicos dependen de Kind:
//   - receipt:    WarehouseID, SupplierName
//   - delivery:   WarehouseID, CustomerName
//   - transfer:   FromWarehouseID, ToWarehouseID
//   - adjustment: WarehouseID, Reason
type Document struct {
	ID              string
	Kind            DocumentKind
	Number          string // secuencial, único por tipo
	Status          DocumentStatus
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	SupplierName    string
	CustomerName    string
	Reason          string
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ValidatedBy     string
	ValidatedAt     *time.Time
}

// TouchesWarehouse indica si el documento pertenece a la bodega (origen o destino en traslados).
func (d *Document) TouchesWarehouse(warehouseID string) bool {
	return d.WarehouseID == warehouseID || d.FromWarehouseID == warehouseID || d.ToWarehouseID == warehouseID
}

// DocumentLine línea de un documento. Los campos de ubicación usados dependen del tipo:
// receipt/delivery/adjustment usan LocationID; transfer usa FromLocationID y ToLocationID.
type DocumentLine struct {
	ID               string
	DocumentID       string
	Position         int
	ProductID        string
	LocationID       string
	FromLocationID   string
	ToLocationID     string
	Quantity         decimal.Decimal
	UnitCost         *decimal.Decimal // recepciones
	UnitPrice        *decimal.Decimal // entregas
	PhysicalQuantity decimal.Decimal  // ajustes: conteo físico
	SystemQuantity   decimal.Decimal  // ajustes: stock leído al preparar el borrador
	Difference       decimal.Decimal  // ajustes: Physical - System
	CreatedAt        time.Time
}
