package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest línea de entrada. Los campos usados dependen del tipo de documento.
type DocumentLineRequest struct {
	ProductID        string           `json:"product_id"`
	LocationID       string           `json:"location_id,omitempty"`
	FromLocationID   string           `json:"from_location_id,omitempty"`
	ToLocationID     string           `json:"to_location_id,omitempty"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	PhysicalQuantity decimal.Decimal  `json:"physical_quantity"`
	SystemQuantity   *decimal.Decimal `json:"system_quantity,omitempty"` // ajustes: nil = se toma el stock actual
}

// CreateDocumentRequest body para POST /api/documents.
type CreateDocumentRequest struct {
	Kind            string                `json:"kind"`
	Number          string                `json:"number,omitempty"` // vacío = siguiente de la secuencia
	WarehouseID     string                `json:"warehouse_id,omitempty"`
	FromWarehouseID string                `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string                `json:"to_warehouse_id,omitempty"`
	SupplierName    string                `json:"supplier_name,omitempty"`
	CustomerName    string                `json:"customer_name,omitempty"`
	Reason          string                `json:"reason,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	Lines           []DocumentLineRequest `json:"lines"`
}

// ReplaceLinesRequest body para PUT /api/documents/:id/lines.
type ReplaceLinesRequest struct {
	Lines []DocumentLineRequest `json:"lines"`
}

// DocumentFilterRequest query de GET /api/documents.
type DocumentFilterRequest struct {
	Kind        string `query:"kind"`
	Status      string `query:"status"`
	WarehouseID string `query:"warehouse_id"`
	Search      string `query:"q"`
	PageRequest
}

// DocumentLineResponse línea de salida.
type DocumentLineResponse struct {
	ID               string           `json:"id"`
	Position         int              `json:"position"`
	ProductID        string           `json:"product_id"`
	LocationID       string           `json:"location_id,omitempty"`
	FromLocationID   string           `json:"from_location_id,omitempty"`
	ToLocationID     string           `json:"to_location_id,omitempty"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	PhysicalQuantity *decimal.Decimal `json:"physical_quantity,omitempty"`
	SystemQuantity   *decimal.Decimal `json:"system_quantity,omitempty"`
	Difference       *decimal.Decimal `json:"difference,omitempty"`
}

// DocumentResponse salida de un documento. Lines solo viene en el detalle.
type DocumentResponse struct {
	ID              string                 `json:"id"`
	Kind            string                 `json:"kind"`
	Number          string                 `json:"number"`
	Status          string                 `json:"status"`
	WarehouseID     string                 `json:"warehouse_id,omitempty"`
	FromWarehouseID string                 `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string                 `json:"to_warehouse_id,omitempty"`
	SupplierName    string                 `json:"supplier_name,omitempty"`
	CustomerName    string                 `json:"customer_name,omitempty"`
	Reason          string                 `json:"reason,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	CreatedBy       string                 `json:"created_by"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	ValidatedBy     string                 `json:"validated_by,omitempty"`
	ValidatedAt     *time.Time             `json:"validated_at,omitempty"`
	Lines           []DocumentLineResponse `json:"lines,omitempty"`
}

// DocumentListResponse lista paginada de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ValidationResponse respuesta de POST /api/documents/:kind/:id/validate.
type ValidationResponse struct {
	DocumentID  string                `json:"document_id"`
	Number      string                `json:"number"`
	Kind        string                `json:"kind"`
	Status      string                `json:"status"`
	ValidatedBy string                `json:"validated_by"`
	ValidatedAt time.Time             `json:"validated_at"`
	Attempts    int                   `json:"attempts"`
	Entries     []LedgerEntryResponse `json:"entries"`
	Levels      []StockLevelResponse  `json:"levels"`
}
