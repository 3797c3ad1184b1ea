package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Si alguna métrica falla, Degraded es true y Unavailable indica cuáles; el resto se entrega igual.
type DashboardSummaryDTO struct {
	ActiveProducts     int `json:"active_products"`
	LowStockProducts   int `json:"low_stock_products"`
	PendingReceipts    int `json:"pending_receipts"`
	PendingDeliveries  int `json:"pending_deliveries"`
	PendingTransfers   int `json:"pending_transfers"`
	PendingAdjustments int `json:"pending_adjustments"`

	// Productos bajo el nivel de reorden, mayor déficit primero
	LowStock []LowStockItemDTO `json:"low_stock"`

	Degraded    bool     `json:"degraded"`
	Unavailable []string `json:"unavailable,omitempty"`
}

// LowStockItemDTO producto activo con stock total <= nivel de reorden.
type LowStockItemDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	Deficit      decimal.Decimal `json:"deficit"` // reorder_level - current_stock
}
