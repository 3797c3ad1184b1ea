package repository

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LowStockItem producto activo cuyo stock total es <= su nivel de reorden.
type LowStockItem struct {
	ProductID    string
	SKU          string
	ProductName  string
	CurrentStock decimal.Decimal
	ReorderLevel decimal.Decimal
}

// DashboardRepository consultas de lectura para el dashboard. No modifican datos.
type DashboardRepository interface {
	CountActiveProducts(ctx context.Context) (int, error)
	// CountLowStockProducts cuenta productos activos con SUM(stock) <= reorder_level.
	CountLowStockProducts(ctx context.Context) (int, error)
	// CountPendingDocuments cuenta documentos del tipo en estado no terminal.
	CountPendingDocuments(ctx context.Context, kind entity.DocumentKind) (int, error)
	// ListLowStockProducts ordenados por mayor déficit primero.
	ListLowStockProducts(ctx context.Context, limit int) ([]LowStockItem, error)
}
