package repository

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// StockLevelRepository define el puerto para consultar/actualizar stock por (producto, ubicación).
// Usado dentro de transacciones para garantizar consistencia con el ledger.
type StockLevelRepository interface {
	// Get devuelve el nivel actual; si no existe, un nivel en cero (nunca nil sin error).
	Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila (creándola en cero si no existe) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error)
	Upsert(ctx context.Context, level *entity.StockLevel) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error)
	ListByLocation(ctx context.Context, locationID string) ([]*entity.StockLevel, error)
}
