package repository

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// CatalogRepository acceso de solo lectura a productos, bodegas y ubicaciones.
// El mantenimiento del catálogo es externo; todos los métodos devuelven nil, nil si no existe.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	GetWarehouse(ctx context.Context, id string) (*entity.Warehouse, error)
	GetLocation(ctx context.Context, id string) (*entity.Location, error)
}
