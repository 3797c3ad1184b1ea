package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.CatalogRepository   = (*CatalogRepo)(nil)
	_ repository.DashboardRepository = (*DashboardRepo)(nil)
)

// CatalogRepo catálogo de solo lectura.
type CatalogRepo struct {
	s *Store
}

// NewCatalogRepository construye el repositorio.
func NewCatalogRepository(s *Store) *CatalogRepo {
	return &CatalogRepo{s: s}
}

func (r *CatalogRepo) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *CatalogRepo) GetWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *CatalogRepo) GetLocation(ctx context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// DashboardRepo agregados de lectura sobre el store.
type DashboardRepo struct {
	s *Store
}

// NewDashboardRepository construye el repositorio.
func NewDashboardRepository(s *Store) *DashboardRepo {
	return &DashboardRepo{s: s}
}

func (r *DashboardRepo) CountActiveProducts(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.products {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *DashboardRepo) CountLowStockProducts(ctx context.Context) (int, error) {
	items, err := r.ListLowStockProducts(ctx, 0)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (r *DashboardRepo) CountPendingDocuments(ctx context.Context, kind entity.DocumentKind) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, rec := range r.s.documents {
		if rec.doc.Kind == kind && !rec.doc.Status.Terminal() {
			n++
		}
	}
	return n, nil
}

// ListLowStockProducts limit <= 0 devuelve todos.
func (r *DashboardRepo) ListLowStockProducts(ctx context.Context, limit int) ([]repository.LowStockItem, error) {
	r.s.mu.RLock()
	totals := make(map[string]decimal.Decimal)
	for k, rec := range r.s.stock {
		totals[k.ProductID] = totals[k.ProductID].Add(rec.level.Quantity)
	}
	var items []repository.LowStockItem
	for _, p := range r.s.products {
		if !p.IsActive {
			continue
		}
		current := totals[p.ID]
		if current.GreaterThan(p.ReorderLevel) {
			continue
		}
		items = append(items, repository.LowStockItem{
			ProductID:    p.ID,
			SKU:          p.SKU,
			ProductName:  p.Name,
			CurrentStock: current,
			ReorderLevel: p.ReorderLevel,
		})
	}
	r.s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		di := items[i].ReorderLevel.Sub(items[i].CurrentStock)
		dj := items[j].ReorderLevel.Sub(items[j].CurrentStock)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return items[i].SKU < items[j].SKU
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
