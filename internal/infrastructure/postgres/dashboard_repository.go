package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas read-only del dashboard.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// lowStockCTE stock total por producto activo (0 si no tiene filas) comparado con su nivel de reorden.
const lowStockCTE = `
	WITH totals AS (
		SELECT p.id, p.sku, p.name, p.reorder_level, COALESCE(SUM(s.quantity), 0) AS current_stock
		FROM products p
		LEFT JOIN stock_levels s ON s.product_id = p.id
		WHERE p.is_active
		GROUP BY p.id, p.sku, p.name, p.reorder_level
	)`

func (r *DashboardRepo) CountActiveProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active products: %w", err)
	}
	return n, nil
}

func (r *DashboardRepo) CountLowStockProducts(ctx context.Context) (int, error) {
	var n int
	query := lowStockCTE + ` SELECT COUNT(*) FROM totals WHERE current_stock <= reorder_level`
	if err := r.q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count low stock products: %w", err)
	}
	return n, nil
}

func (r *DashboardRepo) CountPendingDocuments(ctx context.Context, kind entity.DocumentKind) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM stock_documents WHERE kind = $1 AND status NOT IN ('done', 'cancelled')`
	if err := r.q.QueryRow(ctx, query, kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending %s: %w", kind, err)
	}
	return n, nil
}

// ListLowStockProducts mayor déficit primero; limit <= 0 devuelve todos.
func (r *DashboardRepo) ListLowStockProducts(ctx context.Context, limit int) ([]repository.LowStockItem, error) {
	query := lowStockCTE + `
		SELECT id, sku, name, current_stock, reorder_level
		FROM totals
		WHERE current_stock <= reorder_level
		ORDER BY reorder_level - current_stock DESC, sku`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.ProductName, &it.CurrentStock, &it.ReorderLevel); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
