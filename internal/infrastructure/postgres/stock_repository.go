package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// Get obtiene el stock actual; nivel en cero si la fila no existe.
func (r *StockLevelRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	if !validIDs(productID, locationID) {
		return zeroLevel(productID, locationID), nil
	}
	query := `
		SELECT product_id, location_id, quantity, reserved_quantity, updated_at
		FROM stock_levels WHERE product_id = $1 AND location_id = $2`
	level, err := scanStockLevel(r.q.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zeroLevel(productID, locationID), nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return level, nil
}

// GetForUpdate crea la fila en cero si no existe y la bloquea (SELECT FOR UPDATE). Así dos
// transacciones que tocan un par nuevo también se serializan sobre la misma fila.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	if !validIDs(productID) {
		return nil, &domain.UnknownReferenceError{Kind: "product", ID: productID}
	}
	if !validIDs(locationID) {
		return nil, &domain.UnknownReferenceError{Kind: "location", ID: locationID}
	}
	insert := `
		INSERT INTO stock_levels (product_id, location_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID, locationID); err != nil {
		if isForeignKeyViolation(err) {
			return nil, &domain.UnknownReferenceError{Kind: "product/location", ID: productID + "/" + locationID}
		}
		return nil, fmt.Errorf("ensure stock level: %w", err)
	}
	query := `
		SELECT product_id, location_id, quantity, reserved_quantity, updated_at
		FROM stock_levels WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	level, err := scanStockLevel(r.q.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return level, nil
}

// Upsert inserta o actualiza la fila completa.
func (r *StockLevelRepo) Upsert(ctx context.Context, level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (product_id, location_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved_quantity = EXCLUDED.reserved_quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, level.ProductID, level.LocationID, level.Quantity, level.ReservedQuantity, level.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return &domain.InsufficientStockError{
				ProductID:  level.ProductID,
				LocationID: level.LocationID,
				Available:  decimal.Zero,
				Requested:  level.Quantity.Neg(),
			}
		}
		return fmt.Errorf("upsert stock level: %w", err)
	}
	return nil
}

// ListByProduct niveles del producto en todas las ubicaciones.
func (r *StockLevelRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error) {
	return r.list(ctx, `
		SELECT product_id, location_id, quantity, reserved_quantity, updated_at
		FROM stock_levels WHERE product_id = $1 ORDER BY location_id`, productID)
}

// ListByLocation niveles de todos los productos en la ubicación.
func (r *StockLevelRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.StockLevel, error) {
	return r.list(ctx, `
		SELECT product_id, location_id, quantity, reserved_quantity, updated_at
		FROM stock_levels WHERE location_id = $1 ORDER BY product_id`, locationID)
}

func (r *StockLevelRepo) list(ctx context.Context, query string, arg string) ([]*entity.StockLevel, error) {
	if !validIDs(arg) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockLevel
	for rows.Next() {
		level, err := scanStockLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		out = append(out, level)
	}
	return out, rows.Err()
}

func scanStockLevel(row pgx.Row) (*entity.StockLevel, error) {
	var s entity.StockLevel
	if err := row.Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// validIDs las columnas de referencia son UUID: un ID mal formado no puede existir.
func validIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

func zeroLevel(productID, locationID string) *entity.StockLevel {
	return &entity.StockLevel{
		ProductID:        productID,
		LocationID:       locationID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}
}
