package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockCache vista de trabajo sobre StockLevelRepository dentro de la transacción del caller.
// Lock bloquea las filas; ApplyDelta/SetAbsolute solo mutan la copia local y Flush escribe
// las filas modificadas. Si algo falla antes de Flush no se escribió nada.
type StockCache struct {
	repo   repository.StockLevelRepository
	levels map[entity.StockKey]*entity.StockLevel
	dirty  map[entity.StockKey]bool
}

// NewStockCache construye el cache sobre el repositorio atado a la transacción.
func NewStockCache(repo repository.StockLevelRepository) *StockCache {
	return &StockCache{
		repo:   repo,
		levels: make(map[entity.StockKey]*entity.StockLevel),
		dirty:  make(map[entity.StockKey]bool),
	}
}

// Lock bloquea (SELECT FOR UPDATE) las filas en orden (producto, ubicación) para evitar deadlocks
// entre validaciones concurrentes que tocan pares en común.
func (c *StockCache) Lock(ctx context.Context, keys []entity.StockKey) error {
	sorted := make([]entity.StockKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	for _, k := range sorted {
		if _, ok := c.levels[k]; ok {
			continue
		}
		level, err := c.repo.GetForUpdate(ctx, k.ProductID, k.LocationID)
		if err != nil {
			return err
		}
		c.levels[k] = level
	}
	return nil
}

func (c *StockCache) level(productID, locationID string) (*entity.StockLevel, error) {
	k := entity.StockKey{ProductID: productID, LocationID: locationID}
	level, ok := c.levels[k]
	if !ok {
		return nil, fmt.Errorf("stock cache: fila %s/%s no bloqueada", productID, locationID)
	}
	return level, nil
}

// Get cantidad on-hand actual (0 si la fila no existía).
func (c *StockCache) Get(productID, locationID string) (decimal.Decimal, error) {
	level, err := c.level(productID, locationID)
	if err != nil {
		return decimal.Zero, err
	}
	return level.Quantity, nil
}

// CheckDelta verifica que el delta no deje la cantidad negativa, sin mutar.
func (c *StockCache) CheckDelta(productID, locationID string, delta decimal.Decimal) error {
	level, err := c.level(productID, locationID)
	if err != nil {
		return err
	}
	if level.Quantity.Add(delta).IsNegative() {
		return &domain.InsufficientStockError{
			ProductID:  productID,
			LocationID: locationID,
			Available:  level.Quantity,
			Requested:  delta.Neg(),
		}
	}
	return nil
}

// ApplyDelta suma delta a la cantidad y devuelve la nueva. Falla con *domain.InsufficientStockError
// si quedaría negativa.
func (c *StockCache) ApplyDelta(productID, locationID string, delta decimal.Decimal) (decimal.Decimal, error) {
	if err := c.CheckDelta(productID, locationID, delta); err != nil {
		return decimal.Zero, err
	}
	level, _ := c.level(productID, locationID)
	level.Quantity = level.Quantity.Add(delta)
	c.dirty[level.Key()] = true
	return level.Quantity, nil
}

// SetAbsolute fija la cantidad on-hand (ajustes). La cantidad debe ser >= 0.
func (c *StockCache) SetAbsolute(productID, locationID string, quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return domain.NewValidationError("quantity", "no puede ser negativa")
	}
	level, err := c.level(productID, locationID)
	if err != nil {
		return err
	}
	level.Quantity = quantity
	c.dirty[level.Key()] = true
	return nil
}

// Levels filas cargadas (para logs y respuestas).
func (c *StockCache) Levels() []*entity.StockLevel {
	out := make([]*entity.StockLevel, 0, len(c.levels))
	for _, l := range c.levels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out
}

// Flush escribe las filas modificadas.
func (c *StockCache) Flush(ctx context.Context, now time.Time) error {
	for _, level := range c.Levels() {
		if !c.dirty[level.Key()] {
			continue
		}
		level.UpdatedAt = now
		if err := c.repo.Upsert(ctx, level); err != nil {
			return err
		}
	}
	c.dirty = make(map[entity.StockKey]bool)
	return nil
}
