package inventory

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReconcileReport compara el stock cacheado con el saldo reconstruido desde el ledger.
type ReconcileReport struct {
	ProductID  string
	LocationID string
	Cached     decimal.Decimal
	Replayed   decimal.Decimal
	Entries    int
}

// Consistent indica si el cache coincide con el ledger.
func (r ReconcileReport) Consistent() bool { return r.Cached.Equal(r.Replayed) }

// StockQueryUseCase accesores de lectura de stock y ledger (auditoría, reportes) más
// las operaciones de mantenimiento del cache: reconstrucción y reservas.
type StockQueryUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockLevelRepository
	ledger    repository.LedgerRepository
	now       func() time.Time
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(txRunner TxRunner, stockRepo repository.StockLevelRepository, ledger repository.LedgerRepository) *StockQueryUseCase {
	return &StockQueryUseCase{txRunner: txRunner, stockRepo: stockRepo, ledger: ledger, now: time.Now}
}

// GetStockLevel cantidad on-hand del par; 0 si nunca tuvo movimientos.
func (uc *StockQueryUseCase) GetStockLevel(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	if productID == "" || locationID == "" {
		return nil, domain.NewValidationError("product_id/location_id", "son requeridos")
	}
	return uc.stockRepo.Get(ctx, productID, locationID)
}

// ListLevels niveles de un producto (todas las ubicaciones) o de una ubicación (todos los productos).
func (uc *StockQueryUseCase) ListLevels(ctx context.Context, productID, locationID string) ([]*entity.StockLevel, error) {
	switch {
	case productID != "" && locationID != "":
		level, err := uc.stockRepo.Get(ctx, productID, locationID)
		if err != nil {
			return nil, err
		}
		return []*entity.StockLevel{level}, nil
	case productID != "":
		return uc.stockRepo.ListByProduct(ctx, productID)
	case locationID != "":
		return uc.stockRepo.ListByLocation(ctx, locationID)
	}
	return nil, domain.NewValidationError("product_id/location_id", "se requiere al menos uno")
}

// EntriesFor historial del producto (opcionalmente de una ubicación) en orden ascendente.
func (uc *StockQueryUseCase) EntriesFor(ctx context.Context, productID, locationID string) (iter.Seq2[*entity.LedgerEntry, error], error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "es requerido")
	}
	return uc.ledger.EntriesFor(ctx, productID, locationID), nil
}

// EntriesForDocument entradas publicadas por un documento.
func (uc *StockQueryUseCase) EntriesForDocument(ctx context.Context, documentID string) ([]*entity.LedgerEntry, error) {
	return uc.ledger.ListByDocument(ctx, documentID)
}

// Reconcile reproduce el ledger del par y lo compara con el cache, sin modificar nada.
func (uc *StockQueryUseCase) Reconcile(ctx context.Context, productID, locationID string) (*ReconcileReport, error) {
	if productID == "" || locationID == "" {
		return nil, domain.NewValidationError("product_id/location_id", "son requeridos")
	}
	level, err := uc.stockRepo.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	replayed, n, err := inventory.ReplayBalance(uc.ledger.EntriesFor(ctx, productID, locationID), locationID)
	if err != nil {
		return nil, err
	}
	return &ReconcileReport{
		ProductID:  productID,
		LocationID: locationID,
		Cached:     level.Quantity,
		Replayed:   replayed,
		Entries:    n,
	}, nil
}

// Rebuild reescribe la cantidad cacheada con el saldo del ledger, bajo bloqueo de la fila.
func (uc *StockQueryUseCase) Rebuild(ctx context.Context, productID, locationID string) (*ReconcileReport, error) {
	if productID == "" || locationID == "" {
		return nil, domain.NewValidationError("product_id/location_id", "son requeridos")
	}
	var report *ReconcileReport
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		level, err := repos.Stock.GetForUpdate(ctx, productID, locationID)
		if err != nil {
			return err
		}
		replayed, n, err := inventory.ReplayBalance(repos.Ledger.EntriesFor(ctx, productID, locationID), locationID)
		if err != nil {
			return err
		}
		if replayed.IsNegative() {
			return fmt.Errorf("ledger de %s/%s suma %s: %w", productID, locationID, replayed, domain.ErrLedgerInconsistent)
		}
		report = &ReconcileReport{
			ProductID:  productID,
			LocationID: locationID,
			Cached:     level.Quantity,
			Replayed:   replayed,
			Entries:    n,
		}
		if report.Consistent() {
			return nil
		}
		level.Quantity = replayed
		level.UpdatedAt = uc.now().UTC()
		return repos.Stock.Upsert(ctx, level)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Reserve aumenta reserved_quantity; no puede superar la cantidad on-hand.
func (uc *StockQueryUseCase) Reserve(ctx context.Context, productID, locationID string, qty decimal.Decimal) (*entity.StockLevel, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	return uc.updateReserved(ctx, productID, locationID, func(level *entity.StockLevel) error {
		next := level.ReservedQuantity.Add(qty)
		if next.GreaterThan(level.Quantity) {
			return &domain.InsufficientStockError{
				ProductID:  productID,
				LocationID: locationID,
				Available:  level.Quantity.Sub(level.ReservedQuantity),
				Requested:  qty,
			}
		}
		level.ReservedQuantity = next
		return nil
	})
}

// Release libera reserved_quantity (nunca por debajo de cero).
func (uc *StockQueryUseCase) Release(ctx context.Context, productID, locationID string, qty decimal.Decimal) (*entity.StockLevel, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	return uc.updateReserved(ctx, productID, locationID, func(level *entity.StockLevel) error {
		level.ReservedQuantity = decimal.Max(decimal.Zero, level.ReservedQuantity.Sub(qty))
		return nil
	})
}

func (uc *StockQueryUseCase) updateReserved(ctx context.Context, productID, locationID string, fn func(*entity.StockLevel) error) (*entity.StockLevel, error) {
	if productID == "" || locationID == "" {
		return nil, domain.NewValidationError("product_id/location_id", "son requeridos")
	}
	var out *entity.StockLevel
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		level, err := repos.Stock.GetForUpdate(ctx, productID, locationID)
		if err != nil {
			return err
		}
		if err := fn(level); err != nil {
			return err
		}
		level.UpdatedAt = uc.now().UTC()
		if err := repos.Stock.Upsert(ctx, level); err != nil {
			return err
		}
		out = level
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
