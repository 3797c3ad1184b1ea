package memory

import (
	"context"
	"iter"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var (
	_ repository.StockLevelRepository = (*StockLevelRepo)(nil)
	_ repository.LedgerRepository     = (*LedgerRepo)(nil)
)

// StockLevelRepo implementación en memoria de StockLevelRepository.
type StockLevelRepo struct {
	s *Store
	t *tx
}

// NewStockLevelRepository repositorio fuera de transacción.
func NewStockLevelRepository(s *Store) *StockLevelRepo {
	return &StockLevelRepo{s: s}
}

func (r *StockLevelRepo) view() *tx {
	if r.t != nil {
		return r.t
	}
	return r.s.begin()
}

// Get nivel actual; un nivel en cero si el par nunca tuvo movimientos.
func (r *StockLevelRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	level, _ := r.view().stockLevel(entity.StockKey{ProductID: productID, LocationID: locationID})
	return &level, nil
}

// GetForUpdate registra la versión leída de la fila (0 si no existe) para el control optimista.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	if r.t == nil {
		return r.Get(ctx, productID, locationID)
	}
	k := entity.StockKey{ProductID: productID, LocationID: locationID}
	level, version := r.t.stockLevel(k)
	if _, seen := r.t.stockReads[k]; !seen {
		r.t.stockReads[k] = version
	}
	return &level, nil
}

// Upsert escribe la fila completa.
func (r *StockLevelRepo) Upsert(ctx context.Context, level *entity.StockLevel) error {
	write := func(t *tx) error {
		t.stock[level.Key()] = *level
		return nil
	}
	if r.t != nil {
		return write(r.t)
	}
	return r.s.autocommit(write)
}

// ListByProduct niveles del producto en todas las ubicaciones, ordenados por ubicación.
func (r *StockLevelRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error) {
	return r.list(func(k entity.StockKey) bool { return k.ProductID == productID }), nil
}

// ListByLocation niveles de todos los productos en la ubicación.
func (r *StockLevelRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.StockLevel, error) {
	return r.list(func(k entity.StockKey) bool { return k.LocationID == locationID }), nil
}

func (r *StockLevelRepo) list(match func(entity.StockKey) bool) []*entity.StockLevel {
	t := r.view()
	keys := make(map[entity.StockKey]struct{})
	r.s.mu.RLock()
	for k := range r.s.stock {
		if match(k) {
			keys[k] = struct{}{}
		}
	}
	r.s.mu.RUnlock()
	for k := range t.stock {
		if match(k) {
			keys[k] = struct{}{}
		}
	}
	out := make([]*entity.StockLevel, 0, len(keys))
	for k := range keys {
		level, _ := t.stockLevel(k)
		out = append(out, &level)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out
}

// LedgerRepo implementación en memoria del ledger. Solo append.
type LedgerRepo struct {
	s *Store
	t *tx
}

// NewLedgerRepository repositorio fuera de transacción.
func NewLedgerRepository(s *Store) *LedgerRepo {
	return &LedgerRepo{s: s}
}

// Append agrega la entrada (visible para otros al confirmar la transacción).
func (r *LedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	write := func(t *tx) error {
		t.ledger = append(t.ledger, *entry)
		return nil
	}
	if r.t != nil {
		return write(r.t)
	}
	return r.s.autocommit(write)
}

// EntriesFor cada recorrido toma una foto del ledger confirmado (más lo pendiente de la tx) y la recorre
// en orden de inserción.
func (r *LedgerRepo) EntriesFor(ctx context.Context, productID, locationID string) iter.Seq2[*entity.LedgerEntry, error] {
	match := func(e *entity.LedgerEntry) bool {
		return e.ProductID == productID && (locationID == "" || e.Touches(locationID))
	}
	return func(yield func(*entity.LedgerEntry, error) bool) {
		for _, e := range r.snapshot(match) {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// ListByDocument entradas publicadas por el documento.
func (r *LedgerRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.LedgerEntry, error) {
	return r.snapshot(func(e *entity.LedgerEntry) bool { return e.DocumentID == documentID }), nil
}

func (r *LedgerRepo) snapshot(match func(*entity.LedgerEntry) bool) []*entity.LedgerEntry {
	var out []*entity.LedgerEntry
	r.s.mu.RLock()
	for i := range r.s.ledger {
		if match(&r.s.ledger[i]) {
			e := r.s.ledger[i]
			out = append(out, &e)
		}
	}
	r.s.mu.RUnlock()
	if r.t != nil {
		for i := range r.t.ledger {
			if match(&r.t.ledger[i]) {
				e := r.t.ledger[i]
				out = append(out, &e)
			}
		}
	}
	return out
}
