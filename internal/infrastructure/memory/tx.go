package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// tx unidad de trabajo optimista. Las escrituras quedan pendientes hasta commit;
// las lecturas ven primero lo pendiente y luego el store.
type tx struct {
	s          *Store
	docReads   map[string]int64
	stockReads map[entity.StockKey]int64
	docs       map[string]*documentRecord
	created    map[string]bool
	stock      map[entity.StockKey]entity.StockLevel
	ledger     []entity.LedgerEntry
}

func (s *Store) begin() *tx {
	return &tx{
		s:          s,
		docReads:   make(map[string]int64),
		stockReads: make(map[entity.StockKey]int64),
		docs:       make(map[string]*documentRecord),
		created:    make(map[string]bool),
		stock:      make(map[entity.StockKey]entity.StockLevel),
	}
}

// document devuelve una copia del registro (pendiente o confirmado) y la versión confirmada en el store.
func (t *tx) document(id string) (*documentRecord, int64) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	var version int64
	stored, ok := t.s.documents[id]
	if ok {
		version = stored.version
	}
	if rec, pending := t.docs[id]; pending {
		return rec, version
	}
	if !ok {
		return nil, 0
	}
	return &documentRecord{doc: *copyDocument(stored), lines: copyLines(stored.lines), version: version}, version
}

// stockLevel nivel actual (pendiente o confirmado) y versión confirmada; versión 0 = la fila no existe.
func (t *tx) stockLevel(k entity.StockKey) (entity.StockLevel, int64) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	var version int64
	stored, ok := t.s.stock[k]
	if ok {
		version = stored.version
	}
	if level, pending := t.stock[k]; pending {
		return level, version
	}
	if !ok {
		return entity.StockLevel{ProductID: k.ProductID, LocationID: k.LocationID}, 0
	}
	return stored.level, version
}

func (t *tx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, seen := range t.docReads {
		var current int64
		if rec, ok := s.documents[id]; ok {
			current = rec.version
		}
		if current != seen {
			return fmt.Errorf("documento %s modificado por otra transacción: %w", id, domain.ErrConcurrencyConflict)
		}
	}
	for k, seen := range t.stockReads {
		var current int64
		if rec, ok := s.stock[k]; ok {
			current = rec.version
		}
		if current != seen {
			return fmt.Errorf("stock %s/%s modificado por otra transacción: %w", k.ProductID, k.LocationID, domain.ErrConcurrencyConflict)
		}
	}
	for id := range t.created {
		if _, ok := s.documents[id]; ok {
			return fmt.Errorf("documento %s ya existe: %w", id, domain.ErrConcurrencyConflict)
		}
		doc := t.docs[id].doc
		if owner, ok := s.numbers[numberKey(doc.Kind, doc.Number)]; ok && owner != id {
			return domain.NewValidationError("number", fmt.Sprintf("%s ya existe para %s", doc.Number, doc.Kind))
		}
	}

	for id, rec := range t.docs {
		var version int64 = 1
		if prev, ok := s.documents[id]; ok {
			version = prev.version + 1
		}
		s.documents[id] = &documentRecord{doc: rec.doc, lines: rec.lines, version: version}
		s.numbers[numberKey(rec.doc.Kind, rec.doc.Number)] = id
	}
	for k, level := range t.stock {
		var version int64 = 1
		if prev, ok := s.stock[k]; ok {
			version = prev.version + 1
		}
		s.stock[k] = &stockRecord{level: level, version: version}
	}
	s.ledger = append(s.ledger, t.ledger...)
	return nil
}

func (t *tx) repos() inventory.TxRepos {
	return inventory.TxRepos{
		Documents: &DocumentRepo{s: t.s, t: t},
		Stock:     &StockLevelRepo{s: t.s, t: t},
		Ledger:    &LedgerRepo{s: t.s, t: t},
		Catalog:   &CatalogRepo{s: t.s},
	}
}

// TxRunner ejecuta callbacks dentro de una transacción del store en memoria.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner con el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos atados a una transacción nueva. Si fn falla se descarta todo;
// si otra transacción modificó una fila bloqueada devuelve domain.ErrConcurrencyConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := r.s.begin()
	if err := fn(t.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.commit()
}

// autocommit ejecuta una escritura suelta (repos fuera de transacción).
func (s *Store) autocommit(fn func(t *tx) error) error {
	t := s.begin()
	if err := fn(t); err != nil {
		return err
	}
	return t.commit()
}
