package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación en memoria de DocumentRepository. Con t == nil cada escritura
// se confirma de inmediato.
type DocumentRepo struct {
	s *Store
	t *tx
}

// NewDocumentRepository repositorio fuera de transacción.
func NewDocumentRepository(s *Store) *DocumentRepo {
	return &DocumentRepo{s: s}
}

func (r *DocumentRepo) view() *tx {
	if r.t != nil {
		return r.t
	}
	return r.s.begin()
}

func (r *DocumentRepo) write(fn func(t *tx) error) error {
	if r.t != nil {
		return fn(r.t)
	}
	return r.s.autocommit(fn)
}

// Create registra cabecera y líneas. La unicidad del número se verifica al confirmar.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document, lines []entity.DocumentLine) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	return r.write(func(t *tx) error {
		if rec, _ := t.document(doc.ID); rec != nil {
			return fmt.Errorf("create document: id %s repetido", doc.ID)
		}
		for id := range t.created {
			other := t.docs[id].doc
			if other.Kind == doc.Kind && other.Number == doc.Number {
				return domain.NewValidationError("number", fmt.Sprintf("%s ya existe para %s", doc.Number, doc.Kind))
			}
		}
		rec := &documentRecord{doc: *doc, lines: stampLines(doc, lines)}
		t.docs[doc.ID] = rec
		t.created[doc.ID] = true
		return nil
	})
}

// GetByID devuelve nil, nil si no existe.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	rec, _ := r.view().document(id)
	if rec == nil {
		return nil, nil
	}
	return copyDocument(rec), nil
}

// GetForUpdate registra la versión leída; si otra transacción modifica el documento antes
// del commit, el commit falla con domain.ErrConcurrencyConflict.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	if r.t == nil {
		return r.GetByID(ctx, id)
	}
	rec, version := r.t.document(id)
	if _, seen := r.t.docReads[id]; !seen && !r.t.created[id] {
		r.t.docReads[id] = version
	}
	if rec == nil {
		return nil, nil
	}
	return copyDocument(rec), nil
}

// Lines líneas ordenadas por Position.
func (r *DocumentRepo) Lines(ctx context.Context, documentID string) ([]entity.DocumentLine, error) {
	rec, _ := r.view().document(documentID)
	if rec == nil {
		return nil, nil
	}
	lines := copyLines(rec.lines)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Position < lines[j].Position })
	return lines, nil
}

// ReplaceLines sustituye todas las líneas del documento.
func (r *DocumentRepo) ReplaceLines(ctx context.Context, documentID string, lines []entity.DocumentLine) error {
	return r.write(func(t *tx) error {
		rec, _ := t.document(documentID)
		if rec == nil {
			return fmt.Errorf("replace lines %s: %w", documentID, domain.ErrNotFound)
		}
		rec.lines = stampLines(&rec.doc, lines)
		t.docs[documentID] = rec
		return nil
	})
}

// List filtra y ordena del más reciente al más antiguo.
func (r *DocumentRepo) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	t := r.view()

	r.s.mu.RLock()
	ids := make([]string, 0, len(r.s.documents)+len(t.docs))
	for id := range r.s.documents {
		ids = append(ids, id)
	}
	r.s.mu.RUnlock()
	for id := range t.created {
		ids = append(ids, id)
	}

	needle := foldText(filter.Search)
	var out []*entity.Document
	for _, id := range ids {
		rec, _ := t.document(id)
		if rec == nil || !matchesFilter(&rec.doc, filter, needle) {
			continue
		}
		out = append(out, copyDocument(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Number > out[j].Number
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesFilter(doc *entity.Document, f repository.DocumentFilter, needle string) bool {
	if f.Kind != "" && doc.Kind != f.Kind {
		return false
	}
	if f.Status != "" && doc.Status != f.Status {
		return false
	}
	if f.WarehouseID != "" && !doc.TouchesWarehouse(f.WarehouseID) {
		return false
	}
	if needle == "" {
		return true
	}
	return containsFolded(needle, doc.Number, doc.SupplierName, doc.CustomerName, doc.Reason, doc.Notes)
}

// UpdateStatus persiste Status, ValidatedBy, ValidatedAt y UpdatedAt.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, doc *entity.Document) error {
	return r.write(func(t *tx) error {
		rec, _ := t.document(doc.ID)
		if rec == nil {
			return fmt.Errorf("update status %s: %w", doc.ID, domain.ErrNotFound)
		}
		rec.doc.Status = doc.Status
		rec.doc.ValidatedBy = doc.ValidatedBy
		rec.doc.ValidatedAt = nil
		if doc.ValidatedAt != nil {
			at := *doc.ValidatedAt
			rec.doc.ValidatedAt = &at
		}
		rec.doc.UpdatedAt = doc.UpdatedAt
		t.docs[doc.ID] = rec
		return nil
	})
}

// NextNumber reserva el siguiente número libre del tipo: REC-00001, DEL-00001...
func (r *DocumentRepo) NextNumber(ctx context.Context, kind entity.DocumentKind) (string, error) {
	return r.s.nextNumber(kind), nil
}

func stampLines(doc *entity.Document, lines []entity.DocumentLine) []entity.DocumentLine {
	out := copyLines(lines)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.New().String()
		}
		out[i].DocumentID = doc.ID
		if out[i].CreatedAt.IsZero() {
			out[i].CreatedAt = doc.UpdatedAt
		}
	}
	return out
}
