package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

type documentRecord struct {
	doc     entity.Document
	lines   []entity.DocumentLine
	version int64
}

type stockRecord struct {
	level   entity.StockLevel
	version int64
}

// Store backend en memoria para desarrollo y tests (DB_DRIVER=memory).
// Las transacciones son optimistas: registran la versión de cada fila leída con GetForUpdate
// y al hacer commit, si alguna cambió, devuelven domain.ErrConcurrencyConflict.
type Store struct {
	mu         sync.RWMutex
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	locations  map[string]entity.Location
	documents  map[string]*documentRecord
	numbers    map[string]string // kind|number -> document id
	sequences  map[entity.DocumentKind]int
	stock      map[entity.StockKey]*stockRecord
	ledger     []entity.LedgerEntry
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		locations:  make(map[string]entity.Location),
		documents:  make(map[string]*documentRecord),
		numbers:    make(map[string]string),
		sequences:  make(map[entity.DocumentKind]int),
		stock:      make(map[entity.StockKey]*stockRecord),
	}
}

// AddProduct registra un producto del catálogo. Genera ID si viene vacío.
func (s *Store) AddProduct(p entity.Product) entity.Product {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
		p.UpdatedAt = p.CreatedAt
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return p
}

// AddWarehouse registra una bodega.
func (s *Store) AddWarehouse(w entity.Warehouse) entity.Warehouse {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
		w.UpdatedAt = w.CreatedAt
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[w.ID] = w
	return w
}

// AddLocation registra una ubicación; la bodega debe existir y el código ser único dentro de ella.
func (s *Store) AddLocation(l entity.Location) (entity.Location, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
		l.UpdatedAt = l.CreatedAt
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[l.WarehouseID]; !ok {
		return entity.Location{}, fmt.Errorf("add location: bodega %s no existe", l.WarehouseID)
	}
	for _, other := range s.locations {
		if other.WarehouseID == l.WarehouseID && other.Code == l.Code && other.ID != l.ID {
			return entity.Location{}, fmt.Errorf("add location: código %s repetido en bodega %s", l.Code, l.WarehouseID)
		}
	}
	s.locations[l.ID] = l
	return l, nil
}

// SetProductActive activa o desactiva un producto (tests de referencias inactivas).
func (s *Store) SetProductActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.IsActive = active
		s.products[id] = p
	}
}

// Seed carga un catálogo mínimo de demostración: una bodega con dos ubicaciones y tres productos.
func (s *Store) Seed() error {
	wh := s.AddWarehouse(entity.Warehouse{Code: "WH", Name: "Bodega principal", IsActive: true})
	for _, code := range []string{"WH/STOCK", "WH/SHELF-A"} {
		if _, err := s.AddLocation(entity.Location{WarehouseID: wh.ID, Code: code, Name: code, IsActive: true}); err != nil {
			return err
		}
	}
	for _, sku := range []string{"SKU-0001", "SKU-0002", "SKU-0003"} {
		s.AddProduct(entity.Product{SKU: sku, Name: "Producto " + sku, UnitMeasure: "UND", IsActive: true})
	}
	return nil
}

func numberKey(kind entity.DocumentKind, number string) string {
	return string(kind) + "|" + number
}

// nextNumber avanza el contador del tipo fuera de la transacción (igual que una secuencia SQL:
// un rollback deja un hueco en la numeración). Salta los números ya tomados a mano.
func (s *Store) nextNumber(kind entity.DocumentKind) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		s.sequences[kind]++
		number := kind.FormatNumber(int64(s.sequences[kind]))
		if _, taken := s.numbers[numberKey(kind, number)]; !taken {
			return number
		}
	}
}

func copyDocument(rec *documentRecord) *entity.Document {
	d := rec.doc
	if rec.doc.ValidatedAt != nil {
		t := *rec.doc.ValidatedAt
		d.ValidatedAt = &t
	}
	return &d
}

func copyLines(lines []entity.DocumentLine) []entity.DocumentLine {
	out := make([]entity.DocumentLine, len(lines))
	copy(out, lines)
	return out
}
