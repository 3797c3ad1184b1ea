package repository

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// DocumentFilter filtros de listado. Los campos vacíos no filtran.
type DocumentFilter struct {
	Kind        entity.DocumentKind
	Status      entity.DocumentStatus
	WarehouseID string
	Search      string // número, proveedor, cliente, motivo o notas
	Limit       int
	Offset      int
}

// DocumentRepository define el puerto de persistencia para documentos y sus líneas.
// El documento es dueño exclusivo de sus líneas.
type DocumentRepository interface {
	// Create persiste cabecera y líneas. Un número repetido para el mismo tipo devuelve *domain.ValidationError.
	Create(ctx context.Context, doc *entity.Document, lines []entity.DocumentLine) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	// Lines devuelve las líneas ordenadas por Position.
	Lines(ctx context.Context, documentID string) ([]entity.DocumentLine, error)
	ReplaceLines(ctx context.Context, documentID string, lines []entity.DocumentLine) error
	// List devuelve documentos del más reciente al más antiguo.
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error)
	// UpdateStatus persiste Status, ValidatedBy, ValidatedAt y UpdatedAt.
	UpdateStatus(ctx context.Context, doc *entity.Document) error
	// NextNumber reserva el siguiente número secuencial del tipo.
	NextNumber(ctx context.Context, kind entity.DocumentKind) (string, error)
}
