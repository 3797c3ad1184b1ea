package repository

import (
	"context"
	"iter"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// LedgerRepository puerto del ledger de movimientos. Solo append: no existe Update ni Delete.
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// EntriesFor recorre las entradas del producto en orden de creación ascendente.
	// locationID vacío = todas las ubicaciones. La secuencia es perezosa y puede recorrerse
	// varias veces; cada recorrido vuelve a consultar el almacenamiento.
	EntriesFor(ctx context.Context, productID, locationID string) iter.Seq2[*entity.LedgerEntry, error]
	ListByDocument(ctx context.Context, documentID string) ([]*entity.LedgerEntry, error)
}
