package inventory

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Documents repository.DocumentRepository
	Stock     repository.StockLevelRepository
	Ledger    repository.LedgerRepository
	Catalog   repository.CatalogRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback completo; si el commit choca con otra transacción
// devuelve domain.ErrConcurrencyConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
