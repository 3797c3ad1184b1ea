package postgres

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo ledger de movimientos sobre PostgreSQL. La tabla rechaza UPDATE y DELETE por trigger.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `
	id, transaction_id, product_id, from_location_id, to_location_id, quantity, movement_type,
	document_id, document_number, document_kind, unit_cost, created_by, created_at`

// Append inserta una entrada. seq (bigserial) fija el orden de inserción.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `INSERT INTO stock_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.TransactionID, e.ProductID, nullable(e.FromLocationID), nullable(e.ToLocationID),
		e.Quantity, e.MovementType, e.DocumentID, e.DocumentNumber, e.DocumentKind,
		e.UnitCost, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// EntriesFor cada recorrido ejecuta la consulta y escanea fila a fila (no carga todo en memoria).
func (r *LedgerRepo) EntriesFor(ctx context.Context, productID, locationID string) iter.Seq2[*entity.LedgerEntry, error] {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE product_id = $1`
	args := []any{productID}
	if locationID != "" {
		query += ` AND (from_location_id = $2 OR to_location_id = $2)`
		args = append(args, locationID)
	}
	query += ` ORDER BY seq`

	return func(yield func(*entity.LedgerEntry, error) bool) {
		if !validIDs(productID) || (locationID != "" && !validIDs(locationID)) {
			return
		}
		rows, err := r.q.Query(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("query ledger: %w", err))
			return
		}
		defer rows.Close()
		for rows.Next() {
			e, err := scanLedgerEntry(rows)
			if err != nil {
				yield(nil, fmt.Errorf("scan ledger entry: %w", err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("iterate ledger: %w", err))
		}
	}
}

// ListByDocument entradas publicadas por un documento.
func (r *LedgerRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.LedgerEntry, error) {
	if _, err := uuid.Parse(documentID); err != nil {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+ledgerColumns+` FROM stock_ledger WHERE document_id = $1 ORDER BY seq`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by document: %w", err)
	}
	defer rows.Close()
	var out []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanLedgerEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var from, to *string
	err := row.Scan(
		&e.ID, &e.TransactionID, &e.ProductID, &from, &to, &e.Quantity, &e.MovementType,
		&e.DocumentID, &e.DocumentNumber, &e.DocumentKind, &e.UnitCost, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.FromLocationID, e.ToLocationID = deref(from), deref(to)
	return &e, nil
}
