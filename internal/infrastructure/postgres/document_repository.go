package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre PostgreSQL (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `
	id, kind, number, status, warehouse_id, from_warehouse_id, to_warehouse_id,
	supplier_name, customer_name, reason, notes, created_by, created_at, updated_at,
	validated_by, validated_at`

// Create persiste cabecera y líneas. Número repetido para el tipo → *domain.ValidationError.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document, lines []entity.DocumentLine) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.Kind, doc.Number, doc.Status,
		nullable(doc.WarehouseID), nullable(doc.FromWarehouseID), nullable(doc.ToWarehouseID),
		doc.SupplierName, doc.CustomerName, doc.Reason, doc.Notes,
		doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt,
		nullable(doc.ValidatedBy), doc.ValidatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("number", fmt.Sprintf("%s ya existe para %s", doc.Number, doc.Kind))
		}
		return fmt.Errorf("create document: %w", err)
	}
	return r.insertLines(ctx, doc.ID, doc.CreatedAt, lines)
}

func (r *DocumentRepo) insertLines(ctx context.Context, documentID string, now time.Time, lines []entity.DocumentLine) error {
	query := `
		INSERT INTO stock_document_lines (
			id, document_id, position, product_id, location_id, from_location_id, to_location_id,
			quantity, unit_cost, unit_price, physical_quantity, system_quantity, difference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	for i := range lines {
		l := &lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.DocumentID = documentID
		if l.CreatedAt.IsZero() {
			l.CreatedAt = now
		}
		_, err := r.q.Exec(ctx, query,
			l.ID, documentID, l.Position, l.ProductID,
			nullable(l.LocationID), nullable(l.FromLocationID), nullable(l.ToLocationID),
			l.Quantity, l.UnitCost, l.UnitPrice, l.PhysicalQuantity, l.SystemQuantity, l.Difference, l.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert document line %d: %w", l.Position, err)
		}
	}
	return nil
}

// GetByID obtiene un documento por ID; nil, nil si no existe.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.get(ctx, `SELECT `+documentColumns+` FROM stock_documents WHERE id = $1`, id)
}

// GetForUpdate obtiene el documento y bloquea la fila (SELECT FOR UPDATE).
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.get(ctx, `SELECT `+documentColumns+` FROM stock_documents WHERE id = $1 FOR UPDATE`, id)
}

func (r *DocumentRepo) get(ctx context.Context, query, id string) (*entity.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	doc, err := scanDocument(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var wh, fromWh, toWh, validatedBy *string
	err := row.Scan(
		&d.ID, &d.Kind, &d.Number, &d.Status, &wh, &fromWh, &toWh,
		&d.SupplierName, &d.CustomerName, &d.Reason, &d.Notes, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
		&validatedBy, &d.ValidatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.WarehouseID, d.FromWarehouseID, d.ToWarehouseID = deref(wh), deref(fromWh), deref(toWh)
	d.ValidatedBy = deref(validatedBy)
	return &d, nil
}

// Lines devuelve las líneas ordenadas por posición.
func (r *DocumentRepo) Lines(ctx context.Context, documentID string) ([]entity.DocumentLine, error) {
	if _, err := uuid.Parse(documentID); err != nil {
		return nil, nil
	}
	query := `
		SELECT id, document_id, position, product_id, location_id, from_location_id, to_location_id,
		       quantity, unit_cost, unit_price, physical_quantity, system_quantity, difference, created_at
		FROM stock_document_lines WHERE document_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()

	var out []entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		var loc, from, to *string
		var unitCost, unitPrice *decimal.Decimal
		if err := rows.Scan(
			&l.ID, &l.DocumentID, &l.Position, &l.ProductID, &loc, &from, &to,
			&l.Quantity, &unitCost, &unitPrice, &l.PhysicalQuantity, &l.SystemQuantity, &l.Difference, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		l.LocationID, l.FromLocationID, l.ToLocationID = deref(loc), deref(from), deref(to)
		l.UnitCost, l.UnitPrice = unitCost, unitPrice
		out = append(out, l)
	}
	return out, rows.Err()
}

// ReplaceLines borra y vuelve a insertar las líneas del documento.
func (r *DocumentRepo) ReplaceLines(ctx context.Context, documentID string, lines []entity.DocumentLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_document_lines WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete document lines: %w", err)
	}
	return r.insertLines(ctx, documentID, time.Now().UTC(), lines)
}

// List filtra por tipo, estado, bodega y texto (ILIKE), del más reciente al más antiguo.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Kind != "" {
		where = append(where, "kind = "+arg(f.Kind))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.WarehouseID != "" {
		if _, err := uuid.Parse(f.WarehouseID); err != nil {
			return nil, nil
		}
		p := arg(f.WarehouseID)
		where = append(where, fmt.Sprintf("(warehouse_id = %[1]s OR from_warehouse_id = %[1]s OR to_warehouse_id = %[1]s)", p))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := arg("%" + s + "%")
		where = append(where, fmt.Sprintf(
			"(unaccent(number) ILIKE unaccent(%[1]s) OR unaccent(supplier_name) ILIKE unaccent(%[1]s) OR unaccent(customer_name) ILIKE unaccent(%[1]s) OR unaccent(reason) ILIKE unaccent(%[1]s) OR unaccent(notes) ILIKE unaccent(%[1]s))", p))
	}

	query := `SELECT ` + documentColumns + ` FROM stock_documents`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, number DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + arg(f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateStatus persiste estado y metadatos de validación.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, doc *entity.Document) error {
	query := `
		UPDATE stock_documents
		SET status = $2, validated_by = $3, validated_at = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, doc.ID, doc.Status, nullable(doc.ValidatedBy), doc.ValidatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update document status %s: %w", doc.ID, domain.ErrNotFound)
	}
	return nil
}

// NextNumber toma el siguiente valor de la secuencia del tipo (stock_document_seq_<kind>) y salta
// los números que ya se registraron a mano. Igual que cualquier secuencia, un rollback deja un hueco.
func (r *DocumentRepo) NextNumber(ctx context.Context, kind entity.DocumentKind) (string, error) {
	if !kind.Valid() {
		return "", domain.NewValidationError("kind", "desconocido")
	}
	for {
		var n int64
		if err := r.q.QueryRow(ctx, `SELECT nextval($1::regclass)`, "stock_document_seq_"+string(kind)).Scan(&n); err != nil {
			return "", fmt.Errorf("next document number: %w", err)
		}
		number := kind.FormatNumber(n)
		var taken bool
		query := `SELECT EXISTS (SELECT 1 FROM stock_documents WHERE kind = $1 AND number = $2)`
		if err := r.q.QueryRow(ctx, query, kind, number).Scan(&taken); err != nil {
			return "", fmt.Errorf("check document number: %w", err)
		}
		if !taken {
			return number, nil
		}
	}
}
