package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	rules "github.com/jhoicas/stock-engine/internal/domain/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// DocumentUseCase ciclo de vida de documentos de stock (borrador, envío, aprobación, cancelación).
// La transición ready→done la hace únicamente el motor de movimientos.
type DocumentUseCase struct {
	txRunner inventory.TxRunner
	repo     repository.DocumentRepository
	now      func() time.Time
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(txRunner inventory.TxRunner, repo repository.DocumentRepository) *DocumentUseCase {
	return &DocumentUseCase{txRunner: txRunner, repo: repo, now: time.Now}
}

// Create registra un documento en draft. Si no trae número se toma el siguiente de la secuencia del tipo.
func (uc *DocumentUseCase) Create(ctx context.Context, userID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	kind := entity.DocumentKind(strings.ToLower(strings.TrimSpace(in.Kind)))
	now := uc.now().UTC()
	doc := &entity.Document{
		ID:              uuid.New().String(),
		Kind:            kind,
		Number:          strings.TrimSpace(in.Number),
		Status:          entity.StatusDraft,
		WarehouseID:     in.WarehouseID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		SupplierName:    strings.TrimSpace(in.SupplierName),
		CustomerName:    strings.TrimSpace(in.CustomerName),
		Reason:          strings.TrimSpace(in.Reason),
		Notes:           in.Notes,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := rules.CheckHeader(doc); err != nil {
		return nil, err
	}
	lines, capture := dto.ToLineEntities(in.Lines)

	err := uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		if err := checkWarehouses(ctx, repos.Catalog, doc); err != nil {
			return err
		}
		if err := captureSystemQuantities(ctx, repos.Stock, kind, lines, capture); err != nil {
			return err
		}
		if err := rules.PrepareLines(kind, lines); err != nil {
			return err
		}
		if doc.Number == "" {
			number, err := repos.Documents.NextNumber(ctx, kind)
			if err != nil {
				return err
			}
			doc.Number = number
		}
		return repos.Documents.Create(ctx, doc, lines)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, doc.ID)
}

// Get devuelve cabecera y líneas; domain.ErrNotFound si no existe.
func (uc *DocumentUseCase) Get(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("documento %s: %w", id, domain.ErrNotFound)
	}
	lines, err := uc.repo.Lines(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToDocumentResponse(doc, lines), nil
}

// List lista cabeceras del más reciente al más antiguo.
func (uc *DocumentUseCase) List(ctx context.Context, in dto.DocumentFilterRequest) (*dto.DocumentListResponse, error) {
	in.DefaultPage()
	filter := repository.DocumentFilter{
		Kind:        entity.DocumentKind(strings.ToLower(in.Kind)),
		Status:      entity.DocumentStatus(strings.ToLower(in.Status)),
		WarehouseID: in.WarehouseID,
		Search:      in.Search,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, domain.NewValidationError("kind", "desconocido")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status", "desconocido")
	}
	docs, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, *dto.ToDocumentResponse(d, nil))
	}
	return &dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// ReplaceLines reemplaza las líneas; solo en draft (domain.ErrDocumentLocked en otro estado).
func (uc *DocumentUseCase) ReplaceLines(ctx context.Context, id string, in []dto.DocumentLineRequest) (*dto.DocumentResponse, error) {
	lines, capture := dto.ToLineEntities(in)
	err := uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("documento %s: %w", id, domain.ErrNotFound)
		}
		if doc.Status != entity.StatusDraft {
			return fmt.Errorf("documento %s en estado %s: %w", doc.Number, doc.Status, domain.ErrDocumentLocked)
		}
		if err := captureSystemQuantities(ctx, repos.Stock, doc.Kind, lines, capture); err != nil {
			return err
		}
		if err := rules.PrepareLines(doc.Kind, lines); err != nil {
			return err
		}
		if err := repos.Documents.ReplaceLines(ctx, id, lines); err != nil {
			return err
		}
		doc.UpdatedAt = uc.now().UTC()
		return repos.Documents.UpdateStatus(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

// Submit draft → waiting. Exige al menos una línea.
func (uc *DocumentUseCase) Submit(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, id, entity.StatusWaiting)
}

// Approve waiting → ready.
func (uc *DocumentUseCase) Approve(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, id, entity.StatusReady)
}

// Cancel draft/waiting/ready → cancelled.
func (uc *DocumentUseCase) Cancel(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, id, entity.StatusCancelled)
}

func (uc *DocumentUseCase) transition(ctx context.Context, id string, to entity.DocumentStatus) (*dto.DocumentResponse, error) {
	err := uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("documento %s: %w", id, domain.ErrNotFound)
		}
		if to == entity.StatusDone || !entity.CanTransition(doc.Status, to) {
			return fmt.Errorf("documento %s: %s → %s: %w", doc.Number, doc.Status, to, domain.ErrInvalidTransition)
		}
		if to == entity.StatusWaiting {
			lines, err := repos.Documents.Lines(ctx, id)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				return domain.NewValidationError("lines", "el documento no tiene líneas")
			}
		}
		doc.Status = to
		doc.UpdatedAt = uc.now().UTC()
		return repos.Documents.UpdateStatus(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

// checkWarehouses las bodegas de cabecera deben existir y estar activas.
func checkWarehouses(ctx context.Context, catalog repository.CatalogRepository, doc *entity.Document) error {
	for _, id := range []string{doc.WarehouseID, doc.FromWarehouseID, doc.ToWarehouseID} {
		if id == "" {
			continue
		}
		wh, err := catalog.GetWarehouse(ctx, id)
		if err != nil {
			return err
		}
		if wh == nil || !wh.IsActive {
			return &domain.UnknownReferenceError{Kind: "warehouse", ID: id}
		}
	}
	return nil
}

// captureSystemQuantities en ajustes, las líneas sin system_quantity toman el stock actual de la ubicación.
func captureSystemQuantities(ctx context.Context, stock repository.StockLevelRepository, kind entity.DocumentKind, lines []entity.DocumentLine, capture []bool) error {
	if kind != entity.DocumentKindAdjustment {
		return nil
	}
	for i := range lines {
		if !capture[i] || lines[i].ProductID == "" || lines[i].LocationID == "" {
			continue
		}
		level, err := stock.Get(ctx, lines[i].ProductID, lines[i].LocationID)
		if err != nil {
			return err
		}
		lines[i].SystemQuantity = level.Quantity
	}
	return nil
}
