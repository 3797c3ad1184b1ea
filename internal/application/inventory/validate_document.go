package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/inventory"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

// EngineConfig política del motor de movimientos.
type EngineConfig struct {
	MaxRetries   int           // reintentos ante domain.ErrConcurrencyConflict
	RetryBackoff time.Duration // espera base, crece linealmente con el intento
	RequireReady bool          // true: solo documentos en ready; false: cualquier estado no terminal
}

// DefaultEngineConfig valores por defecto.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{MaxRetries: 3, RetryBackoff: 25 * time.Millisecond, RequireReady: true}
}

// ValidationResult resumen de una validación exitosa.
type ValidationResult struct {
	DocumentID  string
	Number      string
	Kind        entity.DocumentKind
	ValidatedBy string
	ValidatedAt time.Time
	Entries     []*entity.LedgerEntry
	Levels      []*entity.StockLevel
	Attempts    int
}

// ValidateDocumentUseCase motor de movimientos: valida un documento en una sola transacción
// (estado del documento, filas de stock bloqueadas con SELECT FOR UPDATE y entradas de ledger),
// con Commit o Rollback completo.
type ValidateDocumentUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
	cfg      EngineConfig
	now      func() time.Time
}

// NewValidateDocumentUseCase construye el caso de uso.
func NewValidateDocumentUseCase(txRunner TxRunner, log *logger.Logger, cfg EngineConfig) *ValidateDocumentUseCase {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &ValidateDocumentUseCase{
		txRunner: txRunner,
		log:      log.Component("movement-engine"),
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ValidateDocumentUseCase) WithClock(now func() time.Time) *ValidateDocumentUseCase {
	uc.now = now
	return uc
}

// ValidateReceipt valida una recepción.
func (uc *ValidateDocumentUseCase) ValidateReceipt(ctx context.Context, id, validatorID string) (*ValidationResult, error) {
	return uc.Validate(ctx, entity.DocumentKindReceipt, id, validatorID)
}

// ValidateDelivery valida una entrega; falla completa si alguna línea deja stock negativo.
func (uc *ValidateDocumentUseCase) ValidateDelivery(ctx context.Context, id, validatorID string) (*ValidationResult, error) {
	return uc.Validate(ctx, entity.DocumentKindDelivery, id, validatorID)
}

// ValidateTransfer valida un traslado entre ubicaciones.
func (uc *ValidateDocumentUseCase) ValidateTransfer(ctx context.Context, id, validatorID string) (*ValidationResult, error) {
	return uc.Validate(ctx, entity.DocumentKindTransfer, id, validatorID)
}

// ValidateAdjustment valida un ajuste por conteo físico.
func (uc *ValidateDocumentUseCase) ValidateAdjustment(ctx context.Context, id, validatorID string) (*ValidationResult, error) {
	return uc.Validate(ctx, entity.DocumentKindAdjustment, id, validatorID)
}

// Validate publica el documento: calcula los movimientos por tipo, bloquea las filas de stock,
// verifica invariantes (sin stock negativo, ajustes no desactualizados), escribe ledger y stock
// y marca el documento done. Reintenta solo domain.ErrConcurrencyConflict.
func (uc *ValidateDocumentUseCase) Validate(ctx context.Context, kind entity.DocumentKind, documentID, validatorID string) (*ValidationResult, error) {
	if !kind.Valid() {
		return nil, domain.NewValidationError("kind", "desconocido")
	}
	if documentID == "" {
		return nil, domain.NewValidationError("document_id", "es requerido")
	}
	if validatorID == "" {
		return nil, domain.NewValidationError("validator_id", "es requerido")
	}

	for attempt := 1; ; attempt++ {
		res, err := uc.validateOnce(ctx, kind, documentID, validatorID)
		if err == nil {
			res.Attempts = attempt
			uc.log.Info().
				Str("document_id", res.DocumentID).
				Str("number", res.Number).
				Str("kind", string(res.Kind)).
				Str("validated_by", res.ValidatedBy).
				Int("entries", len(res.Entries)).
				Int("attempts", attempt).
				Msg("documento validado")
			return res, nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) || attempt > uc.cfg.MaxRetries {
			return nil, err
		}
		uc.log.Warn().
			Err(err).
			Str("document_id", documentID).
			Int("attempt", attempt).
			Msg("conflicto de concurrencia, reintentando validación")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(uc.cfg.RetryBackoff * time.Duration(attempt)):
		}
	}
}

func (uc *ValidateDocumentUseCase) validateOnce(ctx context.Context, kind entity.DocumentKind, documentID, validatorID string) (*ValidationResult, error) {
	var res *ValidationResult
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		// Bloquea la cabecera: una segunda validación concurrente espera y luego ve done
		doc, err := repos.Documents.GetForUpdate(ctx, documentID)
		if err != nil {
			return err
		}
		if doc == nil || doc.Kind != kind {
			return fmt.Errorf("%s %s: %w", kind, documentID, domain.ErrNotFound)
		}
		if err := uc.checkStatus(doc); err != nil {
			return err
		}

		lines, err := repos.Documents.Lines(ctx, doc.ID)
		if err != nil {
			return err
		}
		movs, err := inventory.BuildMovements(doc, lines)
		if err != nil {
			return err
		}
		if err := checkReferences(ctx, repos.Catalog, doc, movs); err != nil {
			return err
		}

		// Fase 1: bloquear filas y verificar todas las líneas sin escribir nada
		cache := inventory.NewStockCache(repos.Stock)
		if err := cache.Lock(ctx, inventory.Keys(movs)); err != nil {
			return err
		}
		for _, m := range movs {
			if err := m.Apply(cache); err != nil {
				return err
			}
		}

		// Fase 2: escribir stock, ledger y estado en la misma transacción
		now := uc.now().UTC()
		if err := cache.Flush(ctx, now); err != nil {
			return err
		}
		txID := uuid.New().String()
		entries := make([]*entity.LedgerEntry, 0, len(movs))
		for _, m := range movs {
			entry := m.Entry(doc, txID, validatorID, now)
			if err := repos.Ledger.Append(ctx, entry); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		doc.Status = entity.StatusDone
		doc.ValidatedBy = validatorID
		doc.ValidatedAt = &now
		doc.UpdatedAt = now
		if err := repos.Documents.UpdateStatus(ctx, doc); err != nil {
			return err
		}

		res = &ValidationResult{
			DocumentID:  doc.ID,
			Number:      doc.Number,
			Kind:        doc.Kind,
			ValidatedBy: validatorID,
			ValidatedAt: now,
			Entries:     entries,
			Levels:      cache.Levels(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (uc *ValidateDocumentUseCase) checkStatus(doc *entity.Document) error {
	switch {
	case doc.Status == entity.StatusDone:
		return domain.ErrAlreadyValidated
	case doc.Status == entity.StatusCancelled:
		return fmt.Errorf("documento %s cancelado: %w", doc.Number, domain.ErrInvalidTransition)
	case uc.cfg.RequireReady && doc.Status != entity.StatusReady:
		return fmt.Errorf("documento %s en estado %s, se requiere ready: %w", doc.Number, doc.Status, domain.ErrInvalidTransition)
	}
	return nil
}

// checkReferences valida que productos y ubicaciones existan, estén activos y que cada ubicación
// pertenezca a la bodega del documento (origen/destino en traslados).
func checkReferences(ctx context.Context, catalog repository.CatalogRepository, doc *entity.Document, movs []inventory.Movement) error {
	products := make(map[string]bool)
	locations := make(map[string]*entity.Location)

	for _, m := range movs {
		if !products[m.ProductID] {
			p, err := catalog.GetProduct(ctx, m.ProductID)
			if err != nil {
				return err
			}
			if p == nil || !p.IsActive {
				return &domain.UnknownReferenceError{Kind: "product", ID: m.ProductID}
			}
			products[m.ProductID] = true
		}
		for _, locID := range m.LocationIDs() {
			if _, ok := locations[locID]; ok {
				continue
			}
			loc, err := catalog.GetLocation(ctx, locID)
			if err != nil {
				return err
			}
			if loc == nil || !loc.IsActive {
				return &domain.UnknownReferenceError{Kind: "location", ID: locID}
			}
			locations[locID] = loc
		}

		switch doc.Kind {
		case entity.DocumentKindTransfer:
			if locations[m.From].WarehouseID != doc.FromWarehouseID {
				return domain.NewValidationError("from_location_id", "no pertenece a la bodega de origen")
			}
			if locations[m.To].WarehouseID != doc.ToWarehouseID {
				return domain.NewValidationError("to_location_id", "no pertenece a la bodega de destino")
			}
		default:
			for _, locID := range m.LocationIDs() {
				if locations[locID].WarehouseID != doc.WarehouseID {
					return domain.NewValidationError("location_id", "no pertenece a la bodega del documento")
				}
			}
		}
	}
	return nil
}
