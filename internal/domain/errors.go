package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrStaleAdjustment     = errors.New("el ajuste no coincide con el stock actual")
	ErrAlreadyValidated    = errors.New("el documento ya fue validado")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintentar")
	ErrUnknownReference    = errors.New("producto o ubicación inexistente o inactivo")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrDocumentLocked      = errors.New("el documento ya no admite cambios en sus líneas")
	ErrLedgerInconsistent  = errors.New("el ledger no cuadra con el stock")
)

// ValidationError describe una entrada mal formada. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError atajo para construir un *ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError detalla qué par (producto, ubicación) quedaría negativo.
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Available  decimal.Decimal
	Requested  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: producto %s en ubicación %s (disponible %s, solicitado %s)",
		ErrInsufficientStock, e.ProductID, e.LocationID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StaleAdjustmentError el system_quantity capturado en borrador ya no coincide con el stock.
type StaleAdjustmentError struct {
	ProductID  string
	LocationID string
	Expected   decimal.Decimal
	Actual     decimal.Decimal
}

func (e *StaleAdjustmentError) Error() string {
	return fmt.Sprintf("%s: producto %s en ubicación %s (esperado %s, actual %s)",
		ErrStaleAdjustment, e.ProductID, e.LocationID, e.Expected, e.Actual)
}

func (e *StaleAdjustmentError) Unwrap() error { return ErrStaleAdjustment }

// UnknownReferenceError indica qué referencia de catálogo falló.
type UnknownReferenceError struct {
	Kind string // product | location | warehouse
	ID   string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrUnknownReference, e.Kind, e.ID)
}

func (e *UnknownReferenceError) Unwrap() error { return ErrUnknownReference }
