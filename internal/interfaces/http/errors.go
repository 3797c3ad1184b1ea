package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

// errorStatus traduce errores de dominio a status y código HTTP.
// Con opaque se responde solo el mensaje del sentinel; el detalle (texto del driver) va al log.
var errorStatus = []struct {
	err    error
	status int
	code   string
	opaque bool
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", false},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", false},
	{domain.ErrUnknownReference, fiber.StatusUnprocessableEntity, "UNKNOWN_REFERENCE", false},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", false},
	{domain.ErrStaleAdjustment, fiber.StatusConflict, "STALE_ADJUSTMENT", false},
	{domain.ErrAlreadyValidated, fiber.StatusConflict, "ALREADY_VALIDATED", false},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION", false},
	{domain.ErrDocumentLocked, fiber.StatusConflict, "DOCUMENT_LOCKED", false},
	{domain.ErrConcurrencyConflict, fiber.StatusServiceUnavailable, "CONCURRENCY_CONFLICT", true},
	{domain.ErrLedgerInconsistent, fiber.StatusConflict, "LEDGER_INCONSISTENT", false},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", false},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", false},
}

// errorWriter responde errores de dominio; los 500 quedan en el log.
type errorWriter struct {
	log *logger.Logger
}

// writeError responde con el status del primer error de dominio que coincida; 500 si ninguno.
func (w errorWriter) writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorStatus {
		if !errors.Is(err, m.err) {
			continue
		}
		msg := err.Error()
		if m.opaque {
			w.log.Warn().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(m.code)
			msg = m.err.Error()
		}
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
	}
	w.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func badQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
}
