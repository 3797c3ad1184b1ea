package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

// StockHandler consultas de stock y ledger, reconciliación y reservas.
type StockHandler struct {
	errorWriter
	uc *inventory.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockQueryUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{errorWriter: errorWriter{log: log}, uc: uc}
}

// Levels godoc
// @Summary      Niveles de stock por producto y/o ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto (UUID)"
// @Param        location_id  query  string  false  "Ubicación (UUID)"
// @Success      200  {array}   dto.StockLevelResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/levels [get]
func (h *StockHandler) Levels(c *fiber.Ctx) error {
	var in dto.StockQueryRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	levels, err := h.uc.ListLevels(c.Context(), in.ProductID, in.LocationID)
	if err != nil {
		return h.writeError(c, err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.ToStockLevelResponse(l))
	}
	return c.JSON(out)
}

// Ledger godoc
// @Summary      Historial de movimientos de un producto (orden de publicación)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true   "Producto (UUID)"
// @Param        location_id  query  string  false  "Ubicación (UUID)"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/ledger [get]
func (h *StockHandler) Ledger(c *fiber.Ctx) error {
	var in dto.StockQueryRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	entries, err := h.uc.EntriesFor(c.Context(), in.ProductID, in.LocationID)
	if err != nil {
		return h.writeError(c, err)
	}
	out := []dto.LedgerEntryResponse{}
	for e, err := range entries {
		if err != nil {
			return h.writeError(c, err)
		}
		out = append(out, dto.ToLedgerEntryResponse(e))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Compara el stock cacheado con el saldo del ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true  "Producto (UUID)"
// @Param        location_id  query  string  true  "Ubicación (UUID)"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/reconcile [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.StockQueryRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	report, err := h.uc.Reconcile(c.Context(), in.ProductID, in.LocationID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(toReconcileResponse(report))
}

// Rebuild godoc
// @Summary      Reescribe el stock cacheado con el saldo del ledger (solo admin)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockQueryRequest  true  "product_id y location_id"
// @Success      200   {object}  dto.ReconcileResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/rebuild [post]
func (h *StockHandler) Rebuild(c *fiber.Ctx) error {
	var in dto.StockQueryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	report, err := h.uc.Rebuild(c.Context(), in.ProductID, in.LocationID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(toReconcileResponse(report))
}

// Reserve godoc
// @Summary      Reservar stock (no puede superar el on-hand)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "product_id, location_id, quantity"
// @Success      200   {object}  dto.StockLevelResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/reservations [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	level, err := h.uc.Reserve(c.Context(), in.ProductID, in.LocationID, in.Quantity)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.ToStockLevelResponse(level))
}

// Release libera una reserva. DELETE /api/stock/reservations
func (h *StockHandler) Release(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	level, err := h.uc.Release(c.Context(), in.ProductID, in.LocationID, in.Quantity)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.ToStockLevelResponse(level))
}

func toReconcileResponse(r *inventory.ReconcileReport) dto.ReconcileResponse {
	return dto.ReconcileResponse{
		ProductID:  r.ProductID,
		LocationID: r.LocationID,
		Cached:     r.Cached,
		Replayed:   r.Replayed,
		Entries:    r.Entries,
		Consistent: r.Consistent(),
	}
}
