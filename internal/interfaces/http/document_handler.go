package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/application/usecase"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

// DocumentHandler documentos de stock: ciclo de vida, validación, ledger y comprobante PDF.
type DocumentHandler struct {
	errorWriter
	docs   *usecase.DocumentUseCase
	engine *inventory.ValidateDocumentUseCase
	stock  *inventory.StockQueryUseCase
	pdf    *usecase.DocumentPDFUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(
	docs *usecase.DocumentUseCase,
	engine *inventory.ValidateDocumentUseCase,
	stock *inventory.StockQueryUseCase,
	pdf *usecase.DocumentPDFUseCase,
	log *logger.Logger,
) *DocumentHandler {
	return &DocumentHandler{errorWriter: errorWriter{log: log}, docs: docs, engine: engine, stock: stock, pdf: pdf}
}

// Create godoc
// @Summary      Crear documento en borrador
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "kind, bodega(s) y líneas"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.docs.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar documentos (más reciente primero)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        kind          query  string  false  "receipt | delivery | transfer | adjustment"
// @Param        status        query  string  false  "draft | waiting | ready | done | cancelled"
// @Param        warehouse_id  query  string  false  "Bodega (origen, destino o única)"
// @Param        q             query  string  false  "Texto libre (número, proveedor, cliente, motivo)"
// @Param        limit         query  int     false  "Default 20, máximo 100"
// @Param        offset        query  int     false  "Default 0"
// @Success      200  {object}  dto.DocumentListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var in dto.DocumentFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.docs.List(c.Context(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Documento con sus líneas
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.docs.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// ReplaceLines godoc
// @Summary      Reemplazar líneas (solo borrador)
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del documento"
// @Param        body  body  dto.ReplaceLinesRequest  true  "Líneas nuevas"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/lines [put]
func (h *DocumentHandler) ReplaceLines(c *fiber.Ctx) error {
	var in dto.ReplaceLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.docs.ReplaceLines(c.Context(), c.Params("id"), in.Lines)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Submit draft → waiting.
func (h *DocumentHandler) Submit(c *fiber.Ctx) error {
	out, err := h.docs.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Approve waiting → ready.
func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	out, err := h.docs.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel cualquier estado no terminal → cancelled.
func (h *DocumentHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.docs.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Validate godoc
// @Summary      Validar documento (publica movimientos en el ledger)
// @Description  Todo o nada: si una línea deja stock negativo o el ajuste está
//
//	desactualizado no se escribe nada.
//
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "receipt | delivery | transfer | adjustment"
// @Param        id    path  string  true  "ID del documento"
// @Success      200   {object}  dto.ValidationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/documents/{kind}/{id}/validate [post]
func (h *DocumentHandler) Validate(c *fiber.Ctx) error {
	kind := entity.DocumentKind(strings.ToLower(c.Params("kind")))
	res, err := h.engine.Validate(c.Context(), kind, c.Params("id"), GetUserID(c))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(toValidationResponse(res))
}

// Ledger godoc
// @Summary      Entradas de ledger publicadas por el documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/ledger [get]
func (h *DocumentHandler) Ledger(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.docs.Get(c.Context(), id); err != nil {
		return h.writeError(c, err)
	}
	entries, err := h.stock.EntriesForDocument(c.Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToLedgerEntryResponse(e))
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Comprobante imprimible del documento
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/pdf [get]
func (h *DocumentHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.Download(c.Context(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(data)
}

func toValidationResponse(res *inventory.ValidationResult) dto.ValidationResponse {
	out := dto.ValidationResponse{
		DocumentID:  res.DocumentID,
		Number:      res.Number,
		Kind:        string(res.Kind),
		Status:      string(entity.StatusDone),
		ValidatedBy: res.ValidatedBy,
		ValidatedAt: res.ValidatedAt,
		Attempts:    res.Attempts,
		Entries:     make([]dto.LedgerEntryResponse, 0, len(res.Entries)),
		Levels:      make([]dto.StockLevelResponse, 0, len(res.Levels)),
	}
	for _, e := range res.Entries {
		out.Entries = append(out.Entries, dto.ToLedgerEntryResponse(e))
	}
	for _, l := range res.Levels {
		out.Levels = append(out.Levels, dto.ToStockLevelResponse(l))
	}
	return out
}
