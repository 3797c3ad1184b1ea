// Package pdf genera el comprobante imprimible de los documentos de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de documento   │  N° + Estado + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BODEGA(S) + Proveedor / Cliente / Motivo                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | SKU | Producto | Origen | Destino | Cantidad     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el número + validado por / fecha             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-engine/internal/application/usecase"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ usecase.DocumentPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa usecase.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDocumentPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDocumentPDF(_ context.Context, slip *usecase.DocumentSlip) ([]byte, error) {
	doc := slip.Document
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(kindTitle(doc.Kind)+" "+doc.Number, true).
		WithAuthor(doc.CreatedBy, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(doc.Kind))
	for _, r := range tableDetailRows(doc.Kind, slip.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc *entity.Document) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(kindTitle(doc.Kind), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Creado por: "+nonEmpty(doc.CreatedBy, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(doc.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+statusLabel(doc.Status), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorPrimary,
			}),
			text.New("Fecha: "+doc.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// partiesRow: bodegas y contraparte según el tipo.
func partiesRow(slip *usecase.DocumentSlip) core.Row {
	doc := slip.Document
	var first, second string
	switch doc.Kind {
	case entity.DocumentKindReceipt:
		first = "Bodega: " + slip.Warehouse
		second = "Proveedor: " + doc.SupplierName
	case entity.DocumentKindDelivery:
		first = "Bodega: " + slip.Warehouse
		second = "Cliente: " + doc.CustomerName
	case entity.DocumentKindTransfer:
		first = "Bodega origen: " + slip.FromWarehouse
		second = "Bodega destino: " + slip.ToWarehouse
	case entity.DocumentKindAdjustment:
		first = "Bodega: " + slip.Warehouse
		second = "Motivo: " + doc.Reason
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New(first, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1}),
			text.New(second, props.Text{Size: 9, Top: 6}),
			text.New(nonEmpty(doc.Notes, ""), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow(kind entity.DocumentKind) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	if kind == entity.DocumentKindAdjustment {
		return row.New(8).Add(
			h("#", 1, align.Center),
			h("SKU", 2, align.Left),
			h("Producto", 3, align.Left),
			h("Ubicación", 2, align.Left),
			h("Sistema", 1, align.Right),
			h("Físico", 1, align.Right),
			h("Diferencia", 2, align.Right),
		)
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Origen", 2, align.Left),
		h("Destino", 2, align.Left),
		h("Cantidad", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea del documento.
func tableDetailRows(kind entity.DocumentKind, lines []usecase.DocumentSlipLine) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		if kind == entity.DocumentKindAdjustment {
			result = append(result, row.New(7).Add(
				cell(fmt.Sprint(l.Position), 1, align.Center),
				cell(l.SKU, 2, align.Left),
				cell(l.ProductName, 3, align.Left),
				cell(l.To, 2, align.Left),
				cell(formatQty(l.System), 1, align.Right),
				cell(formatQty(l.Physical), 1, align.Right),
				cell(signedQty(l.Difference), 2, align.Right),
			))
			continue
		}
		result = append(result, row.New(7).Add(
			cell(fmt.Sprint(l.Position), 1, align.Center),
			cell(l.SKU, 2, align.Left),
			cell(l.ProductName, 3, align.Left),
			cell(nonEmpty(l.From, "-"), 2, align.Left),
			cell(nonEmpty(l.To, "-"), 2, align.Left),
			cell(formatQty(l.Quantity), 2, align.Right),
		))
	}
	return result
}

// footerRow: QR con el número del documento y datos de validación.
func footerRow(doc *entity.Document) core.Row {
	validated := "Pendiente de validación"
	if doc.ValidatedAt != nil {
		validated = fmt.Sprintf("Validado por %s el %s", doc.ValidatedBy, doc.ValidatedAt.Format("02/01/2006 15:04"))
	}
	return row.New(36).Add(
		col.New(3).Add(code.NewQr(doc.Number, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New(validated, props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Left: 3, Color: colorPrimary}),
			text.New("Documento generado por el motor de inventario. Las cantidades se expresan en la unidad de medida del producto.",
				props.Text{Size: 7, Top: 14, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func kindTitle(k entity.DocumentKind) string {
	switch k {
	case entity.DocumentKindReceipt:
		return "RECEPCIÓN DE MERCANCÍA"
	case entity.DocumentKindDelivery:
		return "ENTREGA DE MERCANCÍA"
	case entity.DocumentKindTransfer:
		return "TRASLADO ENTRE UBICACIONES"
	case entity.DocumentKindAdjustment:
		return "AJUSTE DE INVENTARIO"
	}
	return "DOCUMENTO DE STOCK"
}

func statusLabel(s entity.DocumentStatus) string {
	switch s {
	case entity.StatusDraft:
		return "Borrador"
	case entity.StatusWaiting:
		return "En espera"
	case entity.StatusReady:
		return "Listo"
	case entity.StatusDone:
		return "Validado"
	case entity.StatusCancelled:
		return "Cancelado"
	}
	return string(s)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty sin ceros decimales sobrantes: "12", "2.5".
func formatQty(d decimal.Decimal) string {
	return d.String()
}

func signedQty(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}
