package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DocumentSlipLine línea del comprobante con los nombres ya resueltos.
type DocumentSlipLine struct {
	Position    int
	SKU         string
	ProductName string
	From        string // código de ubicación origen (vacío si no aplica)
	To          string // código de ubicación destino
	Quantity    decimal.Decimal
	Physical    decimal.Decimal
	System      decimal.Decimal
	Difference  decimal.Decimal
}

// DocumentSlip datos para imprimir un documento de stock.
type DocumentSlip struct {
	Document      *entity.Document
	Warehouse     string
	FromWarehouse string
	ToWarehouse   string
	Lines         []DocumentSlipLine
}

// DocumentPDFGenerator puerto del generador de PDF (implementado con Maroto en infrastructure/pdf).
type DocumentPDFGenerator interface {
	GenerateDocumentPDF(ctx context.Context, slip *DocumentSlip) ([]byte, error)
}

// DocumentPDFUseCase genera el comprobante imprimible de un documento (cualquier estado).
type DocumentPDFUseCase struct {
	docs      repository.DocumentRepository
	catalog   repository.CatalogRepository
	generator DocumentPDFGenerator
}

// NewDocumentPDFUseCase construye el caso de uso.
func NewDocumentPDFUseCase(docs repository.DocumentRepository, catalog repository.CatalogRepository, generator DocumentPDFGenerator) *DocumentPDFUseCase {
	return &DocumentPDFUseCase{docs: docs, catalog: catalog, generator: generator}
}

// Download devuelve los bytes del PDF y el nombre de archivo sugerido (REC-00001.pdf).
func (uc *DocumentPDFUseCase) Download(ctx context.Context, id string) ([]byte, string, error) {
	doc, err := uc.docs.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener documento: %w", err)
	}
	if doc == nil {
		return nil, "", fmt.Errorf("documento %s: %w", id, domain.ErrNotFound)
	}
	lines, err := uc.docs.Lines(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	slip := &DocumentSlip{Document: doc}
	if slip.Warehouse, err = uc.warehouseName(ctx, doc.WarehouseID); err != nil {
		return nil, "", err
	}
	if slip.FromWarehouse, err = uc.warehouseName(ctx, doc.FromWarehouseID); err != nil {
		return nil, "", err
	}
	if slip.ToWarehouse, err = uc.warehouseName(ctx, doc.ToWarehouseID); err != nil {
		return nil, "", err
	}

	for _, l := range lines {
		sl := DocumentSlipLine{
			Position:   l.Position,
			SKU:        l.ProductID,
			Quantity:   l.Quantity,
			Physical:   l.PhysicalQuantity,
			System:     l.SystemQuantity,
			Difference: l.Difference,
		}
		p, err := uc.catalog.GetProduct(ctx, l.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener producto: %w", err)
		}
		if p != nil {
			sl.SKU, sl.ProductName = p.SKU, p.Name
		}
		switch doc.Kind {
		case entity.DocumentKindTransfer:
			if sl.From, err = uc.locationCode(ctx, l.FromLocationID); err != nil {
				return nil, "", err
			}
			if sl.To, err = uc.locationCode(ctx, l.ToLocationID); err != nil {
				return nil, "", err
			}
		case entity.DocumentKindDelivery:
			if sl.From, err = uc.locationCode(ctx, l.LocationID); err != nil {
				return nil, "", err
			}
		default:
			if sl.To, err = uc.locationCode(ctx, l.LocationID); err != nil {
				return nil, "", err
			}
		}
		slip.Lines = append(slip.Lines, sl)
	}

	pdfBytes, err := uc.generator.GenerateDocumentPDF(ctx, slip)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, doc.Number + ".pdf", nil
}

func (uc *DocumentPDFUseCase) warehouseName(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	wh, err := uc.catalog.GetWarehouse(ctx, id)
	if err != nil {
		return "", fmt.Errorf("pdf: obtener bodega: %w", err)
	}
	if wh == nil {
		return id, nil
	}
	return wh.Name, nil
}

func (uc *DocumentPDFUseCase) locationCode(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	loc, err := uc.catalog.GetLocation(ctx, id)
	if err != nil {
		return "", fmt.Errorf("pdf: obtener ubicación: %w", err)
	}
	if loc == nil {
		return id, nil
	}
	return loc.Code, nil
}
