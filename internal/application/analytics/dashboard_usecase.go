// Package analytics contiene las consultas de lectura para el dashboard de inventario.
package analytics

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-engine/internal/application/dto"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/jhoicas/stock-engine/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const dashboardLowStockItems = 10 // filas del widget de bajo stock

// DashboardUseCase genera el resumen de inventario: productos activos, bajo stock y documentos pendientes.
//
// Fuente de datos: DashboardRepository (consultas read-only). Una métrica que falla no tumba el
// resumen: se marca en Unavailable y el resto se entrega igual.
type DashboardUseCase struct {
	repo repository.DashboardRepository
	log  *logger.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository, log *logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, log: log.Component("dashboard")}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Consultas en paralelo:
//  1. CountActiveProducts
//  2. CountLowStockProducts
//  3. CountPendingDocuments por cada tipo
//  4. ListLowStockProducts (top 10 por déficit)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	out := &dto.DashboardSummaryDTO{LowStock: []dto.LowStockItemDTO{}}

	var mu sync.Mutex
	fail := func(metric string, err error) {
		uc.log.Warn().Err(err).Str("metric", metric).Msg("métrica del dashboard no disponible")
		mu.Lock()
		out.Degraded = true
		out.Unavailable = append(out.Unavailable, metric)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := uc.repo.CountActiveProducts(gctx)
		if err != nil {
			fail("active_products", err)
			return nil
		}
		out.ActiveProducts = n
		return nil
	})
	g.Go(func() error {
		n, err := uc.repo.CountLowStockProducts(gctx)
		if err != nil {
			fail("low_stock_products", err)
			return nil
		}
		out.LowStockProducts = n
		return nil
	})
	for _, kind := range entity.DocumentKinds {
		target := pendingField(out, kind)
		g.Go(func() error {
			n, err := uc.repo.CountPendingDocuments(gctx, kind)
			if err != nil {
				fail("pending_"+string(kind), err)
				return nil
			}
			*target = n
			return nil
		})
	}
	g.Go(func() error {
		items, err := uc.repo.ListLowStockProducts(gctx, dashboardLowStockItems)
		if err != nil {
			fail("low_stock", err)
			return nil
		}
		list := make([]dto.LowStockItemDTO, 0, len(items))
		for _, it := range items {
			list = append(list, dto.LowStockItemDTO{
				ProductID:    it.ProductID,
				SKU:          it.SKU,
				ProductName:  it.ProductName,
				CurrentStock: it.CurrentStock,
				ReorderLevel: it.ReorderLevel,
				Deficit:      it.ReorderLevel.Sub(it.CurrentStock),
			})
		}
		out.LowStock = list
		return nil
	})

	// Las goroutines nunca devuelven error: una métrica caída degrada el resumen, no lo cancela
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func pendingField(out *dto.DashboardSummaryDTO, kind entity.DocumentKind) *int {
	switch kind {
	case entity.DocumentKindReceipt:
		return &out.PendingReceipts
	case entity.DocumentKindDelivery:
		return &out.PendingDeliveries
	case entity.DocumentKindTransfer:
		return &out.PendingTransfers
	default:
		return &out.PendingAdjustments
	}
}
