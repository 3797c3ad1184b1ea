package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/application/analytics"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

// fakeDashboardRepo devuelve valores fijos; failPending/failLowStock simulan consultas caídas.
type fakeDashboardRepo struct {
	failPending  entity.DocumentKind
	failLowStock bool
}

func (f *fakeDashboardRepo) CountActiveProducts(context.Context) (int, error) { return 12, nil }

func (f *fakeDashboardRepo) CountLowStockProducts(context.Context) (int, error) {
	if f.failLowStock {
		return 0, errors.New("timeout")
	}
	return 1, nil
}

func (f *fakeDashboardRepo) CountPendingDocuments(_ context.Context, kind entity.DocumentKind) (int, error) {
	if kind == f.failPending {
		return 0, errors.New("timeout")
	}
	switch kind {
	case entity.DocumentKindReceipt:
		return 3, nil
	case entity.DocumentKindDelivery:
		return 2, nil
	case entity.DocumentKindTransfer:
		return 1, nil
	}
	return 0, nil
}

func (f *fakeDashboardRepo) ListLowStockProducts(context.Context, int) ([]repository.LowStockItem, error) {
	if f.failLowStock {
		return nil, errors.New("timeout")
	}
	return []repository.LowStockItem{{
		ProductID: "p1", SKU: "SKU-1", ProductName: "Tornillo",
		CurrentStock: decimal.NewFromInt(2), ReorderLevel: decimal.NewFromInt(10),
	}}, nil
}

func TestDashboard_Resumen(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeDashboardRepo{}, logger.NewNop())

	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.False(t, got.Degraded)
	assert.Empty(t, got.Unavailable)
	assert.Equal(t, 12, got.ActiveProducts)
	assert.Equal(t, 1, got.LowStockProducts)
	assert.Equal(t, 3, got.PendingReceipts)
	assert.Equal(t, 2, got.PendingDeliveries)
	assert.Equal(t, 1, got.PendingTransfers)
	assert.Equal(t, 0, got.PendingAdjustments)
	require.Len(t, got.LowStock, 1)
	assert.True(t, got.LowStock[0].Deficit.Equal(decimal.NewFromInt(8)))
}

func TestDashboard_MetricaCaidaDegrada(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeDashboardRepo{
		failPending:  entity.DocumentKindDelivery,
		failLowStock: true,
	}, logger.NewNop())

	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.True(t, got.Degraded)
	assert.ElementsMatch(t, []string{"pending_delivery", "low_stock_products", "low_stock"}, got.Unavailable)
	assert.Equal(t, 12, got.ActiveProducts, "las demás métricas se entregan igual")
	assert.Equal(t, 3, got.PendingReceipts)
	assert.NotNil(t, got.LowStock)
	assert.Empty(t, got.LowStock)
}

func TestDashboard_ContextoCancelado(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeDashboardRepo{}, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.GetSummary(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
