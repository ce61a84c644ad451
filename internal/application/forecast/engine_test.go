package forecast_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/forecast"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProducts struct{ byID map[string]*entity.Product }

func (f *fakeProducts) Create(*entity.Product) error                            { return nil }
func (f *fakeProducts) GetByID(id string) (*entity.Product, error)              { return f.byID[id], nil }
func (f *fakeProducts) GetByCompanyAndSKU(string, string) (*entity.Product, error) { return nil, nil }
func (f *fakeProducts) Update(*entity.Product) error                            { return nil }
func (f *fakeProducts) ListByCompany(string, int, int) ([]*entity.Product, error) { return nil, nil }
func (f *fakeProducts) ListAllByCompany(context.Context, string) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProducts) Delete(string) error { return nil }

type fakeStock struct{ qty int64 }

func (f *fakeStock) Get(_ context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	return &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID, Quantity: f.qty}, nil
}
func (f *fakeStock) GetForUpdate(ctx context.Context, p, w string) (*entity.StockLevel, error) {
	return f.Get(ctx, p, w)
}
func (f *fakeStock) Upsert(context.Context, *entity.StockLevel) error { return nil }
func (f *fakeStock) ListByCompany(context.Context, string) ([]*entity.StockLevel, error) {
	return nil, nil
}

type fakeEntries struct{ entries []*entity.LedgerEntry }

func (f *fakeEntries) Create(context.Context, *entity.LedgerEntry) error { return nil }
func (f *fakeEntries) ListInWindow(_ context.Context, productID, warehouseID, reason string, since, until time.Time) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range f.entries {
		if e.ProductID != productID || e.WarehouseID != warehouseID {
			continue
		}
		if reason != "" && e.Reason != reason {
			continue
		}
		if e.CreatedAt.Before(since) || !e.CreatedAt.Before(until) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
func (f *fakeEntries) SumSalesByCompany(context.Context, string, time.Time, time.Time) ([]repository.SalesTotal, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

var asOf = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func venta(dias int, unidades int64) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ProductID:   "producto-1",
		WarehouseID: "bodega-1",
		Delta:       -unidades,
		Reason:      entity.ReasonSale,
		CreatedAt:   asOf.AddDate(0, 0, -dias),
	}
}

func buildEngine(stockQty int64, entries ...*entity.LedgerEntry) *forecast.Engine {
	products := &fakeProducts{byID: map[string]*entity.Product{
		"producto-1": {ID: "producto-1", CompanyID: "empresa-1", SKU: "SKU-1"},
	}}
	return forecast.NewEngine(products, &fakeStock{qty: stockQty}, &fakeEntries{entries: entries}, 30)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// 60 unidades vendidas en una ventana de 30 días → tasa 2/día.
func TestBurnRate_VentanaDe30Dias(t *testing.T) {
	engine := buildEngine(45, venta(1, 20), venta(10, 30), venta(29, 10))

	rate, err := engine.BurnRate(context.Background(), "empresa-1", "producto-1", "bodega-1", 30, asOf)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(2)), "60 unidades / 30 días = 2.0, obtuve %s", rate)
}

// Las ventas fuera de la ventana y las otras razones no cuentan.
func TestBurnRate_SoloVentasDentroDeVentana(t *testing.T) {
	fueraDeVentana := venta(45, 99)
	reposicion := &entity.LedgerEntry{
		ProductID: "producto-1", WarehouseID: "bodega-1",
		Delta: 500, Reason: entity.ReasonRestock, CreatedAt: asOf.AddDate(0, 0, -5),
	}
	engine := buildEngine(45, venta(3, 30), fueraDeVentana, reposicion)

	rate, err := engine.BurnRate(context.Background(), "empresa-1", "producto-1", "bodega-1", 30, asOf)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)), "solo las 30 unidades dentro de la ventana cuentan")
}

// Stock 45, tasa 2/día → floor(22.5) = 22 días.
func TestForecast_EjemploReferencia(t *testing.T) {
	engine := buildEngine(45, venta(1, 20), venta(10, 30), venta(29, 10))

	out, err := engine.Forecast(context.Background(), "empresa-1", "producto-1", "bodega-1", 30, asOf)
	require.NoError(t, err)
	require.NotNil(t, out.DaysUntilStockout)
	assert.Equal(t, int64(22), *out.DaysUntilStockout)
	assert.Equal(t, int64(45), out.CurrentQuantity)
	assert.Equal(t, 30, out.WindowDays)
}

// Sin consumo medible la proyección es "sin límite": null, nunca un número grande.
func TestForecast_SinVentasEsNull(t *testing.T) {
	engine := buildEngine(45)

	out, err := engine.Forecast(context.Background(), "empresa-1", "producto-1", "bodega-1", 30, asOf)
	require.NoError(t, err)
	assert.Nil(t, out.DaysUntilStockout, "tasa cero → days_until_stockout null")
	assert.True(t, out.BurnRate.IsZero())
}

// Stock cero o negativo con consumo: quiebre ya ocurrió (0 días).
func TestDaysUntilStockout_StockAgotado(t *testing.T) {
	engine := buildEngine(0, venta(2, 10))

	days, unbounded, err := engine.DaysUntilStockout(context.Background(), "empresa-1", "producto-1", "bodega-1", 30, asOf)
	require.NoError(t, err)
	assert.False(t, unbounded)
	assert.Equal(t, int64(0), days)
}

// Mismos asientos, misma ventana → mismo resultado siempre (división decimal, no float).
func TestBurnRate_Determinista(t *testing.T) {
	engine := buildEngine(45, venta(1, 7))

	first, err := engine.BurnRate(context.Background(), "empresa-1", "producto-1", "bodega-1", 30, asOf)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := engine.BurnRate(context.Background(), "empresa-1", "producto-1", "bodega-1", 30, asOf)
		require.NoError(t, err)
		assert.True(t, first.Equal(again), "la tasa debe ser determinista")
	}
}

func TestForecast_ProductoDeOtraEmpresa(t *testing.T) {
	engine := buildEngine(45, venta(1, 5))

	_, err := engine.Forecast(context.Background(), "empresa-ajena", "producto-1", "bodega-1", 30, asOf)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
