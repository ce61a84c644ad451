package forecast

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domainforecast "github.com/jhoicas/Kardex-api/internal/domain/forecast"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// DefaultWindowDays ventana móvil por defecto para la tasa de venta.
const DefaultWindowDays = 30

// Engine estima la tasa de venta y proyecta los días hasta quiebre de stock
// de un (producto, bodega) sobre una ventana móvil. Solo lee el kardex.
type Engine struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockLevelRepository
	entryRepo   repository.LedgerEntryRepository
	windowDays  int
}

// NewEngine construye el motor de pronóstico. windowDays <= 0 usa DefaultWindowDays.
func NewEngine(
	productRepo repository.ProductRepository,
	stockRepo repository.StockLevelRepository,
	entryRepo repository.LedgerEntryRepository,
	windowDays int,
) *Engine {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Engine{
		productRepo: productRepo,
		stockRepo:   stockRepo,
		entryRepo:   entryRepo,
		windowDays:  windowDays,
	}
}

// BurnRate suma el valor absoluto de los asientos 'sale' en [asOf-window, asOf)
// y lo divide entre los días de la ventana (promedio móvil simple, división decimal exacta).
func (e *Engine) BurnRate(ctx context.Context, companyID, productID, warehouseID string, windowDays int, asOf time.Time) (decimal.Decimal, error) {
	windowDays, asOf = e.defaults(windowDays, asOf)
	if err := e.checkScope(companyID, productID); err != nil {
		return decimal.Zero, err
	}
	since := asOf.AddDate(0, 0, -windowDays)
	entries, err := e.entryRepo.ListInWindow(ctx, productID, warehouseID, entity.ReasonSale, since, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	var unitsSold int64
	for _, entry := range entries {
		if entry.Delta < 0 {
			unitsSold += -entry.Delta
		} else {
			unitsSold += entry.Delta
		}
	}
	return domainforecast.BurnRate(unitsSold, windowDays), nil
}

// DaysUntilStockout proyecta los días hasta quiebre: floor(stockActual / tasa).
// unbounded=true cuando no hay consumo medible en la ventana (tasa cero).
func (e *Engine) DaysUntilStockout(ctx context.Context, companyID, productID, warehouseID string, windowDays int, asOf time.Time) (days int64, unbounded bool, err error) {
	windowDays, asOf = e.defaults(windowDays, asOf)
	rate, err := e.BurnRate(ctx, companyID, productID, warehouseID, windowDays, asOf)
	if err != nil {
		return 0, false, err
	}
	level, err := e.stockRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return 0, false, err
	}
	days, unbounded = domainforecast.DaysUntilStockout(level.Quantity, rate)
	return days, unbounded, nil
}

// Forecast arma la respuesta completa de pronóstico para el API.
func (e *Engine) Forecast(ctx context.Context, companyID, productID, warehouseID string, windowDays int, asOf time.Time) (*dto.ForecastResponse, error) {
	windowDays, asOf = e.defaults(windowDays, asOf)
	rate, err := e.BurnRate(ctx, companyID, productID, warehouseID, windowDays, asOf)
	if err != nil {
		return nil, err
	}
	level, err := e.stockRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ForecastResponse{
		ProductID:       productID,
		WarehouseID:     warehouseID,
		WindowDays:      windowDays,
		CurrentQuantity: level.Quantity,
		BurnRate:        rate,
	}
	if days, unbounded := domainforecast.DaysUntilStockout(level.Quantity, rate); !unbounded {
		resp.DaysUntilStockout = &days
	}
	return resp, nil
}

func (e *Engine) defaults(windowDays int, asOf time.Time) (int, time.Time) {
	if windowDays <= 0 {
		windowDays = e.windowDays
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	return windowDays, asOf
}

func (e *Engine) checkScope(companyID, productID string) error {
	product, err := e.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}
