package alerts

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/bundles"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	domainforecast "github.com/jhoicas/Kardex-api/internal/domain/forecast"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Aggregator produce la lista priorizada de alertas de stock bajo de una empresa:
// disponibilidad en o bajo el umbral Y ventas recientes en la ventana. El filtro
// de actividad excluye inventario muerto (bajo umbral pero sin consumo).
type Aggregator struct {
	resolver      *bundles.Resolver
	entryRepo     repository.LedgerEntryRepository
	warehouseRepo repository.WarehouseRepository
	supplierRepo  repository.SupplierRepository
	windowDays    int
}

// NewAggregator construye el agregador de alertas. windowDays <= 0 usa 30.
func NewAggregator(
	resolver *bundles.Resolver,
	entryRepo repository.LedgerEntryRepository,
	warehouseRepo repository.WarehouseRepository,
	supplierRepo repository.SupplierRepository,
	windowDays int,
) *Aggregator {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &Aggregator{
		resolver:      resolver,
		entryRepo:     entryRepo,
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
		windowDays:    windowDays,
	}
}

// LowStockAlerts recorre el catálogo de la empresa en una sola pasada batch:
// snapshot del catálogo/grafo/stock (3 consultas), agregado de ventas por
// (producto, bodega) (1 consulta) y enriquecimiento de bodegas y proveedores
// (2 consultas). Nunca una consulta de ventana por producto dentro del loop.
// Los combos se excluyen del alertado directo (política): se vigilan sus componentes.
// Orden: días hasta quiebre ascendente, empates por ID de producto.
func (a *Aggregator) LowStockAlerts(ctx context.Context, companyID string, windowDays int, asOf time.Time) (*dto.LowStockAlertListResponse, error) {
	if windowDays <= 0 {
		windowDays = a.windowDays
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	since := asOf.AddDate(0, 0, -windowDays)

	snap, err := a.resolver.Snapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}
	sales, err := a.entryRepo.SumSalesByCompany(ctx, companyID, since, asOf)
	if err != nil {
		return nil, err
	}
	soldByKey := make(map[string]int64, len(sales))
	for _, s := range sales {
		soldByKey[s.ProductID+"|"+s.WarehouseID] = s.UnitsSold
	}

	type candidate struct {
		alert     dto.LowStockAlertDTO
		days      int64
		unbounded bool
	}
	var candidates []candidate
	warehouseIDs := make(map[string]bool)
	supplierIDs := make(map[string]bool)

	for _, level := range snap.Levels() {
		product := snap.Product(level.ProductID)
		if product == nil || product.IsBundle {
			continue
		}
		available, err := snap.Availability(level.ProductID, level.WarehouseID)
		if err != nil {
			return nil, err
		}
		if available > product.LowStockThreshold {
			continue
		}
		unitsSold := soldByKey[level.ProductID+"|"+level.WarehouseID]
		rate := domainforecast.BurnRate(unitsSold, windowDays)
		if rate.IsZero() {
			// Sin ventas en la ventana: stock obsoleto, no se alerta.
			continue
		}
		days, unbounded := domainforecast.DaysUntilStockout(available, rate)

		c := candidate{
			alert: dto.LowStockAlertDTO{
				ProductID:    product.ID,
				ProductName:  product.Name,
				SKU:          product.SKU,
				WarehouseID:  level.WarehouseID,
				CurrentStock: available,
				Threshold:    product.LowStockThreshold,
				BurnRate:     rate,
			},
			days:      days,
			unbounded: unbounded,
		}
		if !unbounded {
			d := days
			c.alert.DaysUntilStockout = &d
		}
		warehouseIDs[level.WarehouseID] = true
		if product.PrimarySupplierID != "" {
			supplierIDs[product.PrimarySupplierID] = true
		}
		candidates = append(candidates, c)
	}

	warehouses, err := a.warehouseRepo.GetByIDs(keys(warehouseIDs))
	if err != nil {
		return nil, err
	}
	suppliers, err := a.supplierRepo.GetByIDs(keys(supplierIDs))
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		c := &candidates[i]
		if wh := warehouses[c.alert.WarehouseID]; wh != nil {
			c.alert.WarehouseName = wh.Name
		}
		c.alert.Supplier = dto.AlertSupplierDTO{Name: "N/A", ContactEmail: "N/A"}
		product := snap.Product(c.alert.ProductID)
		if product != nil && product.PrimarySupplierID != "" {
			if sup := suppliers[product.PrimarySupplierID]; sup != nil {
				c.alert.Supplier = dto.AlertSupplierDTO{
					ID:           sup.ID,
					Name:         sup.Name,
					ContactEmail: sup.ContactEmail,
				}
			}
		}
	}

	// Quiebre más próximo primero; "sin límite" al final; empates por ID de
	// producto para que la salida sea determinista.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.unbounded != b.unbounded {
			return !a.unbounded
		}
		if a.days != b.days {
			return a.days < b.days
		}
		if a.alert.ProductID != b.alert.ProductID {
			return a.alert.ProductID < b.alert.ProductID
		}
		return a.alert.WarehouseID < b.alert.WarehouseID
	})

	alerts := make([]dto.LowStockAlertDTO, 0, len(candidates))
	for _, c := range candidates {
		alerts = append(alerts, c.alert)
	}
	return &dto.LowStockAlertListResponse{
		Alerts:      alerts,
		TotalAlerts: len(alerts),
		WindowDays:  windowDays,
	}, nil
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
