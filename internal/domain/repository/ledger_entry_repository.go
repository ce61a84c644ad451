package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// SalesTotal es el agregado de unidades vendidas de un (producto, bodega) en una ventana.
type SalesTotal struct {
	ProductID   string
	WarehouseID string
	UnitsSold   int64 // valor absoluto de la suma de deltas con razón 'sale'
}

// LedgerEntryRepository define el puerto de persistencia del kardex (append-only).
// Los asientos nunca se actualizan ni se borran.
type LedgerEntryRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	// ListInWindow devuelve los asientos de un (producto, bodega) en [since, until),
	// ordenados por fecha ascendente. reason vacío = todas las razones.
	ListInWindow(ctx context.Context, productID, warehouseID, reason string, since, until time.Time) ([]*entity.LedgerEntry, error)
	// SumSalesByCompany agrega las unidades vendidas por (producto, bodega) de toda
	// la empresa en [since, until) en una sola consulta. Evita el N+1 del agregador
	// de alertas: nunca una consulta de ventana por producto dentro del loop.
	SumSalesByCompany(ctx context.Context, companyID string, since, until time.Time) ([]SalesTotal, error)
}
