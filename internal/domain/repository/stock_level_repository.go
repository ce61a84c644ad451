package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// StockLevelRepository define el puerto para la proyección de stock por (producto, bodega).
// Solo el motor del kardex escribe aquí; resolver, pronóstico y alertas leen.
type StockLevelRepository interface {
	// Get devuelve la proyección actual; cantidad 0 si no existe fila.
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE): serializa los appliers
	// concurrentes sobre la misma llave (producto, bodega).
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error)
	Upsert(ctx context.Context, level *entity.StockLevel) error
	// ListByCompany devuelve todas las proyecciones de la empresa en una sola
	// consulta (lectura batch para resolver y agregador de alertas).
	ListByCompany(ctx context.Context, companyID string) ([]*entity.StockLevel, error)
}
