package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-bodega).
// SKU es único por empresa. El stock nunca vive aquí: los productos físicos
// lo llevan en StockLevel (derivado del kardex) y los combos (IsBundle) lo
// derivan siempre de sus componentes.
type Product struct {
	ID                string
	CompanyID         string
	SKU               string // código único por empresa
	Name              string
	Price             decimal.Decimal // precio de venta
	IsBundle          bool            // combo: se vende como conjunto de componentes
	LowStockThreshold int64           // umbral para alertas de stock bajo
	PrimarySupplierID string          // proveedor principal (opcional, solo enriquecimiento)
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
