package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Si InitialQuantity > 0, se crea la proyección inicial en WarehouseID con un
// asiento 'restock' dentro de la misma transacción (creación atómica).
// Los combos (IsBundle) no admiten stock inicial: su disponibilidad es derivada.
type CreateProductRequest struct {
	SKU               string          `json:"sku" validate:"required,min=1,max=100"`
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Price             decimal.Decimal `json:"price"`
	IsBundle          bool            `json:"is_bundle"`
	LowStockThreshold *int64          `json:"low_stock_threshold"` // nil = umbral por defecto de la app
	PrimarySupplierID string          `json:"primary_supplier_id"`
	WarehouseID       string          `json:"warehouse_id"`
	InitialQuantity   int64           `json:"initial_quantity"`
}

// UpdateProductRequest entrada para actualizar un producto.
// SKU e IsBundle son inmutables; el stock solo cambia vía asientos de kardex.
type UpdateProductRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price             *decimal.Decimal `json:"price"`
	LowStockThreshold *int64           `json:"low_stock_threshold"`
	PrimarySupplierID *string          `json:"primary_supplier_id"`
}

// BundleComponentDTO un componente del combo.
type BundleComponentDTO struct {
	ChildProductID  string `json:"child_product_id" validate:"required,uuid"`
	QuantityPerUnit int64  `json:"quantity_per_unit" validate:"required,min=1"`
}

// SetBundleComponentsRequest body para PUT /api/products/:id/components.
// Reemplaza el conjunto completo de componentes del combo.
type SetBundleComponentsRequest struct {
	Components []BundleComponentDTO `json:"components"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	CompanyID         string          `json:"company_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	IsBundle          bool            `json:"is_bundle"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	PrimarySupplierID string          `json:"primary_supplier_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
