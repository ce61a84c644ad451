package dto

import "github.com/shopspring/decimal"

// AlertSupplierDTO datos de contacto del proveedor principal en una alerta.
// Name y ContactEmail llevan "N/A" cuando el producto no tiene proveedor.
type AlertSupplierDTO struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
}

// LowStockAlertDTO una alerta de stock bajo para un (producto, bodega):
// disponibilidad en o bajo el umbral y con ventas recientes en la ventana.
type LowStockAlertDTO struct {
	ProductID         string           `json:"product_id"`
	ProductName       string           `json:"product_name"`
	SKU               string           `json:"sku"`
	WarehouseID       string           `json:"warehouse_id"`
	WarehouseName     string           `json:"warehouse_name"`
	CurrentStock      int64            `json:"current_stock"`
	Threshold         int64            `json:"threshold"`
	BurnRate          decimal.Decimal  `json:"burn_rate"`
	DaysUntilStockout *int64           `json:"days_until_stockout"` // null = sin consumo medible
	Supplier          AlertSupplierDTO `json:"supplier"`
}

// LowStockAlertListResponse respuesta de GET /api/alerts/low-stock.
type LowStockAlertListResponse struct {
	Alerts      []LowStockAlertDTO `json:"alerts"`
	TotalAlerts int                `json:"total_alerts"`
	WindowDays  int                `json:"window_days"`
}
