package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyEntryRequest body para POST /api/inventory/entries: un asiento de kardex.
// Delta es el cambio firmado de unidades; reason una de sale, restock, return,
// adjustment. OccurredAt (RFC3339, opcional) permite registrar eventos con su
// hora real; vacío usa la hora del servidor.
type ApplyEntryRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Delta       int64  `json:"delta"`
	Reason      string `json:"reason" validate:"required,oneof=sale restock return adjustment"`
	OccurredAt  string `json:"occurred_at,omitempty"`
}

// LedgerEntryResponse salida de un asiento de kardex.
type LedgerEntryResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Delta       int64     `json:"delta"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

// LedgerWindowResponse listado de asientos de un (producto, bodega) en una ventana.
type LedgerWindowResponse struct {
	ProductID   string                `json:"product_id"`
	WarehouseID string                `json:"warehouse_id"`
	Since       time.Time             `json:"since"`
	Until       time.Time             `json:"until"`
	Entries     []LedgerEntryResponse `json:"entries"`
}

// AvailabilityResponse disponibilidad vendible de un producto en una bodega.
// Para combos es la derivada recursiva de sus componentes.
type AvailabilityResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	IsBundle    bool   `json:"is_bundle"`
	Available   int64  `json:"available"`
}

// ForecastResponse pronóstico de quiebre de stock de un (producto, bodega).
// DaysUntilStockout es null cuando no hay consumo medible en la ventana
// (centinela "sin límite", nunca un número grande).
type ForecastResponse struct {
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	WindowDays        int             `json:"window_days"`
	CurrentQuantity   int64           `json:"current_quantity"`
	BurnRate          decimal.Decimal `json:"burn_rate"`
	DaysUntilStockout *int64          `json:"days_until_stockout"`
}
