package entity

import "time"

// Razones válidas de un asiento de kardex.
const (
	ReasonSale       = "sale"       // venta (delta negativo)
	ReasonRestock    = "restock"    // reposición (delta positivo)
	ReasonReturn     = "return"     // devolución de cliente
	ReasonAdjustment = "adjustment" // ajuste/conciliación (puede dejar stock negativo)
)

// ValidReason indica si la razón es una de las cuatro conocidas.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonSale, ReasonRestock, ReasonReturn, ReasonAdjustment:
		return true
	}
	return false
}

// LedgerEntry es un asiento del kardex: registro inmutable y append-only de
// cada cambio de stock de un producto en una bodega. Las correcciones son
// siempre asientos compensatorios nuevos, nunca updates.
// Invariante del sistema: sum(Delta) por (producto, bodega) == StockLevel.Quantity.
type LedgerEntry struct {
	ID          string
	CompanyID   string
	ProductID   string
	WarehouseID string
	Delta       int64  // cambio firmado de unidades
	Reason      string // sale, restock, return, adjustment
	CreatedAt   time.Time
}
