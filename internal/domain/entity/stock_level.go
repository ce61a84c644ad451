package entity

import "time"

// StockLevel es la proyección materializada del kardex: cantidad actual de un
// producto físico en una bodega. Se actualiza únicamente al aplicar asientos.
// Los combos nunca tienen fila aquí (su disponibilidad se deriva al leer).
type StockLevel struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
