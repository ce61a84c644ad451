package entity

import "time"

// Company representa una empresa (tenant). Todo el catálogo y el inventario viven bajo una Company.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
