package entity

import "time"

// Supplier representa un proveedor de la empresa. Solo datos de contacto:
// se usa para enriquecer las alertas de reposición, nunca para cálculo.
type Supplier struct {
	ID           string
	CompanyID    string
	Name         string
	ContactEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
