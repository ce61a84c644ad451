package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
	// ListAllByCompany devuelve el catálogo completo de la empresa sin paginar.
	// Lo usan el resolver de combos y el agregador de alertas (una sola consulta por pasada).
	ListAllByCompany(ctx context.Context, companyID string) ([]*entity.Product, error)
	Delete(id string) error
}
