package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// BundleComponentRepository define el puerto para las aristas del grafo de combos (DIP).
// La aciclicidad se valida en escritura (caso de uso) y defensivamente en lectura (resolver).
type BundleComponentRepository interface {
	// ReplaceForParent reemplaza el conjunto completo de componentes de un combo.
	ReplaceForParent(ctx context.Context, parentID string, components []entity.BundleComponent) error
	ListByParent(ctx context.Context, parentID string) ([]entity.BundleComponent, error)
	// ListByCompany devuelve todas las aristas del grafo de combos de la empresa
	// en una sola consulta (almacenamiento tipo arena para el resolver).
	ListByCompany(ctx context.Context, companyID string) ([]entity.BundleComponent, error)
}
