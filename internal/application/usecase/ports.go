package usecase

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta operaciones de catálogo que tocan kardex o grafo de
// combos dentro de una transacción de BD (creación atómica de producto con
// stock inicial, reemplazo del conjunto de componentes).
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		componentRepo repository.BundleComponentRepository,
		entryRepo repository.LedgerEntryRepository,
		stockRepo repository.StockLevelRepository,
	) error) error
}
