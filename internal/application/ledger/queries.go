package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Queries lecturas del kardex y su proyección (sin transacción, solo pool).
type Queries struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockLevelRepository
	entryRepo   repository.LedgerEntryRepository
}

// NewQueries construye las lecturas del kardex.
func NewQueries(
	productRepo repository.ProductRepository,
	stockRepo repository.StockLevelRepository,
	entryRepo repository.LedgerEntryRepository,
) *Queries {
	return &Queries{productRepo: productRepo, stockRepo: stockRepo, entryRepo: entryRepo}
}

// CurrentQuantity devuelve la proyección actual de un (producto, bodega); 0 si no hay asientos.
func (q *Queries) CurrentQuantity(ctx context.Context, companyID, productID, warehouseID string) (int64, error) {
	if err := q.checkScope(companyID, productID); err != nil {
		return 0, err
	}
	level, err := q.stockRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return 0, err
	}
	return level.Quantity, nil
}

// EntriesInWindow devuelve los asientos de un (producto, bodega) en [since, until),
// ordenados por fecha ascendente. reason vacío incluye todas las razones.
func (q *Queries) EntriesInWindow(ctx context.Context, companyID, productID, warehouseID, reason string, since, until time.Time) ([]*entity.LedgerEntry, error) {
	if reason != "" && !entity.ValidReason(reason) {
		return nil, domain.ErrInvalidInput
	}
	if !until.After(since) {
		return nil, domain.ErrInvalidInput
	}
	if err := q.checkScope(companyID, productID); err != nil {
		return nil, err
	}
	return q.entryRepo.ListInWindow(ctx, productID, warehouseID, reason, since, until)
}

func (q *Queries) checkScope(companyID, productID string) error {
	product, err := q.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}
