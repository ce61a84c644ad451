package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo implementación del puerto del kardex sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: aquí no hay UPDATE ni DELETE.
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador del kardex. Pasar pool o tx (Querier).
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

// Create persiste un asiento de kardex.
func (r *LedgerEntryRepo) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, company_id, product_id, warehouse_id, delta, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.CompanyID, entry.ProductID, entry.WarehouseID,
		entry.Delta, entry.Reason, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// ListInWindow devuelve los asientos de un (producto, bodega) en [since, until)
// ordenados por fecha ascendente. reason vacío = todas las razones.
func (r *LedgerEntryRepo) ListInWindow(ctx context.Context, productID, warehouseID, reason string, since, until time.Time) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, company_id, product_id, warehouse_id, delta, reason, created_at
		FROM ledger_entries
		WHERE product_id = $1 AND warehouse_id = $2
		  AND created_at >= $3 AND created_at < $4
		  AND ($5 = '' OR reason = $5)
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, productID, warehouseID, since, until, reason)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.ProductID, &e.WarehouseID, &e.Delta, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return out, nil
}

// SumSalesByCompany agrega las unidades vendidas por (producto, bodega) de toda
// la empresa en [since, until) en una sola consulta (camino batch de alertas).
func (r *LedgerEntryRepo) SumSalesByCompany(ctx context.Context, companyID string, since, until time.Time) ([]repository.SalesTotal, error) {
	query := `
		SELECT product_id, warehouse_id, COALESCE(SUM(ABS(delta)), 0)
		FROM ledger_entries
		WHERE company_id = $1 AND reason = 'sale'
		  AND created_at >= $2 AND created_at < $3
		GROUP BY product_id, warehouse_id`
	rows, err := r.q.Query(ctx, query, companyID, since, until)
	if err != nil {
		return nil, fmt.Errorf("sum sales: %w", err)
	}
	defer rows.Close()

	var out []repository.SalesTotal
	for rows.Next() {
		var t repository.SalesTotal
		if err := rows.Scan(&t.ProductID, &t.WarehouseID, &t.UnitsSold); err != nil {
			return nil, fmt.Errorf("scan sales total: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales totals: %w", err)
	}
	return out, nil
}
