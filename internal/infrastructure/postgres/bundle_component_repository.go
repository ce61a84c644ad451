package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.BundleComponentRepository = (*BundleComponentRepo)(nil)

// BundleComponentRepo implementación del puerto de aristas de combos sobre PostgreSQL
// (usable con pool o tx).
type BundleComponentRepo struct {
	q Querier
}

// NewBundleComponentRepository construye el adaptador de componentes de combos. Pasar pool o tx (Querier).
func NewBundleComponentRepository(q Querier) *BundleComponentRepo {
	return &BundleComponentRepo{q: q}
}

// ReplaceForParent reemplaza el conjunto completo de componentes de un combo.
// Dentro de una transacción es delete + insert: un lector nunca ve mezcla de
// la definición vieja y la nueva.
func (r *BundleComponentRepo) ReplaceForParent(ctx context.Context, parentID string, components []entity.BundleComponent) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bundle_components WHERE parent_id = $1`, parentID); err != nil {
		return fmt.Errorf("delete bundle components: %w", err)
	}
	for _, c := range components {
		_, err := r.q.Exec(ctx,
			`INSERT INTO bundle_components (parent_id, child_id, quantity_per_unit) VALUES ($1, $2, $3)`,
			parentID, c.ChildID, c.QuantityPerUnit,
		)
		if err != nil {
			return fmt.Errorf("insert bundle component: %w", err)
		}
	}
	return nil
}

// ListByParent devuelve los componentes directos de un combo.
func (r *BundleComponentRepo) ListByParent(ctx context.Context, parentID string) ([]entity.BundleComponent, error) {
	query := `
		SELECT parent_id, child_id, quantity_per_unit
		FROM bundle_components WHERE parent_id = $1 ORDER BY child_id`
	rows, err := r.q.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list bundle components: %w", err)
	}
	defer rows.Close()
	return collectComponents(rows)
}

// ListByCompany devuelve todas las aristas del grafo de combos de la empresa
// en una sola consulta (lectura batch para el resolver).
func (r *BundleComponentRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.BundleComponent, error) {
	query := `
		SELECT bc.parent_id, bc.child_id, bc.quantity_per_unit
		FROM bundle_components bc
		JOIN products p ON p.id = bc.parent_id
		WHERE p.company_id = $1`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company bundle components: %w", err)
	}
	defer rows.Close()
	return collectComponents(rows)
}

func collectComponents(rows pgx.Rows) ([]entity.BundleComponent, error) {
	var out []entity.BundleComponent
	for rows.Next() {
		var c entity.BundleComponent
		if err := rows.Scan(&c.ParentID, &c.ChildID, &c.QuantityPerUnit); err != nil {
			return nil, fmt.Errorf("scan bundle component: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bundle components: %w", err)
	}
	return out, nil
}
