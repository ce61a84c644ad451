package bundles

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// DefaultMaxDepth profundidad máxima de resolución de combos anidados.
const DefaultMaxDepth = 64

// Resolver calcula la disponibilidad vendible de cualquier producto,
// resolviendo recursivamente la composición de combos. Solo lee: el grafo y
// las proyecciones se cargan en consultas batch, nunca fila a fila.
type Resolver struct {
	productRepo   repository.ProductRepository
	componentRepo repository.BundleComponentRepository
	stockRepo     repository.StockLevelRepository
	maxDepth      int
}

// NewResolver construye el resolver. maxDepth <= 0 usa DefaultMaxDepth.
func NewResolver(
	productRepo repository.ProductRepository,
	componentRepo repository.BundleComponentRepository,
	stockRepo repository.StockLevelRepository,
	maxDepth int,
) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{
		productRepo:   productRepo,
		componentRepo: componentRepo,
		stockRepo:     stockRepo,
		maxDepth:      maxDepth,
	}
}

// Availability devuelve la disponibilidad de un producto en una bodega.
// Producto físico: su proyección de stock. Combo: el mínimo entre componentes
// de floor(disponibilidadHijo / cantidadPorUnidad), recursivo.
func (r *Resolver) Availability(ctx context.Context, companyID, productID, warehouseID string) (int64, error) {
	snap, err := r.Snapshot(ctx, companyID)
	if err != nil {
		return 0, err
	}
	return snap.Availability(productID, warehouseID)
}

// Snapshot carga en tres consultas batch el catálogo, el grafo de combos y las
// proyecciones de stock de la empresa (almacenamiento tipo arena: productos
// indexados por ID, aristas como listas de adyacencia). Las resoluciones sobre
// el snapshot no vuelven a la BD: una foto consistente al momento de la carga.
func (r *Resolver) Snapshot(ctx context.Context, companyID string) (*Snapshot, error) {
	products, err := r.productRepo.ListAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	edges, err := r.componentRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	levels, err := r.stockRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		products: make(map[string]*entity.Product, len(products)),
		children: make(map[string][]entity.BundleComponent, len(edges)),
		quantity: make(map[string]int64, len(levels)),
		levels:   levels,
		memo:     make(map[string]int64),
		maxDepth: r.maxDepth,
	}
	for _, p := range products {
		snap.products[p.ID] = p
	}
	for _, e := range edges {
		snap.children[e.ParentID] = append(snap.children[e.ParentID], e)
	}
	for _, l := range levels {
		snap.quantity[levelKey(l.ProductID, l.WarehouseID)] = l.Quantity
	}
	return snap, nil
}

// Snapshot foto inmutable del catálogo de una empresa para resolver
// disponibilidades sin más idas a la BD. No es seguro para uso concurrente.
type Snapshot struct {
	products map[string]*entity.Product
	children map[string][]entity.BundleComponent
	quantity map[string]int64
	levels   []*entity.StockLevel
	memo     map[string]int64
	maxDepth int
}

// Product devuelve el producto del snapshot o nil.
func (s *Snapshot) Product(productID string) *entity.Product {
	return s.products[productID]
}

// Levels devuelve todas las proyecciones de stock cargadas en el snapshot.
func (s *Snapshot) Levels() []*entity.StockLevel {
	return s.levels
}

// Availability resuelve la disponibilidad de un producto en una bodega sobre el snapshot.
// Memoiza por (producto, bodega) dentro del snapshot: los sub-combos compartidos
// se calculan una sola vez (sin memo el costo sería exponencial en grafos densos).
func (s *Snapshot) Availability(productID, warehouseID string) (int64, error) {
	if _, ok := s.products[productID]; !ok {
		return 0, domain.ErrNotFound
	}
	return s.resolve(productID, warehouseID, make(map[string]bool), 0)
}

func (s *Snapshot) resolve(productID, warehouseID string, onPath map[string]bool, depth int) (int64, error) {
	if depth > s.maxDepth {
		return 0, domain.ErrBundleTooDeep
	}
	key := levelKey(productID, warehouseID)
	if v, ok := s.memo[key]; ok {
		return v, nil
	}
	product, ok := s.products[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}

	if !product.IsBundle {
		qty := s.quantity[key]
		s.memo[key] = qty
		return qty, nil
	}

	// Protección de ciclos: el invariante de escritura garantiza un DAG, pero
	// la lectura no puede colgarse ni desbordar pila ante datos corruptos.
	if onPath[productID] {
		return 0, domain.ErrBundleCycle
	}
	onPath[productID] = true
	defer delete(onPath, productID)

	components := s.children[productID]
	if len(components) == 0 {
		// Combo sin componentes: nunca vendible (política declarada).
		s.memo[key] = 0
		return 0, nil
	}

	var min int64
	first := true
	for _, c := range components {
		if c.QuantityPerUnit <= 0 {
			return 0, domain.ErrInvalidInput
		}
		childAvail, err := s.resolve(c.ChildID, warehouseID, onPath, depth+1)
		if err != nil {
			return 0, err
		}
		if childAvail < 0 {
			// Drift negativo por ajustes: el combo no es vendible con ese componente.
			childAvail = 0
		}
		units := childAvail / c.QuantityPerUnit
		if first || units < min {
			min = units
			first = false
		}
	}
	s.memo[key] = min
	return min, nil
}

func levelKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}
