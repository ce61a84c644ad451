package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct {
	byID map[string]*entity.Product
}

func (m *memProductRepo) Create(p *entity.Product) error {
	for _, ex := range m.byID {
		if ex.CompanyID == p.CompanyID && ex.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}
func (m *memProductRepo) GetByID(id string) (*entity.Product, error) { return m.byID[id], nil }
func (m *memProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range m.byID {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (m *memProductRepo) Update(p *entity.Product) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}
func (m *memProductRepo) ListByCompany(companyID string, _, _ int) ([]*entity.Product, error) {
	return m.listAll(companyID), nil
}
func (m *memProductRepo) ListAllByCompany(_ context.Context, companyID string) ([]*entity.Product, error) {
	return m.listAll(companyID), nil
}
func (m *memProductRepo) listAll(companyID string) []*entity.Product {
	var out []*entity.Product
	for _, p := range m.byID {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out
}
func (m *memProductRepo) Delete(id string) error { delete(m.byID, id); return nil }

type memWarehouseRepo struct{ byID map[string]*entity.Warehouse }

func (m *memWarehouseRepo) Create(w *entity.Warehouse) error           { m.byID[w.ID] = w; return nil }
func (m *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) { return m.byID[id], nil }
func (m *memWarehouseRepo) GetByIDs([]string) (map[string]*entity.Warehouse, error) {
	return m.byID, nil
}
func (m *memWarehouseRepo) Update(*entity.Warehouse) error { return nil }
func (m *memWarehouseRepo) ListByCompany(string, int, int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (m *memWarehouseRepo) Delete(string) error { return nil }

type memComponentRepo struct {
	edges map[string][]entity.BundleComponent // parentID -> aristas
}

func (m *memComponentRepo) ReplaceForParent(_ context.Context, parentID string, comps []entity.BundleComponent) error {
	m.edges[parentID] = comps
	return nil
}
func (m *memComponentRepo) ListByParent(_ context.Context, parentID string) ([]entity.BundleComponent, error) {
	return m.edges[parentID], nil
}
func (m *memComponentRepo) ListByCompany(context.Context, string) ([]entity.BundleComponent, error) {
	var out []entity.BundleComponent
	for _, es := range m.edges {
		out = append(out, es...)
	}
	return out, nil
}

type memEntryRepo struct{ entries []*entity.LedgerEntry }

func (m *memEntryRepo) Create(_ context.Context, e *entity.LedgerEntry) error {
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}
func (m *memEntryRepo) ListInWindow(context.Context, string, string, string, time.Time, time.Time) ([]*entity.LedgerEntry, error) {
	return m.entries, nil
}
func (m *memEntryRepo) SumSalesByCompany(context.Context, string, time.Time, time.Time) ([]repository.SalesTotal, error) {
	return nil, nil
}

type memStockRepo struct{ levels map[string]*entity.StockLevel }

func (m *memStockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	if l, ok := m.levels[productID+"|"+warehouseID]; ok {
		return l, nil
	}
	return &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID}, nil
}
func (m *memStockRepo) GetForUpdate(ctx context.Context, p, w string) (*entity.StockLevel, error) {
	return m.Get(ctx, p, w)
}
func (m *memStockRepo) Upsert(_ context.Context, l *entity.StockLevel) error {
	cp := *l
	m.levels[l.ProductID+"|"+l.WarehouseID] = &cp
	return nil
}
func (m *memStockRepo) ListByCompany(context.Context, string) ([]*entity.StockLevel, error) {
	return nil, nil
}

// memTxRunner ejecuta el callback directamente sobre los repos en memoria.
type memTxRunner struct {
	products   *memProductRepo
	components *memComponentRepo
	entries    *memEntryRepo
	stock      *memStockRepo
}

func (m *memTxRunner) RunCatalog(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	componentRepo repository.BundleComponentRepository,
	entryRepo repository.LedgerEntryRepository,
	stockRepo repository.StockLevelRepository,
) error) error {
	return fn(m.products, m.components, m.entries, m.stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc         *usecase.ProductUseCase
	products   *memProductRepo
	components *memComponentRepo
	entries    *memEntryRepo
	stock      *memStockRepo
}

func build(t *testing.T) *fixture {
	t.Helper()
	products := &memProductRepo{byID: make(map[string]*entity.Product)}
	components := &memComponentRepo{edges: make(map[string][]entity.BundleComponent)}
	entries := &memEntryRepo{}
	stock := &memStockRepo{levels: make(map[string]*entity.StockLevel)}
	warehouses := &memWarehouseRepo{byID: map[string]*entity.Warehouse{
		"b1": {ID: "b1", CompanyID: "empresa-1", Name: "Bodega Central"},
	}}
	runner := &memTxRunner{products: products, components: components, entries: entries, stock: stock}
	return &fixture{
		uc:         usecase.NewProductUseCase(runner, products, warehouses, components, 10),
		products:   products,
		components: components,
		entries:    entries,
		stock:      stock,
	}
}

func (f *fixture) crear(t *testing.T, in dto.CreateProductRequest) *dto.ProductResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), "empresa-1", in)
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ConStockInicialAtomico(t *testing.T) {
	f := build(t)

	out := f.crear(t, dto.CreateProductRequest{
		SKU: "CAFE-500", Name: "Café 500g", Price: decimal.NewFromInt(12),
		WarehouseID: "b1", InitialQuantity: 40,
	})

	// Producto, asiento restock y proyección creados juntos.
	require.Len(t, f.entries.entries, 1)
	assert.Equal(t, entity.ReasonRestock, f.entries.entries[0].Reason)
	assert.Equal(t, int64(40), f.entries.entries[0].Delta)

	level, _ := f.stock.Get(context.Background(), out.ID, "b1")
	assert.Equal(t, int64(40), level.Quantity)
	assert.Equal(t, int64(10), out.LowStockThreshold, "sin umbral explícito aplica el default")
}

func TestCreate_SKUDuplicadoRechazado(t *testing.T) {
	f := build(t)
	f.crear(t, dto.CreateProductRequest{SKU: "CAFE-500", Name: "Café 500g"})

	_, err := f.uc.Create(context.Background(), "empresa-1", dto.CreateProductRequest{
		SKU: "CAFE-500", Name: "Otro café",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "SKU es único por empresa")
}

func TestCreate_MismoSKUEnOtraEmpresaPermitido(t *testing.T) {
	f := build(t)
	f.crear(t, dto.CreateProductRequest{SKU: "CAFE-500", Name: "Café 500g"})

	_, err := f.uc.Create(context.Background(), "empresa-2", dto.CreateProductRequest{
		SKU: "CAFE-500", Name: "Café de la otra empresa",
	})
	assert.NoError(t, err, "la unicidad del SKU es por empresa, no global")
}

func TestCreate_ComboConStockInicialRechazado(t *testing.T) {
	f := build(t)

	_, err := f.uc.Create(context.Background(), "empresa-1", dto.CreateProductRequest{
		SKU: "COMBO-1", Name: "Combo desayuno", IsBundle: true,
		WarehouseID: "b1", InitialQuantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "los combos no almacenan stock propio")
}

func TestCreate_UmbralExplicito(t *testing.T) {
	f := build(t)
	threshold := int64(25)

	out := f.crear(t, dto.CreateProductRequest{
		SKU: "CAFE-500", Name: "Café 500g", LowStockThreshold: &threshold,
	})
	assert.Equal(t, int64(25), out.LowStockThreshold)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests SetBundleComponents
// ──────────────────────────────────────────────────────────────────────────────

func setComponents(t *testing.T, f *fixture, parentID string, comps ...dto.BundleComponentDTO) error {
	t.Helper()
	return f.uc.SetBundleComponents(context.Background(), "empresa-1", parentID,
		dto.SetBundleComponentsRequest{Components: comps})
}

func TestSetBundleComponents_ReemplazaConjunto(t *testing.T) {
	f := build(t)
	combo := f.crear(t, dto.CreateProductRequest{SKU: "COMBO-1", Name: "Combo", IsBundle: true})
	pan := f.crear(t, dto.CreateProductRequest{SKU: "PAN-1", Name: "Pan"})
	cafe := f.crear(t, dto.CreateProductRequest{SKU: "CAFE-1", Name: "Café"})

	require.NoError(t, setComponents(t, f, combo.ID,
		dto.BundleComponentDTO{ChildProductID: pan.ID, QuantityPerUnit: 2}))
	require.NoError(t, setComponents(t, f, combo.ID,
		dto.BundleComponentDTO{ChildProductID: cafe.ID, QuantityPerUnit: 1}))

	comps, err := f.uc.GetComponents(context.Background(), "empresa-1", combo.ID)
	require.NoError(t, err)
	require.Len(t, comps, 1, "la definición nueva reemplaza por completo la anterior")
	assert.Equal(t, cafe.ID, comps[0].ChildProductID)
}

func TestSetBundleComponents_ProductoFisicoRechazado(t *testing.T) {
	f := build(t)
	pan := f.crear(t, dto.CreateProductRequest{SKU: "PAN-1", Name: "Pan"})
	cafe := f.crear(t, dto.CreateProductRequest{SKU: "CAFE-1", Name: "Café"})

	err := setComponents(t, f, pan.ID, dto.BundleComponentDTO{ChildProductID: cafe.ID, QuantityPerUnit: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo un combo admite componentes")
}

func TestSetBundleComponents_AutoReferenciaRechazada(t *testing.T) {
	f := build(t)
	combo := f.crear(t, dto.CreateProductRequest{SKU: "COMBO-1", Name: "Combo", IsBundle: true})

	err := setComponents(t, f, combo.ID, dto.BundleComponentDTO{ChildProductID: combo.ID, QuantityPerUnit: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetBundleComponents_CantidadNoPositivaRechazada(t *testing.T) {
	f := build(t)
	combo := f.crear(t, dto.CreateProductRequest{SKU: "COMBO-1", Name: "Combo", IsBundle: true})
	pan := f.crear(t, dto.CreateProductRequest{SKU: "PAN-1", Name: "Pan"})

	err := setComponents(t, f, combo.ID, dto.BundleComponentDTO{ChildProductID: pan.ID, QuantityPerUnit: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Invariante estructural: A→B y luego B→A formaría un ciclo; se rechaza en escritura.
func TestSetBundleComponents_CicloIndirectoRechazado(t *testing.T) {
	f := build(t)
	a := f.crear(t, dto.CreateProductRequest{SKU: "A", Name: "Combo A", IsBundle: true})
	b := f.crear(t, dto.CreateProductRequest{SKU: "B", Name: "Combo B", IsBundle: true})

	require.NoError(t, setComponents(t, f, a.ID, dto.BundleComponentDTO{ChildProductID: b.ID, QuantityPerUnit: 1}))

	err := setComponents(t, f, b.ID, dto.BundleComponentDTO{ChildProductID: a.ID, QuantityPerUnit: 1})
	assert.ErrorIs(t, err, domain.ErrBundleCycle,
		"un producto nunca puede contenerse transitivamente a sí mismo")

	// La definición previa de B queda intacta (vacía).
	comps, err := f.uc.GetComponents(context.Background(), "empresa-1", b.ID)
	require.NoError(t, err)
	assert.Empty(t, comps)
}

// Reemplazar la definición existente no debe dispararse como falso ciclo.
func TestSetBundleComponents_ReemplazoNoEsFalsoCiclo(t *testing.T) {
	f := build(t)
	combo := f.crear(t, dto.CreateProductRequest{SKU: "COMBO-1", Name: "Combo", IsBundle: true})
	pan := f.crear(t, dto.CreateProductRequest{SKU: "PAN-1", Name: "Pan"})

	require.NoError(t, setComponents(t, f, combo.ID,
		dto.BundleComponentDTO{ChildProductID: pan.ID, QuantityPerUnit: 2}))
	// Mismo hijo, otra cantidad: las aristas viejas del padre se descartan al validar.
	assert.NoError(t, setComponents(t, f, combo.ID,
		dto.BundleComponentDTO{ChildProductID: pan.ID, QuantityPerUnit: 3}))
}

func TestSetBundleComponents_HijoInexistenteRechazado(t *testing.T) {
	f := build(t)
	combo := f.crear(t, dto.CreateProductRequest{SKU: "COMBO-1", Name: "Combo", IsBundle: true})

	err := setComponents(t, f, combo.ID, dto.BundleComponentDTO{ChildProductID: "fantasma", QuantityPerUnit: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
