package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ProductUseCase casos de uso de catálogo para productos y combos.
// El stock solo cambia vía asientos de kardex; aquí solo la creación atómica
// con stock inicial y la definición del grafo de combos.
type ProductUseCase struct {
	txRunner         CatalogTxRunner
	repo             repository.ProductRepository
	warehouseRepo    repository.WarehouseRepository
	componentRepo    repository.BundleComponentRepository
	defaultThreshold int64
}

// NewProductUseCase construye el caso de uso. defaultThreshold <= 0 usa 10.
func NewProductUseCase(
	txRunner CatalogTxRunner,
	repo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	componentRepo repository.BundleComponentRepository,
	defaultThreshold int64,
) *ProductUseCase {
	if defaultThreshold <= 0 {
		defaultThreshold = 10
	}
	return &ProductUseCase{
		txRunner:         txRunner,
		repo:             repo,
		warehouseRepo:    warehouseRepo,
		componentRepo:    componentRepo,
		defaultThreshold: defaultThreshold,
	}
}

// Create crea un producto; si trae stock inicial, el producto, el asiento
// 'restock' y la proyección se persisten en la misma transacción (atómico:
// nunca queda un producto sin su inventario inicial ni viceversa).
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.InitialQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.IsBundle && in.InitialQuantity > 0 {
		// Los combos no almacenan stock propio.
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	if in.InitialQuantity > 0 {
		if in.WarehouseID == "" {
			return nil, domain.ErrInvalidInput
		}
		wh, _ := uc.warehouseRepo.GetByID(in.WarehouseID)
		if wh == nil || wh.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
	}

	threshold := uc.defaultThreshold
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		threshold = *in.LowStockThreshold
	}

	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		CompanyID:         companyID,
		SKU:               in.SKU,
		Name:              in.Name,
		Price:             in.Price,
		IsBundle:          in.IsBundle,
		LowStockThreshold: threshold,
		PrimarySupplierID: in.PrimarySupplierID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := uc.txRunner.RunCatalog(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.BundleComponentRepository,
		entryRepo repository.LedgerEntryRepository,
		stockRepo repository.StockLevelRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if in.InitialQuantity == 0 {
			return nil
		}
		entry := &entity.LedgerEntry{
			ID:          uuid.New().String(),
			CompanyID:   companyID,
			ProductID:   product.ID,
			WarehouseID: in.WarehouseID,
			Delta:       in.InitialQuantity,
			Reason:      entity.ReasonRestock,
			CreatedAt:   now,
		}
		if err := entryRepo.Create(ctx, entry); err != nil {
			return err
		}
		return stockRepo.Upsert(ctx, &entity.StockLevel{
			ProductID:   product.ID,
			WarehouseID: in.WarehouseID,
			Quantity:    in.InitialQuantity,
			UpdatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID, verificando pertenencia a la empresa.
func (uc *ProductUseCase) GetByID(companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toProductResponse(product), nil
}

// Update actualiza precio, nombre, umbral o proveedor. SKU e IsBundle son inmutables.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.LowStockThreshold = *in.LowStockThreshold
	}
	if in.PrimarySupplierID != nil {
		product.PrimarySupplierID = *in.PrimarySupplierID
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// SetBundleComponents reemplaza el conjunto de componentes de un combo.
// Valida en escritura el invariante estructural: cantidades positivas, hijos
// existentes de la misma empresa, sin auto-referencia y sin ciclos (un producto
// nunca puede contenerse transitivamente a sí mismo).
func (uc *ProductUseCase) SetBundleComponents(ctx context.Context, companyID, parentID string, in dto.SetBundleComponentsRequest) error {
	parent, err := uc.repo.GetByID(parentID)
	if err != nil || parent == nil {
		return domain.ErrNotFound
	}
	if parent.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if !parent.IsBundle {
		return domain.ErrInvalidInput
	}

	products, err := uc.repo.ListAllByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	components := make([]entity.BundleComponent, 0, len(in.Components))
	seen := make(map[string]bool, len(in.Components))
	for _, c := range in.Components {
		if c.QuantityPerUnit <= 0 || c.ChildProductID == parentID || seen[c.ChildProductID] {
			return domain.ErrInvalidInput
		}
		if byID[c.ChildProductID] == nil {
			return domain.ErrNotFound
		}
		seen[c.ChildProductID] = true
		components = append(components, entity.BundleComponent{
			ParentID:        parentID,
			ChildID:         c.ChildProductID,
			QuantityPerUnit: c.QuantityPerUnit,
		})
	}

	if err := uc.checkAcyclic(ctx, companyID, parentID, components); err != nil {
		return err
	}

	return uc.txRunner.RunCatalog(ctx, func(
		_ repository.ProductRepository,
		componentRepo repository.BundleComponentRepository,
		_ repository.LedgerEntryRepository,
		_ repository.StockLevelRepository,
	) error {
		return componentRepo.ReplaceForParent(ctx, parentID, components)
	})
}

// GetComponents devuelve los componentes directos de un combo.
func (uc *ProductUseCase) GetComponents(ctx context.Context, companyID, parentID string) ([]dto.BundleComponentDTO, error) {
	parent, err := uc.repo.GetByID(parentID)
	if err != nil || parent == nil {
		return nil, domain.ErrNotFound
	}
	if parent.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	edges, err := uc.componentRepo.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BundleComponentDTO, 0, len(edges))
	for _, e := range edges {
		out = append(out, dto.BundleComponentDTO{
			ChildProductID:  e.ChildID,
			QuantityPerUnit: e.QuantityPerUnit,
		})
	}
	return out, nil
}

// checkAcyclic simula el grafo con las aristas del padre reemplazadas y verifica
// que el padre no sea alcanzable desde sus nuevos hijos (DFS con set explícito).
func (uc *ProductUseCase) checkAcyclic(ctx context.Context, companyID, parentID string, replacement []entity.BundleComponent) error {
	edges, err := uc.componentRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	children := make(map[string][]string)
	for _, e := range edges {
		if e.ParentID == parentID {
			continue
		}
		children[e.ParentID] = append(children[e.ParentID], e.ChildID)
	}
	for _, c := range replacement {
		children[parentID] = append(children[parentID], c.ChildID)
	}

	visited := make(map[string]bool)
	var stack []string
	for _, c := range replacement {
		stack = append(stack, c.ChildID)
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == parentID {
			return domain.ErrBundleCycle
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		stack = append(stack, children[node]...)
	}
	return nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(companyID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto por ID (verifica pertenencia).
func (uc *ProductUseCase) Delete(companyID, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return nil
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                p.ID,
		CompanyID:         p.CompanyID,
		SKU:               p.SKU,
		Name:              p.Name,
		Price:             p.Price,
		IsBundle:          p.IsBundle,
		LowStockThreshold: p.LowStockThreshold,
		PrimarySupplierID: p.PrimarySupplierID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
