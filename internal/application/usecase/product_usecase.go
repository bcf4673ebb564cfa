package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// manufacturingOverhead factor sobre el costo de componentes: 20 % de fabricación.
var manufacturingOverhead = decimal.New(12, -1)

// CatalogTxRepos repositorios de productos y recetas atados a una misma transacción.
type CatalogTxRepos struct {
	Products   repository.ProductRepository
	Components repository.ProductComponentRepository
}

// CatalogTxRunner ejecuta fn dentro de una transacción; error → Rollback.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(repos CatalogTxRepos) error) error
}

// ProductUseCase casos de uso de productos terminados, categorías y recetas.
type ProductUseCase struct {
	repo          repository.ProductRepository
	componentRepo repository.ProductComponentRepository
	categoryRepo  repository.CategoryRepository
	materialRepo  repository.MaterialRepository
	txRunner      CatalogTxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	componentRepo repository.ProductComponentRepository,
	categoryRepo repository.CategoryRepository,
	materialRepo repository.MaterialRepository,
	txRunner CatalogTxRunner,
) *ProductUseCase {
	return &ProductUseCase{
		repo:          repo,
		componentRepo: componentRepo,
		categoryRepo:  categoryRepo,
		materialRepo:  materialRepo,
		txRunner:      txRunner,
	}
}

// CreateCategory crea una categoría con nombre único y padre opcional.
func (uc *ProductUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	existing, err := uc.categoryRepo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrDuplicate, in.Name)
	}
	if in.ParentID != "" {
		parent, err := uc.categoryRepo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: categoría padre %s", domain.ErrNotFound, in.ParentID)
		}
	}
	now := time.Now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		ParentID:    in.ParentID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// ListCategories lista categorías.
func (uc *ProductUseCase) ListCategories(ctx context.Context, limit, offset int) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Create crea un producto. SKU único; estado por defecto active.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: sku y name son obligatorios", domain.ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = entity.ProductStatusActive
	}
	now := time.Now()
	p := &entity.Product{
		ID:                    uuid.New().String(),
		SKU:                   in.SKU,
		Name:                  in.Name,
		Description:           in.Description,
		CategoryID:            in.CategoryID,
		UnitPrice:             in.UnitPrice,
		CostPrice:             in.CostPrice,
		Status:                in.Status,
		MinStockLevel:         in.MinStockLevel,
		MaxStockLevel:         in.MaxStockLevel,
		ManufacturingLeadTime: in.ManufacturingLeadTime,
		BatchSize:             in.BatchSize,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if p.Status == entity.ProductStatusDiscontinued {
		return nil, fmt.Errorf("%w: un producto nuevo no puede nacer discontinuado", domain.ErrInvalidInput)
	}
	if err := uc.validate(ctx, p); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, p.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrDuplicate, p.SKU)
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Update actualiza un producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.UnitPrice != nil {
		p.UnitPrice = *in.UnitPrice
	}
	if in.CostPrice != nil {
		p.CostPrice = *in.CostPrice
	}
	if in.Status != nil {
		if *in.Status == entity.ProductStatusDiscontinued {
			return nil, fmt.Errorf("%w: use el endpoint de discontinuar", domain.ErrInvalidInput)
		}
		p.Status = *in.Status
	}
	if in.MinStockLevel != nil {
		p.MinStockLevel = *in.MinStockLevel
	}
	if in.MaxStockLevel != nil {
		p.MaxStockLevel = *in.MaxStockLevel
	}
	if in.ManufacturingLeadTime != nil {
		p.ManufacturingLeadTime = *in.ManufacturingLeadTime
	}
	if in.BatchSize != nil {
		p.BatchSize = *in.BatchSize
	}
	if err := uc.validate(ctx, p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List lista productos; status vacío no filtra.
func (uc *ProductUseCase) List(ctx context.Context, status string, limit, offset int) (*dto.ProductListResponse, error) {
	if status != "" && !entity.ValidProductStatus(status) {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, status)
	}
	list, err := uc.repo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Discontinue marca el producto como discontinuado y, en cascada, todo producto que lo use
// como componente no opcional. La cascada completa se aplica en una sola transacción.
func (uc *ProductUseCase) Discontinue(ctx context.Context, id string) (*dto.DiscontinueResponse, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	now := time.Now()
	var discontinued []string
	err := uc.txRunner.RunCatalog(ctx, func(tx CatalogTxRepos) error {
		discontinued = []string{}
		seen := map[string]bool{}
		queue := []string{id}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if seen[cur] {
				continue
			}
			seen[cur] = true

			p, err := tx.Products.GetByID(ctx, cur)
			if err != nil {
				return err
			}
			if p == nil {
				continue
			}
			if p.Status != entity.ProductStatusDiscontinued {
				p.Status = entity.ProductStatusDiscontinued
				p.DiscontinuedAt = &now
				p.UpdatedAt = now
				if err := tx.Products.Update(ctx, p); err != nil {
					return err
				}
				discontinued = append(discontinued, p.ID)
			}

			parents, err := tx.Components.ListParents(ctx, cur)
			if err != nil {
				return err
			}
			for _, line := range parents {
				if !line.Optional {
					queue = append(queue, line.ProductID)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.DiscontinueResponse{Discontinued: discontinued}, nil
}

// AddComponent agrega una línea a la receta del producto.
func (uc *ProductUseCase) AddComponent(ctx context.Context, productID string, in dto.AddComponentRequest) (*dto.ComponentResponse, error) {
	if _, err := uc.get(ctx, productID); err != nil {
		return nil, err
	}
	if (in.MaterialID == "") == (in.ComponentProductID == "") {
		return nil, fmt.Errorf("%w: indique exactamente uno de material_id o component_product_id", domain.ErrInvalidInput)
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if in.MaterialID != "" {
		m, err := uc.materialRepo.GetByID(ctx, in.MaterialID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("%w: material %s", domain.ErrNotFound, in.MaterialID)
		}
	} else {
		if in.ComponentProductID == productID {
			return nil, fmt.Errorf("%w: un producto no puede contenerse a sí mismo", domain.ErrInvalidInput)
		}
		if _, err := uc.get(ctx, in.ComponentProductID); err != nil {
			return nil, err
		}
		cyclic, err := uc.contains(ctx, in.ComponentProductID, productID, map[string]bool{})
		if err != nil {
			return nil, err
		}
		if cyclic {
			return nil, fmt.Errorf("%w: la receta quedaría cíclica", domain.ErrInvalidInput)
		}
	}
	c := &entity.ProductComponent{
		ID:                 uuid.New().String(),
		ProductID:          productID,
		MaterialID:         in.MaterialID,
		ComponentProductID: in.ComponentProductID,
		Quantity:           in.Quantity,
		Optional:           in.Optional,
		Notes:              in.Notes,
		CreatedAt:          time.Now(),
	}
	err := uc.txRunner.RunCatalog(ctx, func(tx CatalogTxRepos) error {
		if err := tx.Components.Create(ctx, c); err != nil {
			return err
		}
		return uc.rollUpCost(ctx, tx, productID)
	})
	if err != nil {
		return nil, err
	}
	return toComponentResponse(c), nil
}

// ListComponents devuelve la receta del producto.
func (uc *ProductUseCase) ListComponents(ctx context.Context, productID string) ([]dto.ComponentResponse, error) {
	if _, err := uc.get(ctx, productID); err != nil {
		return nil, err
	}
	list, err := uc.componentRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ComponentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toComponentResponse(c))
	}
	return out, nil
}

// RemoveComponent elimina una línea de la receta.
func (uc *ProductUseCase) RemoveComponent(ctx context.Context, productID, componentID string) error {
	c, err := uc.componentRepo.GetByID(ctx, componentID)
	if err != nil {
		return err
	}
	if c == nil || c.ProductID != productID {
		return fmt.Errorf("%w: componente %s", domain.ErrNotFound, componentID)
	}
	return uc.txRunner.RunCatalog(ctx, func(tx CatalogTxRepos) error {
		if err := tx.Components.Delete(ctx, componentID); err != nil {
			return err
		}
		return uc.rollUpCost(ctx, tx, productID)
	})
}

// rollUpCost recalcula cost_price del producto: Σ cantidad × costo unitario de cada
// componente, más el recargo de fabricación, a dos decimales.
func (uc *ProductUseCase) rollUpCost(ctx context.Context, tx CatalogTxRepos, productID string) error {
	p, err := tx.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	list, err := tx.Components.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, c := range list {
		ref, err := uc.componentRef(ctx, tx.Products, c)
		if err != nil {
			return err
		}
		total = total.Add(c.Quantity.Mul(ref.unitCost))
	}
	p.CostPrice = total.Mul(manufacturingOverhead).Round(2)
	p.UpdatedAt = time.Now()
	return tx.Products.Update(ctx, p)
}

// ComponentUsage uso de cada material o sub-producto en las recetas: número de productos que
// lo usan y cantidad total por unidad, de mayor a menor uso.
func (uc *ProductUseCase) ComponentUsage(ctx context.Context) ([]dto.ComponentUsageDTO, error) {
	list, err := uc.componentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []dto.ComponentUsageDTO{}
	idx := map[string]int{}
	products := map[string]map[string]bool{}
	for _, c := range list {
		ref, err := uc.componentRef(ctx, uc.repo, c)
		if err != nil {
			return nil, err
		}
		key := ref.kind + ":" + ref.id
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			products[key] = map[string]bool{}
			out = append(out, dto.ComponentUsageDTO{Kind: ref.kind, RefID: ref.id, Code: ref.code, Name: ref.name})
		}
		products[key][c.ProductID] = true
		out[i].UsageCount = len(products[key])
		out[i].TotalQuantity = out[i].TotalQuantity.Add(c.Quantity)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UsageCount != out[j].UsageCount {
			return out[i].UsageCount > out[j].UsageCount
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// BOM lista de materiales del primer nivel con costo unitario (precio del material o costo
// del sub-producto) y costo total.
func (uc *ProductUseCase) BOM(ctx context.Context, productID string) (*dto.BOMResponse, error) {
	p, err := uc.get(ctx, productID)
	if err != nil {
		return nil, err
	}
	list, err := uc.componentRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := &dto.BOMResponse{ProductID: p.ID, SKU: p.SKU, Lines: make([]dto.BOMLineDTO, 0, len(list)), TotalCost: decimal.Zero}
	for _, c := range list {
		ref, err := uc.componentRef(ctx, uc.repo, c)
		if err != nil {
			return nil, err
		}
		line := dto.BOMLineDTO{
			ComponentID: c.ID,
			Kind:        ref.kind,
			RefID:       ref.id,
			Code:        ref.code,
			Name:        ref.name,
			Quantity:    c.Quantity,
			UnitCost:    ref.unitCost,
			Optional:    c.Optional,
		}
		line.TotalCost = line.Quantity.Mul(line.UnitCost)
		out.TotalCost = out.TotalCost.Add(line.TotalCost)
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}

// componentRef datos del material o sub-producto al que apunta una línea de receta.
// Si la referencia ya no existe, code y name quedan vacíos y el costo en cero.
type componentRef struct {
	kind, id, code, name string
	unitCost             decimal.Decimal
}

func (uc *ProductUseCase) componentRef(ctx context.Context, products repository.ProductRepository, c *entity.ProductComponent) (componentRef, error) {
	if c.IsMaterial() {
		ref := componentRef{kind: "material", id: c.MaterialID}
		m, err := uc.materialRepo.GetByID(ctx, c.MaterialID)
		if err != nil {
			return ref, err
		}
		if m != nil {
			ref.code, ref.name, ref.unitCost = m.Code, m.Name, m.UnitPrice
		}
		return ref, nil
	}
	ref := componentRef{kind: "product", id: c.ComponentProductID}
	sub, err := products.GetByID(ctx, c.ComponentProductID)
	if err != nil {
		return ref, err
	}
	if sub != nil {
		ref.code, ref.name, ref.unitCost = sub.SKU, sub.Name, sub.CostPrice
	}
	return ref, nil
}

// contains indica si target aparece en el árbol de sub-productos de root.
func (uc *ProductUseCase) contains(ctx context.Context, root, target string, seen map[string]bool) (bool, error) {
	if root == target {
		return true, nil
	}
	if seen[root] {
		return false, nil
	}
	seen[root] = true
	list, err := uc.componentRepo.ListByProduct(ctx, root)
	if err != nil {
		return false, err
	}
	for _, c := range list {
		if c.IsMaterial() {
			continue
		}
		found, err := uc.contains(ctx, c.ComponentProductID, target, seen)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

func (uc *ProductUseCase) validate(ctx context.Context, p *entity.Product) error {
	if !entity.ValidProductStatus(p.Status) {
		return fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, p.Status)
	}
	if p.UnitPrice.IsNegative() || p.CostPrice.IsNegative() {
		return fmt.Errorf("%w: precios no pueden ser negativos", domain.ErrInvalidInput)
	}
	if p.MinStockLevel < 0 || p.MinStockLevel > p.MaxStockLevel {
		return fmt.Errorf("%w: se requiere 0 ≤ min_stock_level ≤ max_stock_level", domain.ErrInvalidInput)
	}
	if p.ManufacturingLeadTime < 0 || p.BatchSize < 0 {
		return fmt.Errorf("%w: lead time y tamaño de lote no pueden ser negativos", domain.ErrInvalidInput)
	}
	if p.CategoryID != "" {
		c, err := uc.categoryRepo.GetByID(ctx, p.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, p.CategoryID)
		}
	}
	return nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, ParentID: c.ParentID, Description: c.Description, CreatedAt: c.CreatedAt}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                    p.ID,
		SKU:                   p.SKU,
		Name:                  p.Name,
		Description:           p.Description,
		CategoryID:            p.CategoryID,
		UnitPrice:             p.UnitPrice,
		CostPrice:             p.CostPrice,
		Status:                p.Status,
		MinStockLevel:         p.MinStockLevel,
		MaxStockLevel:         p.MaxStockLevel,
		ManufacturingLeadTime: p.ManufacturingLeadTime,
		BatchSize:             p.BatchSize,
		DiscontinuedAt:        p.DiscontinuedAt,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func toComponentResponse(c *entity.ProductComponent) *dto.ComponentResponse {
	return &dto.ComponentResponse{
		ID:                 c.ID,
		ProductID:          c.ProductID,
		MaterialID:         c.MaterialID,
		ComponentProductID: c.ComponentProductID,
		Quantity:           c.Quantity,
		Optional:           c.Optional,
		Notes:              c.Notes,
		CreatedAt:          c.CreatedAt,
	}
}
