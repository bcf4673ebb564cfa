package usecase_test

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"

	"github.com/jhoicas/Fabrica-api/internal/application/usecase"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

var errUpdateFailed = errors.New("update falló")

// catalog repositorios en memoria de productos, recetas, categorías y proveedores.
// failUpdate hace fallar Update del producto con ese ID.
type catalog struct {
	mu         sync.Mutex
	txMu       sync.Mutex
	products   map[string]entity.Product
	components map[string]entity.ProductComponent
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier
	failUpdate string
}

// RunCatalog serializa las transacciones; un error restaura productos y recetas.
func (c *catalog) RunCatalog(_ context.Context, fn func(repos usecase.CatalogTxRepos) error) error {
	c.txMu.Lock()
	defer c.txMu.Unlock()

	c.mu.Lock()
	products, components := maps.Clone(c.products), maps.Clone(c.components)
	c.mu.Unlock()

	if err := fn(usecase.CatalogTxRepos{Products: productRepo{c}, Components: componentRepo{c}}); err != nil {
		c.mu.Lock()
		c.products, c.components = products, components
		c.mu.Unlock()
		return err
	}
	return nil
}

func newCatalog() *catalog {
	return &catalog{
		products:   map[string]entity.Product{},
		components: map[string]entity.ProductComponent{},
		categories: map[string]entity.Category{},
		suppliers:  map[string]entity.Supplier{},
	}
}

type productRepo struct{ c *catalog }
type componentRepo struct{ c *catalog }
type categoryRepo struct{ c *catalog }
type supplierRepo struct{ c *catalog }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if p, ok := r.c.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, p := range r.c.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(ctx context.Context, p *entity.Product) error {
	if r.c.failUpdate == p.ID {
		return errUpdateFailed
	}
	return r.Create(ctx, p)
}

func (r productRepo) List(_ context.Context, status string, _, _ int) ([]*entity.Product, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.c.products {
		if status == "" || p.Status == status {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r componentRepo) Create(_ context.Context, comp *entity.ProductComponent) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.components[comp.ID] = *comp
	return nil
}

func (r componentRepo) GetByID(_ context.Context, id string) (*entity.ProductComponent, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if comp, ok := r.c.components[id]; ok {
		return &comp, nil
	}
	return nil, nil
}

func (r componentRepo) Delete(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	delete(r.c.components, id)
	return nil
}

func (r componentRepo) filter(keep func(entity.ProductComponent) bool) []*entity.ProductComponent {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []*entity.ProductComponent
	for _, comp := range r.c.components {
		if keep(comp) {
			comp := comp
			out = append(out, &comp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r componentRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ProductComponent, error) {
	return r.filter(func(c entity.ProductComponent) bool { return c.ProductID == productID }), nil
}

func (r componentRepo) ListParents(_ context.Context, componentProductID string) ([]*entity.ProductComponent, error) {
	return r.filter(func(c entity.ProductComponent) bool { return c.ComponentProductID == componentProductID }), nil
}

func (r componentRepo) List(_ context.Context) ([]*entity.ProductComponent, error) {
	return r.filter(func(entity.ProductComponent) bool { return true }), nil
}

func (r categoryRepo) Create(_ context.Context, cat *entity.Category) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.categories[cat.ID] = *cat
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if cat, ok := r.c.categories[id]; ok {
		return &cat, nil
	}
	return nil, nil
}

func (r categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, cat := range r.c.categories {
		if cat.Name == name {
			return &cat, nil
		}
	}
	return nil, nil
}

func (r categoryRepo) List(_ context.Context, _, _ int) ([]*entity.Category, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.c.categories))
	for _, cat := range r.c.categories {
		cat := cat
		out = append(out, &cat)
	}
	return out, nil
}

func (r supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.suppliers[s.ID] = *s
	return nil
}

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if s, ok := r.c.suppliers[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r supplierRepo) GetByCode(_ context.Context, code string) (*entity.Supplier, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, s := range r.c.suppliers {
		if s.Code == code {
			return &s, nil
		}
	}
	return nil, nil
}

func (r supplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	return r.Create(ctx, s)
}

func (r supplierRepo) List(_ context.Context, _, _ int) ([]*entity.Supplier, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	out := make([]*entity.Supplier, 0, len(r.c.suppliers))
	for _, s := range r.c.suppliers {
		s := s
		out = append(out, &s)
	}
	return out, nil
}
