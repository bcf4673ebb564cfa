package repository

import (
	"context"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Product, error)
}

// ProductComponentRepository define el puerto de persistencia para las líneas de receta.
type ProductComponentRepository interface {
	Create(ctx context.Context, component *entity.ProductComponent) error
	GetByID(ctx context.Context, id string) (*entity.ProductComponent, error)
	Delete(ctx context.Context, id string) error
	// ListByProduct devuelve la receta en orden de creación.
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductComponent, error)
	// ListParents devuelve las líneas que usan el producto como sub-producto.
	ListParents(ctx context.Context, componentProductID string) ([]*entity.ProductComponent, error)
	// List devuelve todas las líneas de receta.
	List(ctx context.Context) ([]*entity.ProductComponent, error)
}
