// Package production contiene las reglas puras de fabricación: explosión de recetas,
// cálculo de requerimientos de material y transiciones de estado de órdenes.
package production

import (
	"context"
	"fmt"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RecipeLookup devuelve la receta (líneas de componentes) de un producto.
type RecipeLookup func(ctx context.Context, productID string) ([]*entity.ProductComponent, error)

// CalculateRequirements calcula, por cada línea de materia prima de la receta,
// required = component.quantity × orderQty. Sin redondeo ni conversión de unidades.
// Las líneas del mismo material se suman respetando el orden de primera aparición;
// las líneas de sub-producto se ignoran (usar ExplodeRecipe antes para expandirlas).
// Receta vacía → lista vacía, nunca nil.
func CalculateRequirements(recipe []*entity.ProductComponent, orderQty decimal.Decimal) []entity.MaterialRequirementLine {
	out := make([]entity.MaterialRequirementLine, 0, len(recipe))
	idx := make(map[string]int, len(recipe))
	for _, c := range recipe {
		if !c.IsMaterial() {
			continue
		}
		qty := c.Quantity.Mul(orderQty)
		if i, ok := idx[c.MaterialID]; ok {
			out[i].RequiredQuantity = out[i].RequiredQuantity.Add(qty)
			continue
		}
		idx[c.MaterialID] = len(out)
		out = append(out, entity.MaterialRequirementLine{MaterialID: c.MaterialID, RequiredQuantity: qty})
	}
	return out
}

// ExplodeRecipe aplana la receta de productID: cada línea de sub-producto se reemplaza por
// las líneas de su propia receta multiplicadas por la cantidad de la línea. Devuelve solo
// líneas de materia prima, con cantidades por unidad del producto raíz.
// Un ciclo en la receta devuelve domain.ErrInvalidInput.
func ExplodeRecipe(ctx context.Context, productID string, lookup RecipeLookup) ([]*entity.ProductComponent, error) {
	var out []*entity.ProductComponent
	if err := explode(ctx, productID, decimal.NewFromInt(1), lookup, map[string]bool{}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []*entity.ProductComponent{}
	}
	return out, nil
}

func explode(
	ctx context.Context,
	productID string,
	factor decimal.Decimal,
	lookup RecipeLookup,
	path map[string]bool,
	out *[]*entity.ProductComponent,
) error {
	if path[productID] {
		return fmt.Errorf("%w: la receta del producto %s es cíclica", domain.ErrInvalidInput, productID)
	}
	recipe, err := lookup(ctx, productID)
	if err != nil {
		return err
	}

	// cada rama lleva su propia copia del camino para permitir sub-productos compartidos
	branch := make(map[string]bool, len(path)+1)
	for k := range path {
		branch[k] = true
	}
	branch[productID] = true

	for _, c := range recipe {
		qty := c.Quantity.Mul(factor)
		if c.IsMaterial() {
			line := *c
			line.Quantity = qty
			*out = append(*out, &line)
			continue
		}
		if err := explode(ctx, c.ComponentProductID, qty, lookup, branch, out); err != nil {
			return err
		}
	}
	return nil
}

// CheckAvailability compara los requerimientos contra el stock disponible por material
// y devuelve los faltantes (vacío si todo alcanza).
func CheckAvailability(reqs []entity.MaterialRequirementLine, available map[string]decimal.Decimal) []entity.MaterialShortage {
	var out []entity.MaterialShortage
	for _, r := range reqs {
		have := available[r.MaterialID]
		if have.LessThan(r.RequiredQuantity) {
			out = append(out, entity.MaterialShortage{MaterialID: r.MaterialID, Required: r.RequiredQuantity, Available: have})
		}
	}
	return out
}
