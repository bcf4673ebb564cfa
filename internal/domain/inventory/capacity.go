package inventory

import (
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RequiredVolume volumen que ocupa una cantidad de material.
func RequiredVolume(quantity, volumePerUnit decimal.Decimal) decimal.Decimal {
	return quantity.Mul(volumePerUnit)
}

// IsAvailable indica si la ubicación tiene espacio libre para el volumen requerido:
// capacity - current_volume >= required.
func IsAvailable(location *entity.StorageLocation, required decimal.Decimal) bool {
	return location.FreeVolume().GreaterThanOrEqual(required)
}

// Utilization porcentaje ocupado sobre la capacidad (0 si la capacidad es 0).
func Utilization(used, capacity decimal.Decimal) decimal.Decimal {
	if capacity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return used.Div(capacity).Mul(hundred).Round(2)
}

// TypeUsage ocupación agregada por tipo de ubicación.
type TypeUsage struct {
	LocationType  string
	Locations     int
	Capacity      decimal.Decimal
	CurrentVolume decimal.Decimal
	Utilization   decimal.Decimal
}

// StorageByType agrupa las ubicaciones por tipo, en el orden en que aparece cada tipo.
func StorageByType(locations []*entity.StorageLocation) []TypeUsage {
	idx := make(map[string]int)
	var out []TypeUsage
	for _, l := range locations {
		i, ok := idx[l.LocationType]
		if !ok {
			i = len(out)
			idx[l.LocationType] = i
			out = append(out, TypeUsage{LocationType: l.LocationType})
		}
		out[i].Locations++
		out[i].Capacity = out[i].Capacity.Add(l.Capacity)
		out[i].CurrentVolume = out[i].CurrentVolume.Add(l.CurrentVolume)
	}
	for i := range out {
		out[i].Utilization = Utilization(out[i].CurrentVolume, out[i].Capacity)
	}
	return out
}

// AvailableLocations filtra las ubicaciones activas con espacio para el volumen requerido.
func AvailableLocations(locations []*entity.StorageLocation, required decimal.Decimal) []*entity.StorageLocation {
	out := make([]*entity.StorageLocation, 0, len(locations))
	for _, l := range locations {
		if l.Active && IsAvailable(l, required) {
			out = append(out, l)
		}
	}
	return out
}
