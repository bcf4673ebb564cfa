package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost recalcula el precio unitario de un material al recibir mercancía con costo.
// Nuevo = ((StockActual * PrecioActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverageCost(currentStock, currentPrice, receivedQty, receivedCost decimal.Decimal) decimal.Decimal {
	sum := currentStock.Add(receivedQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return receivedCost
	}
	num := currentStock.Mul(currentPrice).Add(receivedQty.Mul(receivedCost))
	return num.Div(sum).Round(4)
}
