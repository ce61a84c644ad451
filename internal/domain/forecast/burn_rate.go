package forecast

import "github.com/shopspring/decimal"

// BurnRate calcula la tasa de venta diaria: unidades vendidas en la ventana
// dividido entre los días de la ventana (promedio móvil simple, servicio de dominio).
// La división es decimal exacta y determinista; nunca float64.
// No cambiar a promedio exponencial sin decisión explícita: alteraría los ETAs observados.
func BurnRate(unitsSold int64, windowDays int) decimal.Decimal {
	if windowDays <= 0 || unitsSold <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(unitsSold).Div(decimal.NewFromInt(int64(windowDays)))
}

// DaysUntilStockout proyecta los días hasta quiebre de stock: floor(cantidad / tasa).
// Si la tasa es cero no hay consumo medible y el resultado es "sin límite"
// (unbounded=true); el caller nunca debe interpretar un número grande como centinela.
// Con stock en o bajo cero el resultado se fija en 0 días.
func DaysUntilStockout(quantity int64, rate decimal.Decimal) (days int64, unbounded bool) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return 0, true
	}
	if quantity <= 0 {
		return 0, false
	}
	return decimal.NewFromInt(quantity).Div(rate).Floor().IntPart(), false
}
