// Package stock implementa el núcleo puro de agregación y valoración de
// inventario: stock total, costo promedio ponderado y validación de
// colocación de stock. Sin efectos secundarios; la capa de persistencia
// alimenta estas funciones con hechos ya leídos.
package stock

import "github.com/shopspring/decimal"

// Fact es la unidad mínima de agregación: la cantidad de un stock item
// junto con el costo unitario de compra de su lote.
type Fact struct {
	ProductID string
	LotID     string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// TotalStock suma las cantidades. Sin hechos devuelve 0, nunca un error:
// la ausencia de stock es un total de cero (coalesce en la frontera).
func TotalStock(facts []Fact) int64 {
	var total int64
	for _, f := range facts {
		total += f.Quantity
	}
	return total
}

// TotalValue suma cantidad × costo unitario del lote sobre todos los hechos.
func TotalValue(facts []Fact) decimal.Decimal {
	total := decimal.Zero
	for _, f := range facts {
		total = total.Add(decimal.NewFromInt(f.Quantity).Mul(f.UnitCost))
	}
	return total
}

// WeightedAverageCost calcula el costo promedio ponderado:
// sum(cantidad × costo_lote) / sum(cantidad). Definido como exactamente 0
// cuando la cantidad agregada es 0 (evita división por cero).
// Aritmética decimal exacta; redondear solo al presentar (2 decimales).
func WeightedAverageCost(facts []Fact) decimal.Decimal {
	total := TotalStock(facts)
	if total == 0 {
		return decimal.Zero
	}
	return TotalValue(facts).Div(decimal.NewFromInt(total))
}

// ProductFacts agrupa los hechos de stock de un producto para la valoración.
type ProductFacts struct {
	ProductID   string
	ProductName string
	Facts       []Fact
}

// ProductValuation es la valoración de un producto con stock.
type ProductValuation struct {
	ProductID           string
	ProductName         string
	StockTotal          int64
	WeightedAverageCost decimal.Decimal // sin redondear
	TotalValue          decimal.Decimal
}

// Valuation es el reporte de valoración del inventario completo.
type Valuation struct {
	TotalValue decimal.Decimal
	Products   []ProductValuation
}

// BuildValuation construye la valoración del inventario: solo incluye
// productos con stock total > 0; el valor por producto es
// stock_total × costo_promedio_ponderado y el total es la suma de todos.
func BuildValuation(groups []ProductFacts) Valuation {
	v := Valuation{TotalValue: decimal.Zero}
	for _, g := range groups {
		total := TotalStock(g.Facts)
		if total <= 0 {
			continue
		}
		value := TotalValue(g.Facts)
		v.Products = append(v.Products, ProductValuation{
			ProductID:           g.ProductID,
			ProductName:         g.ProductName,
			StockTotal:          total,
			WeightedAverageCost: value.Div(decimal.NewFromInt(total)),
			TotalValue:          value,
		})
		v.TotalValue = v.TotalValue.Add(value)
	}
	return v
}
