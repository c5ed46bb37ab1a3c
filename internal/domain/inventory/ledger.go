package inventory

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
)

// MoneyScale decimales de los montos persistidos.
const MoneyScale = 2

// MaxQuantity tope de unidades por renglón de lote o venta.
const MaxQuantity int64 = 1_000_000_000

// MaxMoney cota exclusiva de las columnas NUMERIC(12,2): 10^10.
var MaxMoney = decimal.New(1, 10)

// MoneyInRange indica si v entra en NUMERIC(12,2) sin ser negativo.
func MoneyInRange(v decimal.Decimal) bool {
	return !v.IsNegative() && v.LessThan(MaxMoney)
}

// LineSubtotal cantidad × precio redondeado a 2 decimales (half-even).
func LineSubtotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity)).RoundBank(MoneyScale)
}

// NormalizeMoney lleva un monto a la escala de la columna NUMERIC(12,2).
func NormalizeMoney(v decimal.Decimal) decimal.Decimal {
	return v.RoundBank(MoneyScale)
}

// DistinctSortedIDs devuelve los IDs sin repetir en orden ascendente.
// Es el orden en que se toman los bloqueos de fila.
func DistinctSortedIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// MissingIDs devuelve los IDs de wanted (ordenado) que no están en found.
func MissingIDs(wanted []int64, found map[int64]*entity.Product) []int64 {
	var missing []int64
	for _, id := range wanted {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Demand cantidad total pedida por producto dentro de una misma operación.
type Demand map[int64]int64

// Add acumula una línea. La suma satura en math.MaxInt64 en vez de desbordar.
func (d Demand) Add(productID, quantity int64) {
	cur := d[productID]
	if quantity > 0 && cur > math.MaxInt64-quantity {
		d[productID] = math.MaxInt64
		return
	}
	d[productID] = cur + quantity
}

// Shortages compara la demanda agregada contra el stock y devuelve todos los faltantes,
// ordenados por producto.
func (d Demand) Shortages(products map[int64]*entity.Product) []domain.StockShortage {
	ids := make([]int64, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var out []domain.StockShortage
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			continue
		}
		if requested := d[id]; requested > p.Quantity {
			out = append(out, domain.StockShortage{ProductID: id, Available: p.Quantity, Requested: requested})
		}
	}
	return out
}
