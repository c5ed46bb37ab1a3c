package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	domaininv "github.com/jhoicas/perfumes-admin-api/internal/domain/inventory"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

const (
	maxLotNameLen        = 120
	maxLotDescriptionLen = 255
	maxSaleNoteLen       = 250
)

// LotLine línea de ingreso ya validada.
type LotLine struct {
	ProductID int64
	Quantity  int64
	UnitCost  decimal.Decimal
}

// SaleLine línea de venta ya validada. UnitPrice nil = precio de venta del producto.
type SaleLine struct {
	ProductID int64
	Quantity  int64
	UnitPrice *decimal.Decimal
}

// ApplyLotIntake registra los ítems en el lote y suma el stock de cada producto.
// Debe llamarse dentro de TxRunner.Run con repositorios atados a la tx.
// Bloquea los productos en orden ascendente antes de escribir.
func ApplyLotIntake(
	ctx context.Context,
	products repository.ProductRepository,
	lots repository.LotRepository,
	lotID int64,
	lines []LotLine,
) ([]entity.LotItem, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(lines))
	for i, ln := range lines {
		ids[i] = ln.ProductID
	}
	ids = domaininv.DistinctSortedIDs(ids)

	locked, err := products.LockByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if missing := domaininv.MissingIDs(ids, locked); len(missing) > 0 {
		return nil, &domain.MissingProductsError{IDs: missing}
	}

	subtotals := make([]decimal.Decimal, len(lines))
	for i, ln := range lines {
		subtotals[i] = domaininv.LineSubtotal(ln.Quantity, ln.UnitCost)
		if !domaininv.MoneyInRange(subtotals[i]) {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].subtotal", i), "fuera de rango (máximo %s)", maxMoneyLabel())
		}
	}

	items := make([]entity.LotItem, 0, len(lines))
	for i, ln := range lines {
		item := &entity.LotItem{
			LotID:     lotID,
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			UnitCost:  ln.UnitCost,
			Subtotal:  subtotals[i],
		}
		if err := lots.AddItem(ctx, item); err != nil {
			return nil, err
		}
		if err := products.AdjustQuantity(ctx, ln.ProductID, ln.Quantity); err != nil {
			return nil, err
		}
		// último costo gana
		if err := products.UpdatePurchasePrice(ctx, ln.ProductID, ln.UnitCost); err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// RecordSale valida stock y precios de todas las líneas y luego escribe la venta,
// sus ítems y los descuentos de stock. El total se persiste una sola vez al final.
// Debe llamarse dentro de TxRunner.Run.
func RecordSale(
	ctx context.Context,
	products repository.ProductRepository,
	sales repository.SaleRepository,
	sale *entity.Sale,
	lines []SaleLine,
) error {
	if len(lines) == 0 {
		return domain.Invalid("items", "la venta debe tener al menos un ítem")
	}
	ids := make([]int64, len(lines))
	demand := domaininv.Demand{}
	for i, ln := range lines {
		ids[i] = ln.ProductID
		demand.Add(ln.ProductID, ln.Quantity)
	}
	ids = domaininv.DistinctSortedIDs(ids)

	locked, err := products.LockByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if missing := domaininv.MissingIDs(ids, locked); len(missing) > 0 {
		return &domain.MissingProductsError{IDs: missing}
	}
	if shortages := demand.Shortages(locked); len(shortages) > 0 {
		return &domain.InsufficientStockError{Shortages: shortages}
	}

	prices := make([]decimal.Decimal, len(lines))
	for i, ln := range lines {
		if ln.UnitPrice != nil {
			prices[i] = *ln.UnitPrice
			continue
		}
		p := locked[ln.ProductID]
		if !p.HasSalePrice() {
			return domain.Invalid(fmt.Sprintf("items[%d].unit_price", i),
				"el producto %d no tiene precio de venta definido", ln.ProductID)
		}
		prices[i] = p.SalePrice
	}

	subtotals := make([]decimal.Decimal, len(lines))
	total := decimal.Zero
	for i, ln := range lines {
		subtotals[i] = domaininv.LineSubtotal(ln.Quantity, prices[i])
		if !domaininv.MoneyInRange(subtotals[i]) {
			return domain.Invalid(fmt.Sprintf("items[%d].subtotal", i), "fuera de rango (máximo %s)", maxMoneyLabel())
		}
		total = total.Add(subtotals[i])
	}
	if !domaininv.MoneyInRange(total) {
		return domain.Invalid("total", "fuera de rango (máximo %s)", maxMoneyLabel())
	}

	sale.Total = decimal.Zero
	sale.Items = nil
	if err := sales.Create(ctx, sale); err != nil {
		return err
	}

	for i, ln := range lines {
		item := &entity.SaleItem{
			SaleID:    sale.ID,
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			UnitPrice: prices[i],
			Subtotal:  subtotals[i],
		}
		if err := sales.AddItem(ctx, item); err != nil {
			return err
		}
		if err := products.AdjustQuantity(ctx, ln.ProductID, -ln.Quantity); err != nil {
			return err
		}
		sale.Items = append(sale.Items, *item)
	}

	if err := sales.UpdateTotal(ctx, sale.ID, total); err != nil {
		return err
	}
	sale.Total = total
	return nil
}

// ParseDate interpreta una fecha YYYY-MM-DD.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.Invalid(field, "fecha inválida, se espera YYYY-MM-DD")
	}
	return t, nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ValidateLotItems convierte y valida los renglones de un ingreso.
func ValidateLotItems(items []dto.LotItemRequest) ([]LotLine, error) {
	lines := make([]LotLine, 0, len(items))
	for i, it := range items {
		if it.ProductID <= 0 {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "requerido")
		}
		if it.Quantity <= 0 {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor a 0")
		}
		if it.Quantity > domaininv.MaxQuantity {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "máximo %d", domaininv.MaxQuantity)
		}
		if it.UnitCost.IsNegative() {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].unit_cost", i), "no puede ser negativo")
		}
		cost := domaininv.NormalizeMoney(it.UnitCost)
		if !domaininv.MoneyInRange(cost) {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].unit_cost", i), "fuera de rango (máximo %s)", maxMoneyLabel())
		}
		lines = append(lines, LotLine{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: cost})
	}
	return lines, nil
}

func validateSaleItems(items []dto.SaleItemRequest) ([]SaleLine, error) {
	if len(items) == 0 {
		return nil, domain.Invalid("items", "la venta debe tener al menos un ítem")
	}
	lines := make([]SaleLine, 0, len(items))
	for i, it := range items {
		if it.ProductID <= 0 {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "requerido")
		}
		if it.Quantity <= 0 {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor a 0")
		}
		if it.Quantity > domaininv.MaxQuantity {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "máximo %d", domaininv.MaxQuantity)
		}
		ln := SaleLine{ProductID: it.ProductID, Quantity: it.Quantity}
		if it.UnitPrice != nil {
			if it.UnitPrice.IsNegative() {
				return nil, domain.Invalid(fmt.Sprintf("items[%d].unit_price", i), "no puede ser negativo")
			}
			p := domaininv.NormalizeMoney(*it.UnitPrice)
			if !domaininv.MoneyInRange(p) {
				return nil, domain.Invalid(fmt.Sprintf("items[%d].unit_price", i), "fuera de rango (máximo %s)", maxMoneyLabel())
			}
			ln.UnitPrice = &p
		}
		lines = append(lines, ln)
	}
	return lines, nil
}

func cleanOptionalText(field string, s *string, max int) (*string, error) {
	if s == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(v) > max {
		return nil, domain.Invalid(field, "máximo %d caracteres", max)
	}
	return &v, nil
}

func maxMoneyLabel() string {
	return domaininv.MaxMoney.Sub(decimal.New(1, -domaininv.MoneyScale)).StringFixed(domaininv.MoneyScale)
}

// resultLabel etiqueta de métricas según el error final de la operación.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
