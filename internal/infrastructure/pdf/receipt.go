// Package pdf genera el comprobante de venta en PDF.
//
// Layout de la página A5:
//
//	┌──────────────────────────────────────────────┐
//	│  Tienda              │  Venta N° + Fecha     │
//	│  Nota                                        │
//	│  ──────────────────────────────────────────  │
//	│  Cant | Producto | P.Unit | Subtotal         │
//	│  ──────────────────────────────────────────  │
//	│                               TOTAL          │
//	│  QR con id/fecha/total                       │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/application/inventory"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
)

var _ inventory.ReceiptRenderer = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 96, Green: 38, Blue: 94}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReceiptGenerator arma el comprobante de venta con Maroto v2.
type ReceiptGenerator struct {
	storeName string
}

// NewReceiptGenerator construye el generador; storeName va en el encabezado.
func NewReceiptGenerator(storeName string) *ReceiptGenerator {
	return &ReceiptGenerator{storeName: storeName}
}

// RenderSaleReceipt genera el PDF y devuelve sus bytes.
// products resuelve nombres; un producto ausente se muestra por su ID.
func (g *ReceiptGenerator) RenderSaleReceipt(sale *entity.Sale, products map[int64]*entity.Product) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Venta %d", sale.ID), true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(sale))
	if sale.Note != nil {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Nota: "+*sale.Note, props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range itemRows(sale.Items, products) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(sale.Total))
	m.AddRows(row.New(3))
	m.AddRows(row.New(30).Add(
		col.New(4).Add(code.NewQr(qrPayload(sale), props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(text.New("Gracias por su compra.", props.Text{
			Size: 9, Top: 10, Left: 3, Color: colorGray,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReceiptGenerator) headerRow(sale *entity.Sale) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.storeName, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1}),
			text.New("Comprobante de venta", props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Venta N° "+strconv.FormatInt(sale.ID, 10), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+sale.SaleDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("P. Unit.", 3, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func itemRows(items []entity.SaleItem, products map[int64]*entity.Product) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := fmt.Sprintf("Producto #%d", it.ProductID)
		if p, ok := products[it.ProductID]; ok && p != nil {
			name = p.Name
		}
		rows = append(rows, row.New(6).Add(
			col.New(1).Add(text.New(strconv.FormatInt(it.Quantity, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(FormatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(FormatMoney(it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(8).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
		})),
		col.New(3).Add(text.New(FormatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
		})),
	)
}

func qrPayload(sale *entity.Sale) string {
	return fmt.Sprintf("VENTA:%d|FECHA:%s|TOTAL:%s", sale.ID, sale.SaleDate.Format("2006-01-02"), sale.Total.StringFixed(2))
}

// FormatMoney da formato "$1.234.567,50": puntos de miles y coma decimal.
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + string(buf) + "," + frac
}
