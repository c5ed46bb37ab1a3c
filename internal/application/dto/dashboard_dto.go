package dto

// DashboardSummary respuesta de GET /dashboard/summary.
// KPIs del día de referencia y del mes hasta ese día, top productos del mes y stock bajo.
type DashboardSummary struct {
	Date      string `json:"date"`
	DateLabel string `json:"date_label"` // ej: "Mayo 2024"

	TodaySales  Money `json:"today_sales"`
	TodayMargin Money `json:"today_margin"` // ingresos - unidades × precio de compra
	TodayCount  int64 `json:"today_count"`

	MonthlySales  Money `json:"monthly_sales"`
	MonthlyMargin Money `json:"monthly_margin"`
	MonthlyCount  int64 `json:"monthly_count"`
	MonthlyUnits  int64 `json:"monthly_units"`

	TopProducts []TopProduct      `json:"top_products"`
	LowStock    []LowStockProduct `json:"low_stock"`
}

// TopProduct producto más vendido del mes.
type TopProduct struct {
	ProductID        int64  `json:"product_id"`
	Name             string `json:"name"`
	UnitsSold        int64  `json:"units_sold"`
	Revenue          Money  `json:"revenue"`
	MarginPercentage Money  `json:"margin_percentage"` // (ingresos - costo) / ingresos × 100
}

// LowStockProduct producto activo que conviene reponer.
type LowStockProduct struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
}
