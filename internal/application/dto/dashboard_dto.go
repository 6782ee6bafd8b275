package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// KPIs del día y del mes en curso, ventas por canal y alertas de stock.
type DashboardSummaryDTO struct {
	TodaySales  decimal.Decimal `json:"today_sales"`
	TodayOrders int             `json:"today_orders"`

	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyOrders int             `json:"monthly_orders"`
	AverageTicket decimal.Decimal `json:"average_ticket"` // ventas del mes / pedidos del mes

	SalesByChannel []ChannelSalesDTO `json:"sales_by_channel"`
	TopSelling     []TopSellingDTO   `json:"top_selling"`

	PendingOrders int `json:"pending_orders"` // pendiente + procesando
	LowStockBooks int `json:"low_stock_books"`

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// ChannelSalesDTO ventas del mes de un canal (tipo de pedido).
type ChannelSalesDTO struct {
	Channel    string          `json:"channel"`
	OrderCount int             `json:"order_count"`
	UnitsSold  int             `json:"units_sold"`
	Revenue    decimal.Decimal `json:"revenue"`
	Share      decimal.Decimal `json:"share"` // % sobre el total del mes
}

// PeriodDTO rango de fechas de un informe.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ChannelReportDTO respuesta de GET /api/analytics/channels.
type ChannelReportDTO struct {
	Period        PeriodDTO         `json:"period"`
	TotalRevenue  decimal.Decimal   `json:"total_revenue"`
	TotalOrders   int               `json:"total_orders"`
	AverageTicket decimal.Decimal   `json:"average_ticket"`
	Channels      []ChannelSalesDTO `json:"channels"`
}
