package business

// Dashboard is the business overview reshaped for display.
type Dashboard struct {
	BusinessName  string  `json:"businessName"`
	TotalSales    float64 `json:"totalSales"`
	TotalOrders   int     `json:"totalOrders"`
	PendingOrders int     `json:"pendingOrders"`
	TotalItems    int     `json:"totalItems"`
	LowStockCount int     `json:"lowStockCount"`
	StockLevel    string  `json:"stockLevel"`
	FromCache     bool    `json:"fromCache,omitempty"`
}

// Stock level thresholds for the dashboard indicator.
const lowStockWarning = 5

// adaptDashboard reshapes the dashboard payload.
func adaptDashboard(payload map[string]interface{}) Dashboard {
	lowStock := int(numberField(payload, "lowStockCount", "lowStockItems"))

	stockLevel := "ok"
	switch {
	case lowStock == 0:
		stockLevel = "ok"
	case lowStock < lowStockWarning:
		stockLevel = "low"
	default:
		stockLevel = "critical"
	}

	return Dashboard{
		BusinessName:  stringField(payload, "businessName", "name"),
		TotalSales:    numberField(payload, "totalSales", "revenue"),
		TotalOrders:   int(numberField(payload, "totalOrders", "orderCount")),
		PendingOrders: int(numberField(payload, "pendingOrders")),
		TotalItems:    int(numberField(payload, "totalItems", "inventoryCount")),
		LowStockCount: lowStock,
		StockLevel:    stockLevel,
		FromCache:     boolField(payload, "fromCache"),
	}
}
