package business

// Analytics is the timeframe-scoped sales report reshaped for display.
type Analytics struct {
	Timeframe    string   `json:"timeframe"`
	Revenue      float64  `json:"revenue"`
	OrderCount   int      `json:"orderCount"`
	AverageOrder float64  `json:"averageOrder"`
	TopPlants    []string `json:"topPlants"`
	FromCache    bool     `json:"fromCache,omitempty"`
}

// adaptAnalytics reshapes the analytics payload for the given timeframe.
func adaptAnalytics(payload map[string]interface{}, timeframe string) Analytics {
	revenue := numberField(payload, "revenue", "totalRevenue")
	orderCount := int(numberField(payload, "orderCount", "totalOrders"))

	averageOrder := 0.0
	if orderCount > 0 {
		averageOrder = revenue / float64(orderCount)
	}

	topPlants := make([]string, 0)
	for _, element := range listField(payload, "topPlants", "topProducts") {
		switch value := element.(type) {
		case string:
			topPlants = append(topPlants, value)
		case map[string]interface{}:
			if name := stringField(value, "name", "title"); name != "" {
				topPlants = append(topPlants, name)
			}
		}
	}

	return Analytics{
		Timeframe:    timeframe,
		Revenue:      revenue,
		OrderCount:   orderCount,
		AverageOrder: averageOrder,
		TopPlants:    topPlants,
		FromCache:    boolField(payload, "fromCache"),
	}
}
