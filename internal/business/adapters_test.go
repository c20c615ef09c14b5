package business

import (
	"testing"
)

func TestAdaptInventoryItem(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]interface{}
		expected InventoryItem
	}{
		{
			name: "Full item with discount",
			raw: map[string]interface{}{
				"id":           "item-1",
				"name":         "Monstera Deliciosa",
				"mainImage":    "https://img.example/monstera.jpg",
				"quantity":     float64(3),
				"minThreshold": float64(5),
				"price":        float64(100),
				"discount":     float64(25),
			},
			expected: InventoryItem{
				ID:           "item-1",
				Name:         "Monstera Deliciosa",
				Image:        "https://img.example/monstera.jpg",
				Quantity:     3,
				MinThreshold: 5,
				Price:        100,
				Discount:     25,
				FinalPrice:   75,
				IsLowStock:   true,
			},
		},
		{
			name: "Missing fields default to zero values",
			raw:  map[string]interface{}{},
			expected: InventoryItem{
				IsLowStock: true, // 0 <= 0
			},
		},
		{
			name: "Image falls back to images list",
			raw: map[string]interface{}{
				"id":       "item-2",
				"quantity": float64(10),
				"images":   []interface{}{"https://img.example/first.jpg", "https://img.example/second.jpg"},
			},
			expected: InventoryItem{
				ID:       "item-2",
				Image:    "https://img.example/first.jpg",
				Quantity: 10,
			},
		},
		{
			name: "image field preferred over images list",
			raw: map[string]interface{}{
				"id":     "item-3",
				"image":  "https://img.example/direct.jpg",
				"images": []interface{}{"https://img.example/other.jpg"},
			},
			expected: InventoryItem{
				ID:         "item-3",
				Image:      "https://img.example/direct.jpg",
				IsLowStock: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adaptInventoryItem(tt.raw)
			if got != tt.expected {
				t.Errorf("adaptInventoryItem() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestAdaptDashboardStockLevel(t *testing.T) {
	tests := []struct {
		name     string
		lowStock float64
		expected string
	}{
		{"No low stock", 0, "ok"},
		{"Few low stock items", 3, "low"},
		{"Many low stock items", 8, "critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dashboard := adaptDashboard(map[string]interface{}{
				"lowStockCount": tt.lowStock,
			})
			if dashboard.StockLevel != tt.expected {
				t.Errorf("StockLevel = %q, want %q", dashboard.StockLevel, tt.expected)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		expected string
	}{
		{12.5, "USD", "$12.50"},
		{99, "ILS", "₪99.00"},
		{10, "SEK", "SEK 10.00"},
		{7.25, "", "7.25"},
	}

	for _, tt := range tests {
		if got := formatAmount(tt.amount, tt.currency); got != tt.expected {
			t.Errorf("formatAmount(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.expected)
		}
	}
}

func TestAdaptOrders(t *testing.T) {
	payload := map[string]interface{}{
		"orders": []interface{}{
			map[string]interface{}{
				"id":       "order-1",
				"status":   "pending",
				"total":    float64(49.9),
				"currency": "USD",
			},
			"garbage entry",
			map[string]interface{}{
				"orderId": "order-2",
			},
		},
	}

	orders := adaptOrders(payload)
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}
	if orders[0].FormattedAmount != "$49.90" {
		t.Errorf("FormattedAmount = %q, want $49.90", orders[0].FormattedAmount)
	}
	if orders[1].ID != "order-2" || orders[1].Amount != 0 {
		t.Errorf("Defaulted order = %+v", orders[1])
	}
}

func TestAdaptAnalytics(t *testing.T) {
	payload := map[string]interface{}{
		"revenue":    float64(300),
		"orderCount": float64(4),
		"topPlants": []interface{}{
			"Monstera",
			map[string]interface{}{"name": "Ficus"},
			map[string]interface{}{"unrelated": true},
		},
	}

	analytics := adaptAnalytics(payload, "week")

	if analytics.Timeframe != "week" {
		t.Errorf("Timeframe = %q, want week", analytics.Timeframe)
	}
	if analytics.AverageOrder != 75 {
		t.Errorf("AverageOrder = %v, want 75", analytics.AverageOrder)
	}
	if len(analytics.TopPlants) != 2 || analytics.TopPlants[0] != "Monstera" || analytics.TopPlants[1] != "Ficus" {
		t.Errorf("TopPlants = %v", analytics.TopPlants)
	}
}

func TestAdaptAnalyticsEmptyPayload(t *testing.T) {
	analytics := adaptAnalytics(map[string]interface{}{}, "month")

	if analytics.Revenue != 0 || analytics.OrderCount != 0 || analytics.AverageOrder != 0 {
		t.Errorf("Expected zero totals, got %+v", analytics)
	}
	if analytics.TopPlants == nil || len(analytics.TopPlants) != 0 {
		t.Errorf("TopPlants should be empty, got %v", analytics.TopPlants)
	}
}

func TestAdaptProfileLogoResolution(t *testing.T) {
	profile := adaptProfile(map[string]interface{}{
		"businessName": "Green Thumb",
		"images":       []interface{}{"https://img.example/storefront.jpg"},
		"rating":       float64(4.5),
	})

	if profile.Name != "Green Thumb" {
		t.Errorf("Name = %q", profile.Name)
	}
	if profile.Logo != "https://img.example/storefront.jpg" {
		t.Errorf("Logo = %q, want fallback from images", profile.Logo)
	}
	if profile.Rating != 4.5 {
		t.Errorf("Rating = %v", profile.Rating)
	}
}
