package business

import "fmt"

// Order is a marketplace order reshaped for display.
type Order struct {
	ID              string  `json:"id"`
	Status          string  `json:"status"`
	BuyerEmail      string  `json:"buyerEmail"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	FormattedAmount string  `json:"formattedAmount"`
	CreatedAt       string  `json:"createdAt"`
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"ILS": "₪",
}

// formatAmount renders a currency-prefixed display string, falling back to
// the currency code when the symbol is unknown.
func formatAmount(amount float64, currency string) string {
	if symbol, ok := currencySymbols[currency]; ok {
		return fmt.Sprintf("%s%.2f", symbol, amount)
	}
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

// adaptOrder reshapes one raw order.
func adaptOrder(raw map[string]interface{}) Order {
	amount := numberField(raw, "amount", "total", "totalPrice")
	currency := stringField(raw, "currency")

	return Order{
		ID:              stringField(raw, "id", "_id", "orderId"),
		Status:          stringField(raw, "status"),
		BuyerEmail:      stringField(raw, "buyerEmail", "customerEmail", "email"),
		Amount:          amount,
		Currency:        currency,
		FormattedAmount: formatAmount(amount, currency),
		CreatedAt:       stringField(raw, "createdAt", "orderDate"),
	}
}

// adaptOrders reshapes the order list payload.
func adaptOrders(payload map[string]interface{}) []Order {
	rawOrders := objectItems(listField(payload, "orders", "items"))

	orders := make([]Order, 0, len(rawOrders))
	for _, raw := range rawOrders {
		orders = append(orders, adaptOrder(raw))
	}
	return orders
}
