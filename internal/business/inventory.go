package business

// InventoryItem is a plant listing reshaped for display.
type InventoryItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Quantity     int     `json:"quantity"`
	MinThreshold int     `json:"minThreshold"`
	Price        float64 `json:"price"`
	Discount     float64 `json:"discount"`
	FinalPrice   float64 `json:"finalPrice"`
	IsLowStock   bool    `json:"isLowStock"`
}

// adaptInventoryItem reshapes one raw listing. Image resolution order for a
// plant is mainImage, then image, then the first element of images.
func adaptInventoryItem(raw map[string]interface{}) InventoryItem {
	quantity := int(numberField(raw, "quantity", "stock"))
	minThreshold := int(numberField(raw, "minThreshold", "lowStockThreshold"))
	price := numberField(raw, "price", "finalPrice")
	discount := numberField(raw, "discount")

	image := stringField(raw, "mainImage", "image")
	if image == "" {
		image = firstString(raw, "images")
	}

	return InventoryItem{
		ID:           stringField(raw, "id", "_id", "inventoryId"),
		Name:         stringField(raw, "name", "title", "common_name"),
		Image:        image,
		Quantity:     quantity,
		MinThreshold: minThreshold,
		Price:        price,
		Discount:     discount,
		FinalPrice:   price * (1 - discount/100),
		IsLowStock:   quantity <= minThreshold,
	}
}

// adaptInventory reshapes the inventory list payload.
func adaptInventory(payload map[string]interface{}) []InventoryItem {
	rawItems := objectItems(listField(payload, "inventory", "items", "products"))

	items := make([]InventoryItem, 0, len(rawItems))
	for _, raw := range rawItems {
		items = append(items, adaptInventoryItem(raw))
	}
	return items
}
