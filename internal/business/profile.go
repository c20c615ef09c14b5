package business

// Profile is the business profile reshaped for display.
type Profile struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	Logo        string  `json:"logo"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	FromCache   bool    `json:"fromCache,omitempty"`
}

// adaptProfile reshapes the profile payload. Logo resolution order mirrors
// plant images: logo, then image, then the first element of images.
func adaptProfile(payload map[string]interface{}) Profile {
	logo := stringField(payload, "logo", "image")
	if logo == "" {
		logo = firstString(payload, "images")
	}

	return Profile{
		ID:          stringField(payload, "id", "businessId"),
		Name:        stringField(payload, "businessName", "name"),
		Email:       stringField(payload, "email", "contactEmail"),
		Phone:       stringField(payload, "phone", "contactPhone"),
		Address:     stringField(payload, "address"),
		Logo:        logo,
		Description: stringField(payload, "description"),
		Rating:      numberField(payload, "rating", "averageRating"),
		ReviewCount: int(numberField(payload, "reviewCount", "totalReviews")),
		FromCache:   boolField(payload, "fromCache"),
	}
}
