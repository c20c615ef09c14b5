package business

// Defensive payload accessors. The backend's JSON is loosely shaped, and the
// defaulting rules are uniform: absent or mistyped numerics are 0, strings
// are empty, lists are empty. Each accessor takes the field names in
// resolution order and returns the first usable value.

func stringField(payload map[string]interface{}, names ...string) string {
	for _, name := range names {
		if value, ok := payload[name].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func numberField(payload map[string]interface{}, names ...string) float64 {
	for _, name := range names {
		if value, ok := payload[name].(float64); ok {
			return value
		}
	}
	return 0
}

func boolField(payload map[string]interface{}, names ...string) bool {
	for _, name := range names {
		if value, ok := payload[name].(bool); ok {
			return value
		}
	}
	return false
}

func listField(payload map[string]interface{}, names ...string) []interface{} {
	for _, name := range names {
		if value, ok := payload[name].([]interface{}); ok {
			return value
		}
	}
	return nil
}

func objectItems(list []interface{}) []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(list))
	for _, element := range list {
		if item, ok := element.(map[string]interface{}); ok {
			items = append(items, item)
		}
	}
	return items
}

// firstString returns the first string element of a list field, for payloads
// where a scalar moved into a list (e.g. images).
func firstString(payload map[string]interface{}, name string) string {
	for _, element := range listField(payload, name) {
		if value, ok := element.(string); ok && value != "" {
			return value
		}
	}
	return ""
}
