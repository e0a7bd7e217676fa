package models

// Plans maps billing price ids to plan titles.
var Plans = map[string]string{
	"price_1Q6dT3Gpnjr9yNMYdxcT5XkQ": "Daily Drop-In",
	"price_1Q6aumGpnjr9yNMYtwh7nf8y": "Monthly Membership",
	"price_1Q6d0YGpnjr9yNMYyuvSQAuH": "Yearly Membership",
}

// PlanTitle returns the plan title for a price id, "Unknown Plan" when the
// id is not in the catalogue and "No Plan" when it is empty.
func PlanTitle(priceID string) string {
	if priceID == "" {
		return "No Plan"
	}
	if t, ok := Plans[priceID]; ok {
		return t
	}
	return "Unknown Plan"
}
