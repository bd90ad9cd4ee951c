package format

import (
	"fmt"
	"strings"
)

// DefaultCurrency is used when a product carries no currency field.
const DefaultCurrency = "₹"

// Price renders an amount with its currency symbol. Amounts are stored as
// strings upstream and are passed through untouched; only the symbol is
// normalized. An empty amount yields an empty label so the price block can
// be omitted entirely.
func Price(amount, currency string) string {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return ""
	}
	return symbol(currency) + amount
}

func symbol(currency string) string {
	switch strings.ToUpper(strings.TrimSpace(currency)) {
	case "", "INR", "₹":
		return DefaultCurrency
	case "USD", "$":
		return "$"
	case "EUR", "€":
		return "€"
	case "GBP", "£":
		return "£"
	default:
		return strings.TrimSpace(currency) + " "
	}
}

// Discount renders a discount percentage badge label.
func Discount(percent int) string {
	return fmt.Sprintf("%d%% off", percent)
}
