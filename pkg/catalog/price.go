package catalog

import "strconv"

var currencySymbols = map[string]string{
	"TRY": "₺",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatPrice formats the product price with its currency symbol and two
// decimals. Unknown currencies fall back to the lira sign.
func FormatPrice(p Product) string {
	symbol, ok := currencySymbols[p.Currency()]
	if !ok {
		symbol = currencySymbols["TRY"]
	}
	return symbol + strconv.FormatFloat(p.Price, 'f', 2, 64)
}
