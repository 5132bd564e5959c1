package tracking

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"price_tracker/internal/domain/entity"
)

// Decimal exponents outside [minPlainExp, maxPlainExp) switch to scientific
// notation, same as Python's float repr.
const (
	minPlainExp = -4
	maxPlainExp = 16
)

// FormatPrice renders a price the way users have always seen it: shortest
// exact decimal, with at least one fractional digit (10 -> "10.0"). Very
// small or very large values come out in scientific form ("1e-05", "1e+16").
func FormatPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return strconv.FormatFloat(price, 'f', -1, 64)
	}

	sci := strconv.FormatFloat(price, 'e', -1, 64)

	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && (exp < minPlainExp || exp >= maxPlainExp) {
		return sci
	}

	s := strconv.FormatFloat(price, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

func itemLine(item entity.TrackedItem) string {
	return fmt.Sprintf("%s - %s %s", item.Name, FormatPrice(item.LastPrice), item.LastCurrency)
}

func priceChangedLine(name string, old entity.TrackedItem, current entity.Product) string {
	return fmt.Sprintf(
		"%s price was changed from %s %s to %s %s",
		name,
		FormatPrice(old.LastPrice), old.LastCurrency,
		FormatPrice(current.Price), current.Currency,
	)
}

func priceUnchangedLine(name string, item entity.TrackedItem) string {
	return fmt.Sprintf("%s price is still %s %s", name, FormatPrice(item.LastPrice), item.LastCurrency)
}
