package entity

// TrackedItem is a product page being watched. LastPrice 0.0 with an empty
// LastCurrency means the item was never priced successfully.
type TrackedItem struct {
	URL          string  `json:"url"`
	Name         string  `json:"name"`
	LastPrice    float64 `json:"last_price"`
	LastCurrency string  `json:"last_currency"`
}

// NewTrackedItem returns a freshly added item with the never-priced sentinel.
func NewTrackedItem(url, name string) *TrackedItem {
	return &TrackedItem{
		URL:  url,
		Name: name,
	}
}

// Priced reports whether the item has ever been priced.
func (i TrackedItem) Priced() bool {
	return i.LastPrice != 0 || i.LastCurrency != ""
}
