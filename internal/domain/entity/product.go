package entity

// Product is what the shop page currently says about an item. The zero value
// (Price 0.0) means the page could not be read.
type Product struct {
	Name     string
	Price    float64
	Currency string
}

// Failed reports whether the fetch produced the failure sentinel.
func (p Product) Failed() bool {
	return p.Price == 0
}
