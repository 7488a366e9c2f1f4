package models

// CartItem is one line of a customer's server-persisted cart. Price is a
// snapshot of the menu price at the time the item was added; Name and
// Category are denormalized for display.
type CartItem struct {
	MenuID              int64   `json:"menu_id"`
	Quantity            int     `json:"quantity"`
	Price               float64 `json:"price"`
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
}

// CartTotal sums price x quantity over a set of cart items.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// CartCount sums the quantities over a set of cart items.
func CartCount(items []CartItem) int {
	var count int
	for _, it := range items {
		count += it.Quantity
	}
	return count
}
