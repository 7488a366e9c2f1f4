package models

// MenuItem represents a dish on the restaurant menu.
type MenuItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Group       string  `json:"group"`
	Image       string  `json:"image,omitempty"`
}

// MenuForm carries the multipart fields for creating or updating a menu
// item. Image holds the raw upload; ExistingImage keeps the stored filename
// when no new file was chosen during an edit.
type MenuForm struct {
	Name          string
	Price         string
	Description   string
	Category      string
	Group         string
	ImageName     string
	Image         []byte
	ExistingImage string
}

// LandingStats is the aggregate shown on the landing page and pushed over
// the live stats channel.
type LandingStats struct {
	AvgRating      float64 `json:"avg_rating"`
	TotalCustomers int     `json:"total_customers"`
}
