package models

// Rider is a delivery rider's profile as returned by the rider endpoints.
type Rider struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Vehicle   string `json:"vehicle,omitempty"`
	Available bool   `json:"available"`
}

// RiderStats is the per-rider performance read model.
type RiderStats struct {
	DeliveriesToday int     `json:"deliveries_today"`
	TotalDeliveries int     `json:"total_deliveries"`
	Rating          float64 `json:"rating"`
	Earnings        float64 `json:"earnings"`
}

// StaffStats is the staff dashboard aggregate.
type StaffStats struct {
	PendingOrders   int     `json:"pending_orders"`
	ActiveOrders    int     `json:"active_orders"`
	CompletedToday  int     `json:"completed_today"`
	RevenueToday    float64 `json:"revenue_today"`
	AvailableRiders int     `json:"available_riders"`
}
