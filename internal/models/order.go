package models

import "time"

// OrderStatus represents the possible states of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusOnTheWay  OrderStatus = "on the way"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Terminal reports whether the status ends the order lifecycle.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusDelivered
}

// PaymentMethod is how the customer pays for an order. GCash appears in the
// UI but is not accepted yet.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// DeliveryAddress is the structured drop-off information collected at
// checkout. Latitude/Longitude come from the map picker and may be zero.
type DeliveryAddress struct {
	FirstName            string  `json:"first_name"`
	LastName             string  `json:"last_name"`
	Phone                string  `json:"phone"`
	Email                string  `json:"email,omitempty"`
	Address              string  `json:"address"`
	DeliveryInstructions string  `json:"delivery_instructions,omitempty"`
	Latitude             float64 `json:"latitude,omitempty"`
	Longitude            float64 `json:"longitude,omitempty"`
}

// OrderLine is one line item of a placed order.
type OrderLine struct {
	MenuID              int64   `json:"menu_id"`
	Quantity            int     `json:"quantity"`
	Price               float64 `json:"price"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
}

// Order is an immutable-once-placed record derived from a cart plus
// delivery and payment details. Status transitions are driven server-side
// by staff and rider actions.
type Order struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	Items           []OrderLine     `json:"items"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	DeliveryAddress DeliveryAddress `json:"delivery_address"`
	TotalAmount     float64         `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	RiderID         *int64          `json:"rider_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

// OrderRequest is the order-placement payload sent at checkout.
type OrderRequest struct {
	CustomerID      int64           `json:"customer_id"`
	Items           []OrderLine     `json:"items"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	DeliveryAddress DeliveryAddress `json:"delivery_address"`
	TotalAmount     float64         `json:"total_amount"`
}
