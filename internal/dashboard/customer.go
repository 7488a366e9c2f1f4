package dashboard

import (
	"context"
	"fmt"
	"sync"

	"kusina/internal/models"
)

// CustomerAPI is the slice of the backend client the customer dashboard
// needs.
type CustomerAPI interface {
	OrdersByCustomer(ctx context.Context, customerID int64) ([]models.Order, error)
	Order(ctx context.Context, id int64) (*models.Order, error)
}

// Customer is the customer dashboard read model: the customer's own
// orders, newest first.
type Customer struct {
	api        CustomerAPI
	customerID int64

	mu     sync.Mutex
	orders []models.Order
}

// NewCustomer creates the dashboard for one customer.
func NewCustomer(client CustomerAPI, customerID int64) *Customer {
	return &Customer{api: client, customerID: customerID}
}

// Refresh fetches the customer's orders.
func (c *Customer) Refresh(ctx context.Context) error {
	orders, err := c.api.OrdersByCustomer(ctx, c.customerID)
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}
	c.mu.Lock()
	c.orders = orders
	c.mu.Unlock()
	return nil
}

// Orders returns all fetched orders.
func (c *Customer) Orders() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

// Recent returns up to n of the most recent orders.
func (c *Customer) Recent(n int) []models.Order {
	orders := c.Orders()
	if n < len(orders) {
		orders = orders[:n]
	}
	return orders
}

// Track refetches one order so the customer sees its current status.
func (c *Customer) Track(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := c.api.Order(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return order, nil
}
