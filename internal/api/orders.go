package api

import (
	"context"
	"fmt"
	"net/http"

	"kusina/internal/models"
)

// PlaceOrderResult carries the id of a freshly placed order.
type PlaceOrderResult struct {
	OrderID int64 `json:"order_id"`
}

// PlaceOrder submits an order. Customer, items and delivery address are
// required; the checkout flow validates them before calling, but the guard
// here keeps a broken caller from ever issuing a partial order.
func (c *Client) PlaceOrder(ctx context.Context, req models.OrderRequest) (*PlaceOrderResult, error) {
	if req.CustomerID == 0 || len(req.Items) == 0 || req.DeliveryAddress.Address == "" {
		return nil, fmt.Errorf("customer, items, and delivery address are required")
	}

	var res PlaceOrderResult
	if err := c.doJSON(ctx, http.MethodPost, "orders", "/api/orders", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// OrdersByCustomer returns a customer's orders, newest first.
func (c *Client) OrdersByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	var orders []models.Order
	path := fmt.Sprintf("/api/orders/customer/%d", customerID)
	if err := c.doJSON(ctx, http.MethodGet, "orders", path, nil, &orders); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return orders, nil
}

// Order retrieves one order by id.
func (c *Client) Order(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodGet, "orders", fmt.Sprintf("/api/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
