package api

import (
	"context"
	"fmt"
	"net/http"

	"kusina/internal/models"
)

// ActiveBoard is the staff view of the floor: every non-terminal order plus
// the riders currently free to take one.
type ActiveBoard struct {
	Orders []models.Order `json:"orders"`
	Riders []models.Rider `json:"riders"`
}

// StaffStats returns the staff dashboard aggregate.
func (c *Client) StaffStats(ctx context.Context) (*models.StaffStats, error) {
	var stats models.StaffStats
	if err := c.doEnveloped(ctx, http.MethodGet, "staff", "/staff/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ActiveOrders returns the active orders together with available riders.
func (c *Client) ActiveOrders(ctx context.Context) (*ActiveBoard, error) {
	var board ActiveBoard
	if err := c.doEnveloped(ctx, http.MethodGet, "staff", "/staff/dashboard/orders", nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// UpdateOrderStatus moves an order to a new status.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	path := fmt.Sprintf("/staff/orders/%d/status", orderID)
	payload := map[string]string{"status": string(status)}
	return c.doEnveloped(ctx, http.MethodPatch, "staff", path, payload, nil)
}

// AssignRider attaches a rider to an order; the backend moves the order to
// "assigned".
func (c *Client) AssignRider(ctx context.Context, orderID, riderID int64) error {
	path := fmt.Sprintf("/staff/orders/%d/assign", orderID)
	payload := map[string]int64{"rider_id": riderID}
	return c.doEnveloped(ctx, http.MethodPatch, "staff", path, payload, nil)
}
