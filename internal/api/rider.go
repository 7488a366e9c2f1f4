package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"kusina/internal/models"
)

// Rider retrieves a rider's profile.
func (c *Client) Rider(ctx context.Context, id int64) (*models.Rider, error) {
	var rider models.Rider
	if err := c.doJSON(ctx, http.MethodGet, "rider", fmt.Sprintf("/rider/%d", id), nil, &rider); err != nil {
		return nil, err
	}
	return &rider, nil
}

// RiderOrders returns a rider's orders filtered by status.
func (c *Client) RiderOrders(ctx context.Context, riderID int64, status models.OrderStatus) ([]models.Order, error) {
	path := fmt.Sprintf("/rider/%d/orders?status=%s", riderID, url.QueryEscape(string(status)))

	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "rider", path, nil, &orders); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return orders, nil
}

// RiderStats returns a rider's performance aggregate.
func (c *Client) RiderStats(ctx context.Context, riderID int64) (*models.RiderStats, error) {
	var stats models.RiderStats
	if err := c.doJSON(ctx, http.MethodGet, "rider", fmt.Sprintf("/rider/%d/stats", riderID), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AcceptDelivery marks an assigned order as picked up by the rider; the
// backend moves it to "on the way".
func (c *Client) AcceptDelivery(ctx context.Context, riderID, orderID int64) error {
	path := fmt.Sprintf("/rider/%d/orders/%d/accept", riderID, orderID)
	return c.doJSON(ctx, http.MethodPatch, "rider", path, nil, nil)
}

// CompleteDelivery marks an on-the-way order as delivered.
func (c *Client) CompleteDelivery(ctx context.Context, riderID, orderID int64) error {
	path := fmt.Sprintf("/rider/%d/orders/%d/complete", riderID, orderID)
	return c.doJSON(ctx, http.MethodPatch, "rider", path, nil, nil)
}
