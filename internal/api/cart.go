package api

import (
	"context"
	"fmt"
	"net/http"

	"kusina/internal/models"
)

// CartItems retrieves the cart lines for a user. A 404 means the user has
// no cart yet and comes back as an empty slice.
func (c *Client) CartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := c.doJSON(ctx, http.MethodGet, "cart", fmt.Sprintf("/api/cart/%d", userID), nil, &items)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}

// AddCartItem adds a menu item to the user's cart.
func (c *Client) AddCartItem(ctx context.Context, userID, menuID int64, quantity int) error {
	payload := map[string]interface{}{
		"user_id":  userID,
		"menu_id":  menuID,
		"quantity": quantity,
	}
	return c.doJSON(ctx, http.MethodPost, "cart", "/api/cart/add", payload, nil)
}

// UpdateCartItem sets the quantity and special instructions of a cart line.
func (c *Client) UpdateCartItem(ctx context.Context, userID, menuID int64, quantity int, specialInstructions string) error {
	payload := map[string]interface{}{
		"user_id":              userID,
		"menu_id":              menuID,
		"quantity":             quantity,
		"special_instructions": specialInstructions,
	}
	return c.doJSON(ctx, http.MethodPut, "cart", "/api/cart/update", payload, nil)
}

// RemoveCartItem deletes one line from the user's cart.
func (c *Client) RemoveCartItem(ctx context.Context, userID, menuID int64) error {
	path := fmt.Sprintf("/api/cart/remove/%d/%d", userID, menuID)
	return c.doJSON(ctx, http.MethodDelete, "cart", path, nil, nil)
}

// ClearCart deletes every line of the user's cart.
func (c *Client) ClearCart(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, http.MethodDelete, "cart", fmt.Sprintf("/api/cart/clear/%d", userID), nil, nil)
}
