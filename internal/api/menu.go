package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"kusina/internal/models"
)

// Menu retrieves the full menu list.
func (c *Client) Menu(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := c.doJSON(ctx, http.MethodGet, "menu", "/menu", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FeaturedDishes returns the dishes highlighted on the landing page.
func (c *Client) FeaturedDishes(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := c.doJSON(ctx, http.MethodGet, "landing", "/landing/featured", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LandingStats returns the landing page aggregate.
func (c *Client) LandingStats(ctx context.Context) (*models.LandingStats, error) {
	var stats models.LandingStats
	if err := c.doJSON(ctx, http.MethodGet, "landing", "/landing/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateMenuItem uploads a new menu item as a multipart form.
func (c *Client) CreateMenuItem(ctx context.Context, form models.MenuForm) (*models.MenuItem, error) {
	return c.sendMenuForm(ctx, http.MethodPost, "/menu", form)
}

// UpdateMenuItem updates an existing menu item as a multipart form.
func (c *Client) UpdateMenuItem(ctx context.Context, id int64, form models.MenuForm) (*models.MenuItem, error) {
	return c.sendMenuForm(ctx, http.MethodPut, fmt.Sprintf("/menu/%d", id), form)
}

// DeleteMenuItem removes a menu item.
func (c *Client) DeleteMenuItem(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "menu", fmt.Sprintf("/menu/%d", id), nil, nil)
}

// sendMenuForm encodes the menu form as multipart/form-data, attaching the
// image upload when one is present and the stored filename otherwise.
func (c *Client) sendMenuForm(ctx context.Context, method, path string, form models.MenuForm) (*models.MenuItem, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":        form.Name,
		"price":       form.Price,
		"description": form.Description,
		"category":    form.Category,
		"group":       form.Group,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to encode menu form: %w", err)
		}
	}

	if len(form.Image) > 0 {
		part, err := writer.CreateFormFile("image", form.ImageName)
		if err != nil {
			return nil, fmt.Errorf("failed to encode menu image: %w", err)
		}
		if _, err := part.Write(form.Image); err != nil {
			return nil, fmt.Errorf("failed to encode menu image: %w", err)
		}
	} else if form.ExistingImage != "" {
		if err := writer.WriteField("existing_image", form.ExistingImage); err != nil {
			return nil, fmt.Errorf("failed to encode menu form: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode menu form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var item models.MenuItem
	if err := c.do(req, "menu", &item); err != nil {
		return nil, err
	}
	return &item, nil
}
