package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"kusina/internal/models"
)

// AdminAPI is the slice of the backend client the admin dashboard needs.
type AdminAPI interface {
	StaffAPI
	Menu(ctx context.Context) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, form models.MenuForm) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, form models.MenuForm) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error
}

// Admin is the admin dashboard: the staff view plus menu management.
type Admin struct {
	*Staff
	api AdminAPI

	mu   sync.Mutex
	menu []models.MenuItem
}

// NewAdmin creates the admin dashboard.
func NewAdmin(client AdminAPI) *Admin {
	return &Admin{Staff: NewStaff(client), api: client}
}

// RefreshMenu fetches the full menu list.
func (a *Admin) RefreshMenu(ctx context.Context) error {
	menu, err := a.api.Menu(ctx)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}
	a.mu.Lock()
	a.menu = menu
	a.mu.Unlock()
	return nil
}

// Menu returns the fetched menu items.
func (a *Admin) Menu() []models.MenuItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.MenuItem, len(a.menu))
	copy(out, a.menu)
	return out
}

// SaveMenuItem creates a new menu item, or updates the one with id when id
// is non-zero. Name, price and description are required and checked before
// any request is issued; the saved item replaces its local list entry.
func (a *Admin) SaveMenuItem(ctx context.Context, id int64, form models.MenuForm) (*models.MenuItem, error) {
	if err := validateMenuForm(form); err != nil {
		return nil, err
	}
	if form.Category == "None" {
		form.Category = ""
	}

	var (
		saved *models.MenuItem
		err   error
	)
	if id != 0 {
		saved, err = a.api.UpdateMenuItem(ctx, id, form)
	} else {
		saved, err = a.api.CreateMenuItem(ctx, form)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save menu item: %w", err)
	}

	a.mu.Lock()
	if id != 0 {
		for i := range a.menu {
			if a.menu[i].ID == id {
				a.menu[i] = *saved
			}
		}
	} else {
		a.menu = append(a.menu, *saved)
	}
	a.mu.Unlock()
	return saved, nil
}

// DeleteMenuItem removes a menu item and drops it from the local list.
func (a *Admin) DeleteMenuItem(ctx context.Context, id int64) error {
	if err := a.api.DeleteMenuItem(ctx, id); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	a.mu.Lock()
	var kept []models.MenuItem
	for _, item := range a.menu {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	a.menu = kept
	a.mu.Unlock()
	return nil
}

// validateMenuForm names every missing required field, matching the
// "Name, Price are required." style of message the UI shows.
func validateMenuForm(form models.MenuForm) error {
	var missing []string
	if form.Name == "" {
		missing = append(missing, "Name")
	}
	if form.Price == "" {
		missing = append(missing, "Price")
	}
	if form.Description == "" {
		missing = append(missing, "Description")
	}
	if len(missing) > 0 {
		return errors.New(strings.Join(missing, ", ") + " are required.")
	}
	return nil
}
