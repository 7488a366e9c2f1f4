package cart

import (
	"context"
	"log"
	"sync"

	"kusina/internal/models"
)

// API is the slice of the backend client the synchronizer needs.
type API interface {
	CartItems(ctx context.Context, userID int64) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, userID, menuID int64, quantity int) error
	UpdateCartItem(ctx context.Context, userID, menuID int64, quantity int, specialInstructions string) error
	RemoveCartItem(ctx context.Context, userID, menuID int64) error
	ClearCart(ctx context.Context, userID int64) error
}

// Notifier receives transient user-facing messages. Failures surface here
// and nowhere else; no cart operation ever panics the caller.
type Notifier interface {
	Notify(title, description string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string) {}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(title, description string) {
	log.Printf("%s: %s", title, description)
}

// State is the synchronizer's lifecycle state.
type State int

const (
	// Empty means no load has completed yet.
	Empty State = iota
	// Loaded means the items reflect the last successful load.
	Loaded
	// Syncing means a mutation or load is in flight.
	Syncing
	// ErrorState means the last operation failed; items keep their last
	// known value.
	ErrorState
)

// Synchronizer keeps a local, render-ready view of one user's cart
// consistent with the server. The server is the single source of truth:
// every mutation is followed by a reload, and the local list is never
// mutated optimistically in a way that could diverge.
type Synchronizer struct {
	api      API
	notifier Notifier
	userID   int64

	mu      sync.Mutex
	items   []models.CartItem
	state   State
	lastErr error

	// loadSeq orders reloads so a response that resolves after a newer
	// load started cannot overwrite fresher state.
	loadSeq uint64
}

// NewSynchronizer creates a synchronizer for one user's cart.
func NewSynchronizer(client API, notifier Notifier, userID int64) *Synchronizer {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Synchronizer{
		api:      client,
		notifier: notifier,
		userID:   userID,
		state:    Empty,
	}
}

// Load fetches the current cart from the backend. On failure the previous
// items are retained and the failure is surfaced as a notification.
func (s *Synchronizer) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.state = Syncing
	s.mu.Unlock()

	items, err := s.api.CartItems(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.loadSeq {
		// A newer load started while this one was in flight; its result
		// is stale and must not overwrite fresher state.
		return nil
	}
	if err != nil {
		s.state = ErrorState
		s.lastErr = err
		s.notifier.Notify("Cart", "Failed to load cart.")
		return err
	}
	s.items = items
	s.state = Loaded
	s.lastErr = nil
	return nil
}

// AddItem puts a menu item in the cart. If the item is already present the
// existing line's quantity is incremented instead of adding a second row.
func (s *Synchronizer) AddItem(ctx context.Context, item models.MenuItem, quantity int) error {
	if quantity < 1 {
		return nil
	}

	s.mu.Lock()
	existing, found := s.find(item.ID)
	s.state = Syncing
	s.mu.Unlock()

	var err error
	if found {
		err = s.api.UpdateCartItem(ctx, s.userID, item.ID, existing.Quantity+quantity, existing.SpecialInstructions)
	} else {
		err = s.api.AddCartItem(ctx, s.userID, item.ID, quantity)
	}
	if err != nil {
		s.fail(err, "Failed to add/update cart.")
		return err
	}

	if found {
		s.notifier.Notify("Updated cart", item.Name+" quantity updated")
	} else {
		s.notifier.Notify("Added to cart", item.Name+" added to your cart")
	}
	return s.Load(ctx)
}

// UpdateQuantity sets a line's quantity and special instructions. A
// quantity below 1 is rejected locally: no request is issued and displayed
// state does not change.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, menuID int64, quantity int, specialInstructions string) error {
	if quantity < 1 {
		return nil
	}

	s.mu.Lock()
	s.state = Syncing
	s.mu.Unlock()

	if err := s.api.UpdateCartItem(ctx, s.userID, menuID, quantity, specialInstructions); err != nil {
		s.fail(err, "Failed to update cart item.")
		return err
	}
	return s.Load(ctx)
}

// RemoveItem deletes one line from the cart.
func (s *Synchronizer) RemoveItem(ctx context.Context, menuID int64) error {
	s.mu.Lock()
	s.state = Syncing
	s.mu.Unlock()

	if err := s.api.RemoveCartItem(ctx, s.userID, menuID); err != nil {
		s.fail(err, "Failed to remove item.")
		return err
	}
	s.notifier.Notify("Removed from cart", "Item removed from your cart")
	return s.Load(ctx)
}

// Clear empties the cart. The post-condition is known, so the local list is
// set to empty directly instead of reloading.
func (s *Synchronizer) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.state = Syncing
	s.mu.Unlock()

	if err := s.api.ClearCart(ctx, s.userID); err != nil {
		s.fail(err, "Failed to clear cart.")
		return err
	}

	s.mu.Lock()
	s.loadSeq++ // any reload still in flight is now stale
	s.items = nil
	s.state = Loaded
	s.lastErr = nil
	s.mu.Unlock()

	s.notifier.Notify("Cart cleared", "All items removed")
	return nil
}

// Items returns a copy of the current cart lines.
func (s *Synchronizer) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Total is the sum of price x quantity over the current items. Derived on
// every read; never stored, so it cannot drift from the item list.
func (s *Synchronizer) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CartTotal(s.items)
}

// ItemCount is the sum of quantities over the current items.
func (s *Synchronizer) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CartCount(s.items)
}

// State returns the synchronizer's current lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last failure, if the synchronizer is in ErrorState.
func (s *Synchronizer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// find looks up a line by menu id. Caller holds s.mu.
func (s *Synchronizer) find(menuID int64) (models.CartItem, bool) {
	for _, it := range s.items {
		if it.MenuID == menuID {
			return it, true
		}
	}
	return models.CartItem{}, false
}

// fail records a mutation failure and surfaces it. Items keep their last
// known value.
func (s *Synchronizer) fail(err error, message string) {
	s.mu.Lock()
	s.state = ErrorState
	s.lastErr = err
	s.mu.Unlock()
	s.notifier.Notify("Cart", message)
}
