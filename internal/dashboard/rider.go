package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kusina/internal/models"
)

// RiderAPI is the slice of the backend client the rider dashboard needs.
type RiderAPI interface {
	Rider(ctx context.Context, id int64) (*models.Rider, error)
	RiderOrders(ctx context.Context, riderID int64, status models.OrderStatus) ([]models.Order, error)
	RiderStats(ctx context.Context, riderID int64) (*models.RiderStats, error)
	AcceptDelivery(ctx context.Context, riderID, orderID int64) error
	CompleteDelivery(ctx context.Context, riderID, orderID int64) error
}

// Delivery is the rider's render-ready view of one order.
type Delivery struct {
	OrderID      int64
	Status       models.OrderStatus
	CustomerName string
	Phone        string
	Address      string
	Total        float64
	CompletedAt  *time.Time
}

// Rider is the rider dashboard read model: profile, active deliveries,
// delivery history and performance stats, each refreshed from role-scoped
// endpoints.
type Rider struct {
	api     RiderAPI
	riderID int64

	mu      sync.Mutex
	profile *models.Rider
	active  []Delivery
	history []Delivery
	stats   *models.RiderStats
}

// NewRider creates the dashboard for one rider.
func NewRider(client RiderAPI, riderID int64) *Rider {
	return &Rider{api: client, riderID: riderID}
}

// Refresh fetches profile, deliveries and stats.
func (r *Rider) Refresh(ctx context.Context) error {
	profile, err := r.api.Rider(ctx, r.riderID)
	if err != nil {
		return fmt.Errorf("failed to fetch rider info: %w", err)
	}
	if err := r.refreshDeliveries(ctx); err != nil {
		return err
	}
	stats, err := r.api.RiderStats(ctx, r.riderID)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	r.mu.Lock()
	r.profile = profile
	r.stats = stats
	r.mu.Unlock()
	return nil
}

// refreshDeliveries rebuilds the active and history lists. Active is the
// union of assigned and on-the-way orders, history the completed ones,
// both deduplicated by order id.
func (r *Rider) refreshDeliveries(ctx context.Context) error {
	assigned, err := r.api.RiderOrders(ctx, r.riderID, models.OrderStatusAssigned)
	if err != nil {
		return fmt.Errorf("failed to fetch deliveries: %w", err)
	}
	onTheWay, err := r.api.RiderOrders(ctx, r.riderID, models.OrderStatusOnTheWay)
	if err != nil {
		return fmt.Errorf("failed to fetch deliveries: %w", err)
	}
	completed, err := r.api.RiderOrders(ctx, r.riderID, models.OrderStatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to fetch deliveries: %w", err)
	}

	seen := make(map[int64]bool)
	var active []Delivery
	for _, order := range append(assigned, onTheWay...) {
		if seen[order.ID] {
			continue
		}
		seen[order.ID] = true
		active = append(active, toDelivery(order))
	}

	seen = make(map[int64]bool)
	var history []Delivery
	for _, order := range completed {
		if seen[order.ID] {
			continue
		}
		seen[order.ID] = true
		history = append(history, toDelivery(order))
	}

	r.mu.Lock()
	r.active = active
	r.history = history
	r.mu.Unlock()
	return nil
}

// Accept picks up an assigned delivery. The local status flips to "on the
// way" and stats are refetched; the delivery list itself is already known.
func (r *Rider) Accept(ctx context.Context, orderID int64) error {
	if err := r.api.AcceptDelivery(ctx, r.riderID, orderID); err != nil {
		return fmt.Errorf("failed to accept delivery: %w", err)
	}

	r.mu.Lock()
	for i := range r.active {
		if r.active[i].OrderID == orderID {
			r.active[i].Status = models.OrderStatusOnTheWay
		}
	}
	r.mu.Unlock()

	return r.refreshStats(ctx)
}

// Complete marks an on-the-way delivery as delivered. The delivery moves
// from the active list to history with a completion timestamp.
func (r *Rider) Complete(ctx context.Context, orderID int64) error {
	if err := r.api.CompleteDelivery(ctx, r.riderID, orderID); err != nil {
		return fmt.Errorf("failed to mark delivery as completed: %w", err)
	}

	now := time.Now()
	r.mu.Lock()
	var remaining []Delivery
	for _, d := range r.active {
		if d.OrderID == orderID {
			d.Status = models.OrderStatusCompleted
			d.CompletedAt = &now
			r.history = append([]Delivery{d}, r.history...)
			continue
		}
		remaining = append(remaining, d)
	}
	r.active = remaining
	r.mu.Unlock()

	return r.refreshStats(ctx)
}

func (r *Rider) refreshStats(ctx context.Context) error {
	stats, err := r.api.RiderStats(ctx, r.riderID)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}
	r.mu.Lock()
	r.stats = stats
	r.mu.Unlock()
	return nil
}

// Profile returns the rider's profile, or nil before the first refresh.
func (r *Rider) Profile() *models.Rider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile
}

// Active returns the current active deliveries.
func (r *Rider) Active() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Delivery, len(r.active))
	copy(out, r.active)
	return out
}

// History returns the completed deliveries, newest first.
func (r *Rider) History() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Delivery, len(r.history))
	copy(out, r.history)
	return out
}

// Stats returns the rider's stats, or nil before the first refresh.
func (r *Rider) Stats() *models.RiderStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func toDelivery(order models.Order) Delivery {
	return Delivery{
		OrderID:      order.ID,
		Status:       order.Status,
		CustomerName: order.DeliveryAddress.FirstName + " " + order.DeliveryAddress.LastName,
		Phone:        order.DeliveryAddress.Phone,
		Address:      order.DeliveryAddress.Address,
		Total:        order.TotalAmount,
		CompletedAt:  order.CompletedAt,
	}
}
