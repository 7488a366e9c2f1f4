package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"kusina/internal/api"
	"kusina/internal/models"
)

// StaffAPI is the slice of the backend client the staff dashboard needs.
type StaffAPI interface {
	StaffStats(ctx context.Context) (*models.StaffStats, error)
	ActiveOrders(ctx context.Context) (*api.ActiveBoard, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
	AssignRider(ctx context.Context, orderID, riderID int64) error
}

// Staff is the staff dashboard read model: stats plus the active order
// board. Every mutation refetches the board so the view tracks the server.
type Staff struct {
	api StaffAPI

	mu     sync.Mutex
	stats  *models.StaffStats
	orders []models.Order
	riders []models.Rider
}

// NewStaff creates the staff dashboard.
func NewStaff(client StaffAPI) *Staff {
	return &Staff{api: client}
}

// Refresh fetches the dashboard stats and the active order board.
func (s *Staff) Refresh(ctx context.Context) error {
	stats, err := s.api.StaffStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch dashboard stats: %w", err)
	}
	board, err := s.api.ActiveOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch active orders: %w", err)
	}

	s.mu.Lock()
	s.stats = stats
	s.orders = board.Orders
	s.riders = board.Riders
	s.mu.Unlock()
	return nil
}

// UpdateStatus moves an order to a new status and refetches the board.
func (s *Staff) UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	if err := s.api.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return s.Refresh(ctx)
}

// Assign attaches a rider to an order and refetches the board.
func (s *Staff) Assign(ctx context.Context, orderID, riderID int64) error {
	if err := s.api.AssignRider(ctx, orderID, riderID); err != nil {
		return fmt.Errorf("failed to assign rider: %w", err)
	}
	return s.Refresh(ctx)
}

// Stats returns the staff aggregate, or nil before the first refresh.
func (s *Staff) Stats() *models.StaffStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Orders returns the active orders.
func (s *Staff) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// AvailableRiders returns the riders free for assignment.
func (s *Staff) AvailableRiders() []models.Rider {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Rider, len(s.riders))
	copy(out, s.riders)
	return out
}

// FilterOrders is a simple substring search over the fetched order list:
// order id, customer name or status. No server round trip.
func (s *Staff) FilterOrders(query string) []models.Order {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.Orders()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Order
	for _, order := range s.orders {
		name := strings.ToLower(order.DeliveryAddress.FirstName + " " + order.DeliveryAddress.LastName)
		id := fmt.Sprintf("%d", order.ID)
		if strings.Contains(name, query) ||
			strings.Contains(id, query) ||
			strings.Contains(strings.ToLower(string(order.Status)), query) {
			out = append(out, order)
		}
	}
	return out
}
