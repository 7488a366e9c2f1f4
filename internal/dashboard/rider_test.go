package dashboard_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kusina/internal/api"
	"kusina/internal/apitest"
	"kusina/internal/dashboard"
	"kusina/internal/models"
	"kusina/internal/session"
)

func newBackend(t *testing.T) *api.Client {
	t.Helper()
	backend, err := apitest.NewServer()
	require.NoError(t, err)
	srv := httptest.NewServer(backend.Router())
	t.Cleanup(func() {
		srv.Close()
		backend.Close()
	})
	return api.New(srv.URL, 0, session.NewStore(), nil)
}

// placeAssignedOrder drives an order through checkout and staff assignment
// so a rider has something to deliver.
func placeAssignedOrder(t *testing.T, client *api.Client, riderID int64) int64 {
	t.Helper()
	ctx := context.Background()

	sess, err := client.Login(ctx, "customer", "customer-pass")
	require.NoError(t, err)

	res, err := client.PlaceOrder(ctx, models.OrderRequest{
		CustomerID:    sess.UserID,
		Items:         []models.OrderLine{{MenuID: 1, Quantity: 2, Price: 100}},
		PaymentMethod: models.PaymentCash,
		DeliveryAddress: models.DeliveryAddress{
			FirstName: "Juan",
			LastName:  "Dela Cruz",
			Phone:     "0917-123-4567",
			Address:   "123 Rizal St, Batangas",
		},
		TotalAmount: 250,
	})
	require.NoError(t, err)

	_, err = client.Login(ctx, "staff", "staff-pass")
	require.NoError(t, err)
	require.NoError(t, client.AssignRider(ctx, res.OrderID, riderID))
	return res.OrderID
}

func TestRiderAcceptAndCompleteDelivery(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()
	orderID := placeAssignedOrder(t, client, 1)

	board := dashboard.NewRider(client, 1)
	require.NoError(t, board.Refresh(ctx))

	require.NotNil(t, board.Profile())
	assert.Equal(t, "Rider One", board.Profile().Name)

	active := board.Active()
	require.Len(t, active, 1)
	assert.Equal(t, orderID, active[0].OrderID)
	assert.Equal(t, models.OrderStatusAssigned, active[0].Status)
	assert.Equal(t, "Juan Dela Cruz", active[0].CustomerName)
	assert.Empty(t, board.History())

	// Accept: assigned -> on the way.
	require.NoError(t, board.Accept(ctx, orderID))
	active = board.Active()
	require.Len(t, active, 1)
	assert.Equal(t, models.OrderStatusOnTheWay, active[0].Status)

	order, err := client.Order(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOnTheWay, order.Status)

	// Complete: the delivery moves to history with a completion timestamp.
	require.NoError(t, board.Complete(ctx, orderID))
	assert.Empty(t, board.Active())

	history := board.History()
	require.Len(t, history, 1)
	assert.Equal(t, orderID, history[0].OrderID)
	assert.Equal(t, models.OrderStatusCompleted, history[0].Status)
	require.NotNil(t, history[0].CompletedAt)

	stats := board.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.TotalDeliveries)
	assert.Equal(t, 1, stats.DeliveriesToday)
}

func TestRiderCannotAcceptUnassignedOrder(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()
	orderID := placeAssignedOrder(t, client, 1)

	other := dashboard.NewRider(client, 2)
	require.NoError(t, other.Refresh(ctx))
	assert.Empty(t, other.Active(), "order belongs to rider 1")

	err := other.Accept(ctx, orderID)
	require.Error(t, err)
}

func TestRiderRefreshDeduplicatesDeliveries(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()
	first := placeAssignedOrder(t, client, 1)
	second := placeAssignedOrder(t, client, 1)

	board := dashboard.NewRider(client, 1)
	require.NoError(t, board.Refresh(ctx))

	active := board.Active()
	require.Len(t, active, 2)
	assert.NotEqual(t, active[0].OrderID, active[1].OrderID)

	ids := map[int64]bool{active[0].OrderID: true, active[1].OrderID: true}
	assert.True(t, ids[first] && ids[second])
}
