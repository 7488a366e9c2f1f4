package dashboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kusina/internal/dashboard"
	"kusina/internal/models"
)

func TestStaffBoardLifecycle(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()

	sess, err := client.Login(ctx, "customer", "customer-pass")
	require.NoError(t, err)
	res, err := client.PlaceOrder(ctx, models.OrderRequest{
		CustomerID:    sess.UserID,
		Items:         []models.OrderLine{{MenuID: 2, Quantity: 1, Price: 85}},
		PaymentMethod: models.PaymentCard,
		DeliveryAddress: models.DeliveryAddress{
			FirstName: "Maria",
			LastName:  "Santos",
			Phone:     "0917-765-4321",
			Address:   "45 Mabini St",
		},
		TotalAmount: 85,
	})
	require.NoError(t, err)

	_, err = client.Login(ctx, "staff", "staff-pass")
	require.NoError(t, err)

	board := dashboard.NewStaff(client)
	require.NoError(t, board.Refresh(ctx))

	stats := board.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 1, stats.ActiveOrders)
	assert.Equal(t, 2, stats.AvailableRiders)

	orders := board.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusPending, orders[0].Status)

	// Mutations refetch the board.
	require.NoError(t, board.UpdateStatus(ctx, res.OrderID, models.OrderStatusPreparing))
	assert.Equal(t, models.OrderStatusPreparing, board.Orders()[0].Status)
	assert.Equal(t, 0, board.Stats().PendingOrders)

	// Skipping ahead in the lifecycle is rejected by the backend.
	err = board.UpdateStatus(ctx, res.OrderID, models.OrderStatusCompleted)
	require.Error(t, err)

	require.NoError(t, board.UpdateStatus(ctx, res.OrderID, models.OrderStatusReady))
	require.NoError(t, board.Assign(ctx, res.OrderID, 1))

	orders = board.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusAssigned, orders[0].Status)
	require.NotNil(t, orders[0].RiderID)
	assert.Equal(t, int64(1), *orders[0].RiderID)
	assert.Len(t, board.AvailableRiders(), 1, "assigned rider is no longer available")
}

func TestStaffFilterOrders(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()

	sess, err := client.Login(ctx, "customer", "customer-pass")
	require.NoError(t, err)
	for _, name := range []string{"Juan", "Maria"} {
		_, err := client.PlaceOrder(ctx, models.OrderRequest{
			CustomerID:    sess.UserID,
			Items:         []models.OrderLine{{MenuID: 1, Quantity: 1, Price: 100}},
			PaymentMethod: models.PaymentCash,
			DeliveryAddress: models.DeliveryAddress{
				FirstName: name,
				LastName:  "Reyes",
				Phone:     "0917-000-1111",
				Address:   "1 Main St",
			},
			TotalAmount: 150,
		})
		require.NoError(t, err)
	}

	_, err = client.Login(ctx, "staff", "staff-pass")
	require.NoError(t, err)

	board := dashboard.NewStaff(client)
	require.NoError(t, board.Refresh(ctx))
	require.Len(t, board.Orders(), 2)

	assert.Len(t, board.FilterOrders("maria"), 1)
	assert.Len(t, board.FilterOrders("reyes"), 2)
	assert.Len(t, board.FilterOrders("pending"), 2)
	assert.Len(t, board.FilterOrders(""), 2)
	assert.Empty(t, board.FilterOrders("nobody"))
}
