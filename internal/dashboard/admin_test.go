package dashboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kusina/internal/dashboard"
	"kusina/internal/models"
)

func TestAdminMenuManagement(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()

	board := dashboard.NewAdmin(client)
	require.NoError(t, board.RefreshMenu(ctx))
	seeded := len(board.Menu())
	require.NotZero(t, seeded)

	created, err := board.SaveMenuItem(ctx, 0, models.MenuForm{
		Name:        "Lumpia",
		Price:       "65",
		Description: "Fried spring rolls",
		Category:    "Starters",
		Group:       "Filipino",
	})
	require.NoError(t, err)
	assert.Len(t, board.Menu(), seeded+1)

	// Updates replace the local list entry in place.
	updated, err := board.SaveMenuItem(ctx, created.ID, models.MenuForm{
		Name:        "Lumpiang Shanghai",
		Price:       "70",
		Description: "Fried pork spring rolls",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	found := false
	for _, item := range board.Menu() {
		if item.ID == created.ID {
			found = true
			assert.Equal(t, "Lumpiang Shanghai", item.Name)
			assert.Equal(t, float64(70), item.Price)
		}
	}
	assert.True(t, found)

	require.NoError(t, board.DeleteMenuItem(ctx, created.ID))
	assert.Len(t, board.Menu(), seeded)
}

func TestAdminMenuValidation(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()

	board := dashboard.NewAdmin(client)
	require.NoError(t, board.RefreshMenu(ctx))
	before := len(board.Menu())

	_, err := board.SaveMenuItem(ctx, 0, models.MenuForm{Name: "No Price"})
	require.Error(t, err)
	assert.Equal(t, "Price, Description are required.", err.Error())

	_, err = board.SaveMenuItem(ctx, 0, models.MenuForm{})
	require.Error(t, err)
	assert.Equal(t, "Name, Price, Description are required.", err.Error())

	assert.Len(t, board.Menu(), before, "validation failures never touch the list")
}

func TestCustomerOrderHistory(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()

	sess, err := client.Login(ctx, "customer", "customer-pass")
	require.NoError(t, err)

	board := dashboard.NewCustomer(client, sess.UserID)
	require.NoError(t, board.Refresh(ctx))
	assert.Empty(t, board.Orders())

	for i := 0; i < 3; i++ {
		_, err := client.PlaceOrder(ctx, models.OrderRequest{
			CustomerID:    sess.UserID,
			Items:         []models.OrderLine{{MenuID: 1, Quantity: 1, Price: 100}},
			PaymentMethod: models.PaymentCash,
			DeliveryAddress: models.DeliveryAddress{
				FirstName: "Juan",
				LastName:  "Dela Cruz",
				Phone:     "0917-123-4567",
				Address:   "123 Rizal St",
			},
			TotalAmount: 150,
		})
		require.NoError(t, err)
	}

	require.NoError(t, board.Refresh(ctx))
	orders := board.Orders()
	require.Len(t, orders, 3)
	assert.Len(t, board.Recent(2), 2)
	assert.Greater(t, orders[0].ID, orders[2].ID, "newest first")

	tracked, err := board.Track(ctx, orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, tracked.Status)
}
