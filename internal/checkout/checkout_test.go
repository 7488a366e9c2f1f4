package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kusina/internal/api"
	"kusina/internal/cart"
	"kusina/internal/config"
	"kusina/internal/models"
	"kusina/internal/session"
)

// stubBackend is both the cart API and the order API, counting order
// placements so tests can assert exactly one (or zero) went out.
type stubBackend struct {
	items      []models.CartItem
	placed     []models.OrderRequest
	cartCalls  int
	placeCalls int
}

func (s *stubBackend) CartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	s.cartCalls++
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *stubBackend) AddCartItem(context.Context, int64, int64, int) error { return nil }

func (s *stubBackend) UpdateCartItem(context.Context, int64, int64, int, string) error {
	return nil
}

func (s *stubBackend) RemoveCartItem(context.Context, int64, int64) error { return nil }

func (s *stubBackend) ClearCart(ctx context.Context, userID int64) error {
	s.items = nil
	return nil
}

func (s *stubBackend) PlaceOrder(ctx context.Context, req models.OrderRequest) (*api.PlaceOrderResult, error) {
	s.placeCalls++
	s.placed = append(s.placed, req)
	return &api.PlaceOrderResult{OrderID: 42}, nil
}

func validForm() Form {
	return Form{
		FirstName:     "Juan",
		LastName:      "Dela Cruz",
		Phone:         "0917-123-4567",
		Address:       "123 Rizal St, Batangas",
		PaymentMethod: models.PaymentCash,
	}
}

func feeConfig() config.DeliveryConfig {
	return config.DeliveryConfig{Fee: 50, FeeMethods: []string{"cash"}}
}

func newFlow(t *testing.T, backend *stubBackend, loggedIn bool) (*Flow, *cart.Synchronizer) {
	t.Helper()
	sessions := session.NewStore()
	if loggedIn {
		sessions.Set(session.Session{Token: "tok", Role: models.RoleCustomer, UserID: 4})
	}
	sync := cart.NewSynchronizer(backend, nil, 4)
	require.NoError(t, sync.Load(context.Background()))
	return NewFlow(backend, sync, sessions, nil, feeConfig()), sync
}

func cartWith(items ...models.CartItem) *stubBackend {
	return &stubBackend{items: items}
}

func line(menuID int64, price float64, qty int) models.CartItem {
	return models.CartItem{MenuID: menuID, Price: price, Quantity: qty, Name: "Dish"}
}

func TestPlaceOrderSuccess(t *testing.T) {
	backend := cartWith(line(1, 100, 2), line(2, 85, 1))
	flow, sync := newFlow(t, backend, true)

	orderID, err := flow.PlaceOrder(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(42), orderID)

	require.Equal(t, 1, backend.placeCalls, "exactly one order-placement request")
	assert.Equal(t, 0, sync.ItemCount(), "cart is empty after checkout")

	req := backend.placed[0]
	assert.Equal(t, int64(4), req.CustomerID)
	require.Len(t, req.Items, 2)
	assert.Equal(t, models.PaymentCash, req.PaymentMethod)
	assert.Equal(t, float64(100*2+85+50), req.TotalAmount, "cash carries the delivery fee")
}

func TestEmptyCartRejectedLocally(t *testing.T) {
	backend := cartWith()
	flow, _ := newFlow(t, backend, true)
	calls := backend.cartCalls

	_, err := flow.PlaceOrder(context.Background(), validForm())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, backend.placeCalls, "zero network calls for an empty cart")
	assert.Equal(t, calls, backend.cartCalls)
}

func TestMissingContactRejectedFirst(t *testing.T) {
	// Contact fields are checked before the cart, so an empty cart with
	// missing contact reports the contact failure.
	backend := cartWith()
	flow, _ := newFlow(t, backend, true)

	form := validForm()
	form.Phone = ""
	_, err := flow.PlaceOrder(context.Background(), form)
	require.ErrorIs(t, err, ErrMissingContact)
	assert.Equal(t, 0, backend.placeCalls)
}

func TestPaymentMethodMustBeChosen(t *testing.T) {
	backend := cartWith(line(1, 100, 1))
	flow, _ := newFlow(t, backend, true)

	form := validForm()
	form.PaymentMethod = ""
	_, err := flow.PlaceOrder(context.Background(), form)
	require.ErrorIs(t, err, ErrNoPaymentMethod)
	assert.Equal(t, 0, backend.placeCalls)
}

func TestNotLoggedInRejected(t *testing.T) {
	backend := cartWith(line(1, 100, 1))
	flow, _ := newFlow(t, backend, false)

	_, err := flow.PlaceOrder(context.Background(), validForm())
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, 0, backend.placeCalls)
}

func TestFeeFollowsConfiguredMethods(t *testing.T) {
	backend := cartWith(line(1, 100, 1))
	flow, _ := newFlow(t, backend, true)

	cash := validForm()
	assert.Equal(t, float64(150), flow.Total(cash))

	card := validForm()
	card.PaymentMethod = models.PaymentCard
	assert.Equal(t, float64(100), flow.Total(card), "card does not carry the fee by default")
}
