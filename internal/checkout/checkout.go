package checkout

import (
	"context"
	"errors"
	"fmt"

	"kusina/internal/api"
	"kusina/internal/cart"
	"kusina/internal/config"
	"kusina/internal/models"
	"kusina/internal/session"
)

// Validation failures, checked in order before anything touches the
// network. The first failure aborts submission.
var (
	ErrMissingContact  = errors.New("missing required contact fields")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoPaymentMethod = errors.New("no payment method selected")
	ErrNotLoggedIn     = errors.New("not logged in")
)

// OrderAPI is the slice of the backend client checkout needs.
type OrderAPI interface {
	PlaceOrder(ctx context.Context, req models.OrderRequest) (*api.PlaceOrderResult, error)
}

// Form is the delivery and payment information collected at checkout.
// PaymentMethod starts empty on purpose: the customer must pick one, there
// is no pre-selected default.
type Form struct {
	FirstName            string
	LastName             string
	Phone                string
	Email                string
	Address              string
	DeliveryInstructions string
	Latitude             float64
	Longitude            float64
	PaymentMethod        models.PaymentMethod
}

// Flow validates a checkout form, turns the current cart into an order
// request and hands it to the backend.
type Flow struct {
	api      OrderAPI
	cart     *cart.Synchronizer
	sessions *session.Store
	notifier cart.Notifier
	delivery config.DeliveryConfig
}

// NewFlow wires a checkout flow for the current session.
func NewFlow(client OrderAPI, sync *cart.Synchronizer, sessions *session.Store, notifier cart.Notifier, delivery config.DeliveryConfig) *Flow {
	if notifier == nil {
		notifier = cart.NopNotifier{}
	}
	return &Flow{
		api:      client,
		cart:     sync,
		sessions: sessions,
		notifier: notifier,
		delivery: delivery,
	}
}

// Total is the amount the customer pays: the cart total plus the flat
// delivery fee when the chosen payment method carries one.
func (f *Flow) Total(form Form) float64 {
	total := f.cart.Total()
	if f.delivery.AppliesTo(string(form.PaymentMethod)) {
		total += f.delivery.Fee
	}
	return total
}

// validate runs the precondition checks in their required order and
// returns the first failure.
func (f *Flow) validate(form Form) error {
	if form.FirstName == "" || form.LastName == "" || form.Phone == "" || form.Address == "" {
		return ErrMissingContact
	}
	if f.cart.ItemCount() == 0 {
		return ErrEmptyCart
	}
	if form.PaymentMethod == "" {
		return ErrNoPaymentMethod
	}
	if sess, ok := f.sessions.Current(); !ok || sess.UserID == 0 {
		return ErrNotLoggedIn
	}
	return nil
}

// PlaceOrder validates the form and submits the order. On any validation
// failure the first relevant message is surfaced and no request is issued.
// On success the local cart is cleared and the new order id returned; the
// caller navigates to the customer dashboard.
func (f *Flow) PlaceOrder(ctx context.Context, form Form) (int64, error) {
	if err := f.validate(form); err != nil {
		f.notifier.Notify("Checkout", validationMessage(err))
		return 0, err
	}

	sess, _ := f.sessions.Current()
	items := f.cart.Items()

	lines := make([]models.OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, models.OrderLine{
			MenuID:              it.MenuID,
			Quantity:            it.Quantity,
			Price:               it.Price,
			SpecialInstructions: it.SpecialInstructions,
		})
	}

	req := models.OrderRequest{
		CustomerID:    sess.UserID,
		Items:         lines,
		PaymentMethod: form.PaymentMethod,
		DeliveryAddress: models.DeliveryAddress{
			FirstName:            form.FirstName,
			LastName:             form.LastName,
			Phone:                form.Phone,
			Email:                form.Email,
			Address:              form.Address,
			DeliveryInstructions: form.DeliveryInstructions,
			Latitude:             form.Latitude,
			Longitude:            form.Longitude,
		},
		TotalAmount: f.Total(form),
	}

	res, err := f.api.PlaceOrder(ctx, req)
	if err != nil {
		f.notifier.Notify("Failed to place order", err.Error())
		return 0, err
	}

	if err := f.cart.Clear(ctx); err != nil {
		// The order went through; a failed clear self-corrects on the next
		// cart load.
		f.notifier.Notify("Cart", "Failed to clear cart.")
	}

	f.notifier.Notify("Order Placed!", fmt.Sprintf("Your order #%d has been confirmed.", res.OrderID))
	return res.OrderID, nil
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingContact):
		return "Please fill all required fields."
	case errors.Is(err, ErrEmptyCart):
		return "Add items to your cart before placing an order."
	case errors.Is(err, ErrNoPaymentMethod):
		return "Please select a payment method."
	case errors.Is(err, ErrNotLoggedIn):
		return "Please log in to place an order."
	}
	return err.Error()
}
