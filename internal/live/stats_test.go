package live_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kusina/internal/api"
	"kusina/internal/apitest"
	"kusina/internal/live"
	"kusina/internal/models"
	"kusina/internal/session"
)

func TestSubscribeDeliversStatsFrames(t *testing.T) {
	backend, err := apitest.NewServer()
	require.NoError(t, err)
	srv := httptest.NewServer(backend.Router())
	t.Cleanup(func() {
		srv.Close()
		backend.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := make(chan models.LandingStats, 4)
	wsURL := strings.Replace(srv.URL, "http", "ws", 1) + "/ws/landing"
	sub, err := live.Subscribe(ctx, wsURL, func(stats models.LandingStats) {
		frames <- stats
	})
	require.NoError(t, err)
	defer sub.Close()

	// A new customer account changes the aggregates and triggers a push.
	client := api.New(srv.URL, 0, session.NewStore(), nil)
	require.NoError(t, client.RegisterCustomer(ctx, api.RegisterRequest{
		Username: "maria",
		Password: "maria-pass",
		Name:     "Maria Clara",
	}))

	select {
	case stats := <-frames:
		require.Equal(t, 2, stats.TotalCustomers)
		require.Greater(t, stats.AvgRating, 4.0)
	case <-time.After(2 * time.Second):
		t.Fatal("no stats frame arrived")
	}
}

func TestSubscriptionEndsWhenServerCloses(t *testing.T) {
	backend, err := apitest.NewServer()
	require.NoError(t, err)
	srv := httptest.NewServer(backend.Router())
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsURL := strings.Replace(srv.URL, "http", "ws", 1) + "/ws/landing"
	sub, err := live.Subscribe(ctx, wsURL, func(models.LandingStats) {})
	require.NoError(t, err)

	srv.CloseClientConnections()
	srv.Close()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not end after server close")
	}
}
