package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"kusina/internal/api"
	"kusina/internal/config"
	"kusina/internal/live"
	"kusina/internal/models"
	"kusina/internal/monitoring"
	"kusina/internal/session"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	apiURL     = flag.String("api-url", "", "Backend base URL (overrides config)")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := monitoring.New()
	sessions := session.NewStore()
	client := api.New(cfg.API.BaseURL, cfg.API.Timeout.Std(), sessions, metrics)

	if err := client.CheckHealth(ctx); err != nil {
		log.Fatalf("Backend at %s is not available: %v", cfg.API.BaseURL, err)
	}

	if username := os.Getenv("KUSINA_USERNAME"); username != "" {
		sess, err := client.Login(ctx, username, os.Getenv("KUSINA_PASSWORD"))
		if err != nil {
			log.Fatalf("Login failed: %v", err)
		}
		log.Printf("Logged in as %s (%s)", username, sess.Role)
	}

	printLanding(ctx, client)

	// Live landing stats until shutdown.
	wsURL := strings.Replace(cfg.API.BaseURL, "http", "ws", 1) + cfg.API.LiveStatsPath
	sub, err := live.Subscribe(ctx, wsURL, func(stats models.LandingStats) {
		log.Printf("Live stats: %.1f average rating, %d customers", stats.AvgRating, stats.TotalCustomers)
	})
	if err != nil {
		log.Printf("Live stats unavailable: %v", err)
	} else {
		defer sub.Close()
	}

	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port, metrics)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down...")
}

func printLanding(ctx context.Context, client *api.Client) {
	stats, err := client.LandingStats(ctx)
	if err != nil {
		log.Printf("Failed to fetch stats: %v", err)
	} else {
		log.Printf("%.1f average rating, %d customers", stats.AvgRating, stats.TotalCustomers)
	}

	dishes, err := client.FeaturedDishes(ctx)
	if err != nil {
		log.Printf("Failed to fetch featured dishes: %v", err)
		return
	}
	if len(dishes) > 4 {
		dishes = dishes[:4]
	}
	for _, dish := range dishes {
		log.Printf("Featured: %s (%.2f)", dish.Name, dish.Price)
	}
}

func startMetricsServer(port int, metrics *monitoring.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	log.Printf("Starting metrics server on port %d", port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
