/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the timegrid timesheet/payroll server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and parse command-line flags
  2. Load the holiday calendar (built-in or YAML override)
  3. Initialize SQLite store and mirror the calendar into it
  4. Create API handler with dependencies
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: timegrid.db)
             Use ":memory:" for an in-memory database
  -holidays  YAML file of gazetted holidays; merged over the built-in
             2025/2026 calendar
  -geofence  Clock-in geofence radius in meters (default: 200)

ENVIRONMENT:
  Each flag has an env counterpart (PORT, DB_PATH, HOLIDAYS_FILE,
  GEOFENCE_RADIUS_M), loaded from .env when present. Flags win.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/timegrid.db"

  # Run with the 2027 gazette loaded from YAML
  ./server -holidays=./holidays-2027.yaml

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lioncity/timegrid/api"
	"github.com/lioncity/timegrid/sgcal"
	"github.com/lioncity/timegrid/store/sqlite"
)

func main() {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "timegrid.db"), "SQLite database path")
	holidaysFile := flag.String("holidays", envStr("HOLIDAYS_FILE", ""), "Holiday calendar YAML file")
	geofence := flag.Float64("geofence", envFloat("GEOFENCE_RADIUS_M", api.DefaultGeofenceRadiusMeters),
		"Clock-in geofence radius in meters")
	flag.Parse()

	// Holiday calendar
	cal := sgcal.Default()
	if *holidaysFile != "" {
		loaded, err := sgcal.FromYAMLFile(*holidaysFile)
		if err != nil {
			log.Fatalf("Failed to load holiday calendar: %v", err)
		}
		cal = loaded
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Mirror the calendar so reporting queries can join on it.
	if err := store.SyncHolidays(context.Background(), cal); err != nil {
		log.Printf("Warning: Failed to sync holidays: %v", err)
	}

	// Initialize handler
	handler := api.NewHandler(store, cal)
	handler.GeofenceRadius = *geofence

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
