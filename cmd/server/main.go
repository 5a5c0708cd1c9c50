/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the loan engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load the rates file (or defaults)
  3. Initialize SQLite store
  4. Pick the status cache (Redis or in-process)
  5. Wire the lifecycle service and HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: club.db)
           Use ":memory:" for an in-memory database
  -rates   Path to a JSON rates file (default: built-in rates)
  -redis   Redis address for the status cache, e.g. localhost:6379
           (default: in-process cache)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and default rates
  ./server -db="./data/club.db"

  # Run with a Redis status cache
  ./server -redis="localhost:6379"

  # Run with an overridden rate regime
  ./server -rates="./rates.json"

SEE ALSO:
  - api/server.go: Router configuration
  - lifecycle/service.go: Domain orchestration
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
	"syscall"
	"time"

	"github.com/commonfund/loan-engine/api"
	"github.com/commonfund/loan-engine/cache"
	"github.com/commonfund/loan-engine/factory"
	"github.com/commonfund/loan-engine/lifecycle"
	"github.com/commonfund/loan-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "club.db", "SQLite database path")
	ratesPath := flag.String("rates", "", "JSON rates file (empty = defaults)")
	redisAddr := flag.String("redis", "", "Redis address for the status cache (empty = in-process)")
	flag.Parse()

	// Load the rate regime
	rates, err := factory.LoadRatesFile(*ratesPath)
	if err != nil {
		log.Fatalf("Failed to load rates: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Status cache
	var statusCache lifecycle.Cache
	if *redisAddr != "" {
		redisCache := cache.NewRedis(*redisAddr, 5*time.Minute)
		defer redisCache.Close()
		statusCache = redisCache
		log.Printf("Using Redis status cache at %s", *redisAddr)
	} else {
		statusCache = cache.NewMemory()
	}

	// Wire the service and router
	service := lifecycle.NewService(store, statusCache, nil, rates)
	router := api.NewRouter(api.NewHandler(service))

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
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
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
