package main

import (
	"context"
	"crew-route-service/internal/api"
	"crew-route-service/internal/api/handlers"
	"crew-route-service/internal/app"
	"crew-route-service/internal/config"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_FILE", ""))
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := app.Build(ctx, cfg, config.Get("SEED_PATH", ""))
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	checks := map[string]handlers.HealthCheck{}
	if engine.DB != nil {
		checks["db"] = engine.DB.PingContext
	}
	if engine.Redis != nil {
		checks["redis"] = engine.Redis.Ping
	}

	router := api.NewRouter(api.Deps{
		Optimizer: engine.Optimizer,
		Teams:     engine.Teams,
		Publisher: engine.Publisher,
		Checks:    checks,
	})

	// Write timeout covers a cold-cache run: free geocoding is paced at one
	// address per second.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
