package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/iamasit07/connect-n/backend/internal/config"
	"github.com/iamasit07/connect-n/backend/internal/repository"
	"github.com/iamasit07/connect-n/backend/internal/repository/memory"
	"github.com/iamasit07/connect-n/backend/internal/repository/postgres"
	"github.com/iamasit07/connect-n/backend/internal/repository/redis"
	"github.com/iamasit07/connect-n/backend/internal/service/bot"
	"github.com/iamasit07/connect-n/backend/internal/service/cleanup"
	"github.com/iamasit07/connect-n/backend/internal/service/game"
	transportHttp "github.com/iamasit07/connect-n/backend/internal/transport/http"
	"github.com/iamasit07/connect-n/backend/internal/transport/websocket"
	"github.com/iamasit07/connect-n/backend/pkg/ticket"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()

	// resources closed on shutdown, in reverse order of opening
	var closers []io.Closer

	// 1. Initialize Repositories (Persistence Layer)
	var games repository.GameStore
	var tallies repository.TallyStore
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		closers = append(closers, db)

		log.Println("Running database migrations...")
		if err := postgres.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed successfully")

		games = postgres.NewGameRepo(db)
		tallies = postgres.NewTallyRepo(db)
	} else {
		log.Println("DATABASE_URL not set, keeping games in memory")
		store := memory.NewStore()
		games = store
		tallies = store
	}

	// 1b. Redis cache in front of the game store, optional
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Printf("[REDIS] Failed to initialize Redis, continuing without cache: %v", err)
		} else {
			closers = append(closers, client)
			games = redis.NewGameCache(games, client, cfg.GameCacheTTL)
		}
	}

	// 2. Initialize Services (Business Logic Layer)
	tickets := ticket.NewIssuer(cfg.JWTSecret, cfg.TicketTTL)
	gameService := game.NewService(games, tallies, tickets, game.Options{
		Rows:         cfg.Board.Rows,
		Columns:      cfg.Board.Columns,
		WinLength:    cfg.Board.WinLength,
		DefaultDepth: bot.ClampDepth(cfg.SearchDepth),
	})

	// 3. Initialize Background Workers
	cleanupWorker := cleanup.NewWorker(games, cfg.StaleGameAge, cfg.CleanupInterval)
	cleanupWorker.Start()

	// 4. Initialize Handlers (API Layer)
	gameHandler := transportHttp.NewGameHandler(gameService)
	wsHandler := websocket.NewHandler(gameService, cfg.AllowedOrigins)

	router := transportHttp.NewRouter(gameHandler, transportHttp.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      "./static",
		WebSocket:      wsHandler.HandleWebSocket,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s (%dx%d board, %d to win)",
			cfg.Port, cfg.Board.Rows, cfg.Board.Columns, cfg.Board.WinLength)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var result *multierror.Error
	if err := srv.Shutdown(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	cleanupWorker.Stop()
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		log.Fatalf("Unclean shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
