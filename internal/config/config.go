package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/connect-n/backend/internal/domain"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	FrontendURL          string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	GameCacheTTL         time.Duration
	JWTSecret            string
	TicketTTL            time.Duration
	Board                BoardConfig
	SearchDepth          int
	StaleGameAge         time.Duration
	CleanupInterval      time.Duration
}

// BoardConfig is the size of every new game.
type BoardConfig struct {
	Rows      int
	Columns   int
	WinLength int
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	// Database Config, empty keeps games in memory
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	dbMaxOpenConns := GetEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	dbMaxIdleConns := GetEnvAsInt("DB_MAX_IDLE_CONNS", 25)
	dbConnMaxLifetimeMin := GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	// Redis is optional
	redisURL := GetEnv("REDIS_URL", "")
	redisPassword := GetEnv("REDIS_PASSWORD", "")
	gameCacheTTLMin := GetEnvAsPositiveInt("GAME_CACHE_TTL_MINUTES", 60)

	// Security
	jwtSecret := GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production")
	ticketTTLHours := GetEnvAsPositiveInt("TICKET_TTL_HOURS", 24)

	// Game
	board := LoadBoardConfig()
	searchDepth := GetEnvAsInt("SEARCH_DEPTH", 5)
	staleGameHours := GetEnvAsPositiveInt("STALE_GAME_HOURS", 24)
	cleanupIntervalMin := GetEnvAsPositiveInt("CLEANUP_INTERVAL_MINUTES", 60)

	AppConfig = &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       dbMaxOpenConns,
		DBMaxIdleConns:       dbMaxIdleConns,
		DBConnMaxLifetimeMin: dbConnMaxLifetimeMin,
		RedisURL:             redisURL,
		RedisPassword:        redisPassword,
		GameCacheTTL:         time.Duration(gameCacheTTLMin) * time.Minute,
		JWTSecret:            jwtSecret,
		TicketTTL:            time.Duration(ticketTTLHours) * time.Hour,
		Board:                board,
		SearchDepth:          searchDepth,
		StaleGameAge:         time.Duration(staleGameHours) * time.Hour,
		CleanupInterval:      time.Duration(cleanupIntervalMin) * time.Minute,
	}

	return AppConfig
}

// LoadBoardConfig reads the board size, falling back to the standard
// 6x7 board with four to win when the values do not form a valid game.
func LoadBoardConfig() BoardConfig {
	board := BoardConfig{
		Rows:      GetEnvAsInt("BOARD_ROWS", domain.Rows),
		Columns:   GetEnvAsInt("BOARD_COLUMNS", domain.Columns),
		WinLength: GetEnvAsInt("BOARD_NUM_TO_WIN", domain.ToWin),
	}

	if err := domain.ValidateDimensions(board.Rows, board.Columns, board.WinLength); err != nil {
		log.Printf("[CONFIG] %v, using the standard board", err)
		return BoardConfig{Rows: domain.Rows, Columns: domain.Columns, WinLength: domain.ToWin}
	}
	return board
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsPositiveInt is GetEnvAsInt for durations and intervals, where zero
// or a negative value falls back to the default.
func GetEnvAsPositiveInt(key string, defaultValue int) int {
	value := GetEnvAsInt(key, defaultValue)
	if value <= 0 {
		log.Printf("[CONFIG] %s must be positive, got %d, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return value
}
