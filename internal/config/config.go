package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/vytor/mathflash/internal/logger"
	"github.com/vytor/mathflash/internal/models"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	DefaultDifficulty  string
	DefaultPuzzleCount int
	SessionIdleMinutes int
	ArchiveWorkerCount int
	ArchiveQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or unparsable.
func Load() Config {
	// .env is optional outside development.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:mathflash.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		DefaultDifficulty:  envOr("DEFAULT_DIFFICULTY", "Medium"),
		DefaultPuzzleCount: envIntOr("DEFAULT_PUZZLE_COUNT", 10),
		SessionIdleMinutes: envIntOr("SESSION_IDLE_TIMEOUT_MINUTES", 30),
		ArchiveWorkerCount: envIntOr("ARCHIVE_WORKER_COUNT", 2),
		ArchiveQueueSize:   envIntOr("ARCHIVE_QUEUE_SIZE", 64),
	}
}

// Validate reports every invalid setting, naming the environment key.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	if _, err := models.ParseDifficulty(c.DefaultDifficulty); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_DIFFICULTY: %w", err))
	}
	if c.DefaultPuzzleCount < 5 || c.DefaultPuzzleCount > 20 {
		errs = append(errs, fmt.Errorf("DEFAULT_PUZZLE_COUNT must be between 5 and 20, got %d", c.DefaultPuzzleCount))
	}
	if c.SessionIdleMinutes < 1 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TIMEOUT_MINUTES must be at least 1, got %d", c.SessionIdleMinutes))
	}
	if c.ArchiveWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("ARCHIVE_WORKER_COUNT must be at least 1, got %d", c.ArchiveWorkerCount))
	}
	if c.ArchiveQueueSize < 1 {
		errs = append(errs, fmt.Errorf("ARCHIVE_QUEUE_SIZE must be at least 1, got %d", c.ArchiveQueueSize))
	}
	return errors.Join(errs...)
}

// Difficulty returns the parsed default difficulty, falling back to Medium.
func (c Config) Difficulty() models.Difficulty {
	d, err := models.ParseDifficulty(c.DefaultDifficulty)
	if err != nil {
		return models.Medium
	}
	return d
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
