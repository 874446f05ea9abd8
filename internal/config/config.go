package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Log         LogConfig
	Aggregation AggregationConfig
}

type ServerConfig struct {
	Addr            string
	QueryTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type StoreConfig struct {
	Driver string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	PostgresDSN   string
	PostgresTable string
}

type LogConfig struct {
	Level string
	Human bool
}

type AggregationConfig struct {
	// CalendarMonths switches month buckets from fixed 31-day steps to
	// first-of-month steps.
	CalendarMonths bool
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("SERVER_ADDR", ":8080"),
			QueryTimeout:    getEnvDuration("SERVER_QUERY_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Store: StoreConfig{
			Driver:          getEnv("STORE_DRIVER", DriverMongo),
			MongoURI:        getEnv("MONGO_URI", "mongodb://mongodb:27017/"),
			MongoDatabase:   getEnv("MONGO_DATABASE", "sampleDB"),
			MongoCollection: getEnv("MONGO_COLLECTION", "sample_collection"),
			PostgresDSN:     os.Getenv("POSTGRES_DSN"),
			PostgresTable:   getEnv("POSTGRES_TABLE", "sample_collection"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Human: getEnvBool("LOG_HUMAN", false),
		},
		Aggregation: AggregationConfig{
			CalendarMonths: getEnvBool("AGGREGATION_CALENDAR_MONTHS", false),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Server.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive")
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" || c.Store.MongoDatabase == "" || c.Store.MongoCollection == "" {
			return fmt.Errorf("MONGO_URI, MONGO_DATABASE and MONGO_COLLECTION are required for the mongo driver")
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is not set")
		}
		if c.Store.PostgresTable == "" {
			return fmt.Errorf("POSTGRES_TABLE is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
