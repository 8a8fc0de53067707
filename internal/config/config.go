package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service needs.
type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Auth    AuthConfig
	Catalog CatalogConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr        string
	FrontOrigin string
}

// MongoConfig describes the persistence connection.
type MongoConfig struct {
	URI      string
	Database string
}

// AuthConfig carries the token secret and cookie policy.
type AuthConfig struct {
	JWTSecret    string
	SecureCookie bool
}

// CatalogConfig describes the external movie catalog.
type CatalogConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Load reads configuration from environment variables. Missing required
// keys fail startup immediately.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	mongoURI, err := requireEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	jwtSecret, err := requireEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	omdbKey, err := requireEnv("OMDB_API_KEY")
	if err != nil {
		return nil, err
	}

	timeoutSeconds := 8
	if override, err := parseOptionalIntEnv("OMDB_TIMEOUT"); err != nil {
		return nil, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	return &Config{
		Server: server,
		Mongo: MongoConfig{
			URI:      mongoURI,
			Database: getEnvOrDefault("MONGO_DB", "cinechat"),
		},
		Auth: AuthConfig{
			JWTSecret:    jwtSecret,
			SecureCookie: getEnvOrDefault("APP_ENV", "development") == "production",
		},
		Catalog: CatalogConfig{
			APIKey:  omdbKey,
			BaseURL: getEnvOrDefault("OMDB_BASE_URL", "https://www.omdbapi.com/"),
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}, nil
}

func loadServerConfig() (ServerConfig, error) {
	origin, err := requireEnv("FRONT_ORIGIN")
	if err != nil {
		return ServerConfig{}, err
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	if strings.Contains(port, ":") {
		// Accept ":5000" and "127.0.0.1:5000" as-is.
		return ServerConfig{Addr: port, FrontOrigin: origin}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, FrontOrigin: origin}, nil
}

func requireEnv(key string) (string, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return "", fmt.Errorf("missing required environment variable %s", key)
	}
	return value, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
