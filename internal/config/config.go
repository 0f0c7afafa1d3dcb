package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string   `json:"serverAddress"`
	DataPath      string   `json:"dataPath"`
	ImagesPath    string   `json:"imagesPath"`
	Query         Query    `json:"query"`
	Security      Security `json:"security"`
}

// Query configuration for list pagination
type Query struct {
	DefaultLimit int `json:"defaultLimit"`
	MaxLimit     int `json:"maxLimit"`
}

// Security configuration. An empty APIKey disables authentication.
type Security struct {
	APIKey       string `json:"apiKey"`
	APIKeyHeader string `json:"apiKeyHeader"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":3001",
		DataPath:      "data/photos.json",
		ImagesPath:    "./images",
		Query: Query{
			DefaultLimit: 100,
			MaxLimit:     500,
		},
		Security: Security{
			APIKey:       "",
			APIKeyHeader: "X-API-Key",
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	cfg := defaultConfig()

	// Try to load from config file
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if dataPath := os.Getenv("DATA_PATH"); dataPath != "" {
		cfg.DataPath = dataPath
	}
	if imagesPath := os.Getenv("IMAGES_PATH"); imagesPath != "" {
		cfg.ImagesPath = imagesPath
	}
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		cfg.Security.APIKey = apiKey
	}
	if limit := os.Getenv("QUERY_DEFAULT_LIMIT"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 {
			cfg.Query.DefaultLimit = v
		}
	}
	if limit := os.Getenv("QUERY_MAX_LIMIT"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 {
			cfg.Query.MaxLimit = v
		}
	}

	// Ensure the images directory exists
	if err := os.MkdirAll(cfg.ImagesPath, 0755); err != nil {
		return nil, err
	}

	// Make paths absolute
	absImages, err := filepath.Abs(cfg.ImagesPath)
	if err != nil {
		return nil, err
	}
	cfg.ImagesPath = absImages

	absData, err := filepath.Abs(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	cfg.DataPath = absData

	return cfg, nil
}
