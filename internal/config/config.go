package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port           string
	AllowedOrigins string

	// Catalog backing files
	FoodsFile   string
	RecipesFile string

	// Plan history (optional; empty disables the store)
	DatabaseURL string

	// External food sources
	USDAAPIKey    string
	USDABaseURL   string
	OFFBaseURL    string
	SourceTimeout time.Duration

	// Matching
	ConfidenceFloor float64

	// Environment
	Environment string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "*"),
		FoodsFile:       getEnv("FOODS_FILE", "./data/foods.csv"),
		RecipesFile:     getEnv("RECIPES_FILE", "./data/recipes.csv"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		USDAAPIKey:      getEnv("USDA_API_KEY", ""),
		USDABaseURL:     getEnv("USDA_BASE_URL", "https://api.nal.usda.gov/fdc/v1"),
		OFFBaseURL:      getEnv("OFF_BASE_URL", "https://world.openfoodfacts.org"),
		SourceTimeout:   getDurationEnv("SOURCE_TIMEOUT_SECONDS", 10) * time.Second,
		ConfidenceFloor: getFloatEnv("CONFIDENCE_FLOOR", 0.3),
		Environment:     getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
	}
	return time.Duration(defaultValue)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
