package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything read from the environment at startup.
type Config struct {
	ListenAddr string

	MapboxToken       string
	DirectionsProfile string
	SnapRadiusMeters  int
}

// Load reads .env (if present) and assembles the runtime configuration.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	return Config{
		ListenAddr:        getEnv("LISTEN_ADDR", "0.0.0.0:8080"),
		MapboxToken:       getEnv("MAPBOX_TOKEN", ""),
		DirectionsProfile: getEnv("DIRECTIONS_PROFILE", "driving"),
		SnapRadiusMeters:  getEnvInt("SNAP_RADIUS_METERS", 50),
	}
}

// getEnv reads an environment variable or returns the provided default.
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, defaultValue)
		return defaultValue
	}
	return n
}
