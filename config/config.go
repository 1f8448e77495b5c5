package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const DEFAULT_PORT = "5000"
const DEFAULT_GRID_MAX = 10

type Config struct {
	Port           string
	AllowedOrigins []string
	JWTKey         string
	GinMode        string
	GridMax        int
	Debug          bool
}

// Load reads the process environment. Missing required variables are startup
// failures, not runtime surprises.
func Load() (Config, error) {
	cfg := Config{
		Port:    DEFAULT_PORT,
		GridMax: DEFAULT_GRID_MAX,
		GinMode: os.Getenv("GIN_MODE"),
		Debug:   os.Getenv("DEBUG") == "true",
	}

	jwtKey, exists := os.LookupEnv("JWT_KEY")
	if !exists || jwtKey == "" {
		return Config{}, fmt.Errorf("missing jwt signing key")
	}
	cfg.JWTKey = jwtKey

	origins, exists := os.LookupEnv("ALLOWED_ORIGINS")
	if !exists || origins == "" {
		return Config{}, fmt.Errorf("missing allowed origins")
	}
	cfg.AllowedOrigins = strings.Split(origins, ",")

	if port, exists := os.LookupEnv("PORT"); exists {
		cfg.Port = port
	}

	if raw, exists := os.LookupEnv("GRID_MAX"); exists {
		gridMax, err := strconv.Atoi(raw)
		if err != nil || gridMax <= 0 {
			return Config{}, fmt.Errorf("invalid GRID_MAX %q", raw)
		}
		cfg.GridMax = gridMax
	}

	return cfg, nil
}
