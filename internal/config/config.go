package config

import "os"

type Config struct {
	ServerPort string
	DataFile   string
}

// Load reads configuration from the environment, falling back to
// defaults suitable for local runs.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DataFile:   getEnv("DATA_FILE", "accounts.dat"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
