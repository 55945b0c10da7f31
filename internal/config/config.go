package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	DatabasePath  string
	PublicURL     string
	AdminUser     string
	AdminPass     string
	MaxAttempts   int
	ExportEnabled bool
	ExportFile    string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.DatabasePath = getenv("DATABASE_PATH", "./shipgraph.db")
	c.PublicURL = getenv("PUBLIC_URL", "http://localhost:8080")
	c.AdminUser = os.Getenv("ADMIN_USER")
	c.AdminPass = os.Getenv("ADMIN_PASS")
	c.MaxAttempts = getenvInt("MAX_ATTEMPTS", 10)
	c.ExportEnabled = getenv("EXPORT_ENABLED", "true") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./shipgraph-results.txt")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
