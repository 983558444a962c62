package config

import (
	"os"
	"strconv"
	"time"
)

// Server holds settings for the network front ends.
type Server struct {
	HTTPAddr    string
	SSHAddr     string
	HostKeyPath string
	DBPath      string
	Tick        time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// LoadServer reads server settings from the environment.
func LoadServer() Server {
	return Server{
		HTTPAddr:    getenv("TWINCLASH_HTTP_ADDR", ":8080"),
		SSHAddr:     getenv("TWINCLASH_SSH_ADDR", ""),
		HostKeyPath: getenv("TWINCLASH_HOST_KEY", ".ssh/twinclash_ed25519"),
		DBPath:      getenv("TWINCLASH_DB", "~/.twinclash/outcomes.db"),
		Tick:        time.Duration(getenvInt("TWINCLASH_TICK_MS", 100)) * time.Millisecond,
	}
}
