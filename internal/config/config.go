package config

import (
	"errors"
	"os"
	"strconv"
	"sync"
	"time"
)

type Config struct {
	Env      string
	LogLevel string
	Port     string

	// Ingestion gate
	IngestAPIKey    string
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Storage
	DBType       string
	DBDSN        string
	FileReadings string

	// Live publish (optional; noop when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	// Device-side MQTT ingestion (optional; disabled when MQTTBroker is empty)
	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string
	MQTTTopic    string
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = loadDotEnv()
		cfg = &Config{
			Env:             getEnv("APP_ENV", "development"),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			Port:            getEnv("PORT", "8088"),
			IngestAPIKey:    getEnv("INGEST_API_KEY", ""),
			RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 10),
			RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			DBType:          getEnv("STORAGE_BACKEND", "file"),
			DBDSN:           getEnv("POSTGRES_DSN", ""),
			FileReadings:    getEnv("READINGS_FILE", "data/readings.json"),
			RedisAddr:       getEnv("REDIS_ADDR", ""),
			RedisPassword:   getEnv("REDIS_PASSWORD", ""),
			RedisDB:         getEnvInt("REDIS_DB", 0),
			RedisChannel:    getEnv("REDIS_CHANNEL", "sensor-readings-live"),
			MQTTBroker:      getEnv("MQTT_BROKER", ""),
			MQTTClientID:    getEnv("MQTT_CLIENT_ID", "sleeptracker-ingest"),
			MQTTUsername:    getEnv("MQTT_USERNAME", ""),
			MQTTPassword:    getEnv("MQTT_PASSWORD", ""),
			MQTTTopic:       getEnv("MQTT_TOPIC", "sleep/+/data"),
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.IngestAPIKey == "" {
		return errors.New("INGEST_API_KEY is required")
	}
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && c.FileReadings == "" {
		return errors.New("File storage requires READINGS_FILE to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.RateLimitMax <= 0 {
		return errors.New("RATE_LIMIT_MAX must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		f, err := os.Open(".env")
		if err != nil {
			return err
		}
		defer f.Close()
		var lines []string
		buf := make([]byte, 4096)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				lines = append(lines, string(buf[:n]))
			}
			if err != nil {
				break
			}
		}
		for _, line := range lines {
			for _, l := range splitLines(line) {
				if len(l) == 0 || l[0] == '#' {
					continue
				}
				kv := splitKV(l)
				if len(kv) == 2 {
					os.Setenv(kv[0], kv[1])
				}
			}
		}
	}
	return nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' || c == '\r' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func splitKV(s string) []string {
	for i, c := range s {
		if c == '=' {
			return []string{s[:i], s[i+1:]}
		}
	}
	return nil
}
