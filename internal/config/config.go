package config

import "os"

type Config struct {
	HTTP     HTTPConfig
	Auth     AuthConfig
	Log      LogConfig
	Postgres PostgresConfig
}

type HTTPConfig struct {
	Addr string
}

type AuthConfig struct {
	JWTSecret     string
	JWTAccessTTL  string
	JWTRefreshTTL string
}

type LogConfig struct {
	Level   string
	DevMode string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr: getenv("HTTP_ADDR", ":8080"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			JWTAccessTTL:  getenv("JWT_ACCESS_TTL", "15m"),
			JWTRefreshTTL: getenv("JWT_REFRESH_TTL", "168h"),
		},
		Log: LogConfig{
			Level:   getenv("LOG_LEVEL", "info"),
			DevMode: getenv("LOG_DEV", "false"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
