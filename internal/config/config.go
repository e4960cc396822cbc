package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Token     TokenConfig
	Location  LocationConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string
	Environment     string   // ENV: production, development, etc.
	AllowedOrigins  []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type MongoConfig struct {
	URI             string
	Database        string
	UsersCollection string
}

// RedisConfig points at the broker that carries the mail queue. The same
// instance holds rate limit counters and cached accounts.
type RedisConfig struct {
	URI      string
	CacheTTL time.Duration
}

type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// LocationConfig addresses the external location validation service.
type LocationConfig struct {
	URL     string
	Timeout time.Duration
}

type MailConfig struct {
	From string
}

type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

// Load builds the configuration from the environment. Call godotenv.Load()
// first when a .env file is used. The returned value is not modified afterwards.
func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:3000")}
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", getEnv("PORT", "1337")),
			Environment:     env,
			AllowedOrigins:  allowedOrigins,
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Mongo: MongoConfig{
			URI:             getEnv("MONGODB_URI", getEnv("MONGO_URL", "mongodb://localhost:27017")),
			Database:        getEnv("MONGO_DATABASE", "SocialButterfly"),
			UsersCollection: getEnv("MONGO_USERS", "Users"),
		},
		Redis: RedisConfig{
			// EMAIL is the historical name of the mail queue URL.
			URI:      getEnv("REDIS_URI", getEnv("EMAIL", "redis://localhost:6379/0")),
			CacheTTL: getDurationEnv("REDIS_CACHE_TTL", 10*time.Minute),
		},
		Token: TokenConfig{
			Secret: getEnv("SERVER_TOKEN_SECRET", "superencryptedsecret"),
			Issuer: getEnv("SERVER_TOKEN_ISSUER", "coolIssuer"),
			TTL:    getDurationEnv("SERVER_TOKEN_EXPIRETIME", time.Hour),
		},
		Location: LocationConfig{
			URL:     getEnv("LOCATION_URL", "http://localhost:3001/validatelocation"),
			Timeout: getDurationEnv("LOCATION_TIMEOUT", 10*time.Second),
		},
		Mail: MailConfig{
			From: getEnv("MAIL_FROM", ""),
		},
		RateLimit: RateLimitConfig{
			Window:      getDurationEnv("RATE_LIMIT_WINDOW", 120*time.Second),
			MaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 25),
		},
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Server.Environment)) == "production"
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getDurationEnv reads a number of seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
