package config

import (
	"bufio"
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config centralises runtime configuration. It is built once at process start
// and handed to constructors by value; core logic never reads the environment.
type Config struct {
	HTTPPort                string
	Environment             string
	DatabaseURL             string
	JWTSecret               string
	JWTIssuer               string
	JWTExpiry               time.Duration
	EmailVerificationSecret string
	EmailTokenExpiry        time.Duration
	CookieMaxAge            time.Duration
	FrontendURL             string
	SMTPAddr                string
	SMTPUsername            string
	SMTPPassword            string
	MailFrom                string
	AllowedOrigins          []string
	ReadTimeoutSec          int
	WriteTimeoutSec         int
	IdleTimeoutSec          int
}

// CookieSecure reports whether session cookies should carry the Secure flag.
func (c Config) CookieSecure() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment variables providing sane defaults.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	httpPort := getEnv("HTTP_PORT", "")
	if httpPort == "" {
		httpPort = getEnv("PORT", "8080")
	}

	cfg := Config{
		HTTPPort:                httpPort,
		Environment:             getEnv("APP_ENV", getEnv("NODE_ENV", "development")),
		DatabaseURL:             resolveDatabaseURL(),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		JWTIssuer:               getEnv("JWT_ISSUER", "fleetops"),
		JWTExpiry:               getDurationEnv("JWT_EXPIRY", 7*24*time.Hour),
		EmailVerificationSecret: getEnv("EMAIL_VERIFICATION_SECRET", ""),
		EmailTokenExpiry:        getDurationEnv("EMAIL_TOKEN_EXPIRY", 24*time.Hour),
		CookieMaxAge:            getDurationEnv("COOKIE_MAX_AGE", 24*time.Hour),
		FrontendURL:             getEnv("FRONTEND_URL", "http://localhost:3000"),
		SMTPAddr:                getEnv("SMTP_ADDR", "localhost:25"),
		SMTPUsername:            getEnv("SMTP_USERNAME", ""),
		SMTPPassword:            getEnv("SMTP_PASSWORD", ""),
		MailFrom:                getEnv("MAIL_FROM", "noreply@example.com"),
		AllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeoutSec:          getIntEnv("HTTP_READ_TIMEOUT", 15),
		WriteTimeoutSec:         getIntEnv("HTTP_WRITE_TIMEOUT", 15),
		IdleTimeoutSec:          getIntEnv("HTTP_IDLE_TIMEOUT", 60),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database configuration missing: provide DATABASE_URL or PG* env vars")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.EmailVerificationSecret == "" {
		return Config{}, fmt.Errorf("EMAIL_VERIFICATION_SECRET is required")
	}
	// A leaked verification secret must never allow minting session tokens.
	if cfg.EmailVerificationSecret == cfg.JWTSecret {
		return Config{}, fmt.Errorf("EMAIL_VERIFICATION_SECRET must differ from JWT_SECRET")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := []string{}
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return []string{"*"}
	}
	return parts
}

func resolveDatabaseURL() string {
	for _, key := range []string{
		"DATABASE_URL",
		"DATABASE_PUBLIC_URL",
		"POSTGRES_URL",
		"PGURL",
	} {
		if url := os.Getenv(key); url != "" {
			if coerced := coerceDatabaseURL(url); coerced != "" {
				return coerced
			}
		}
	}

	host := firstNonEmpty(
		os.Getenv("PGHOST"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("DATABASE_HOST"),
	)
	user := firstNonEmpty(
		os.Getenv("PGUSER"),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("DATABASE_USER"),
	)
	password := firstNonEmpty(
		os.Getenv("PGPASSWORD"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("DATABASE_PASSWORD"),
	)
	database := firstNonEmpty(
		os.Getenv("PGDATABASE"),
		os.Getenv("POSTGRES_DB"),
		os.Getenv("DATABASE_NAME"),
	)
	port := firstNonEmpty(
		os.Getenv("PGPORT"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("DATABASE_PORT"),
	)
	if port == "" {
		port = "5432"
	}
	sslMode := firstNonEmpty(
		os.Getenv("PGSSLMODE"),
		os.Getenv("POSTGRES_SSL_MODE"),
		"require",
	)

	if host == "" || user == "" {
		return ""
	}
	if database == "" {
		database = firstNonEmpty(user, "postgres")
	}

	dsn := &neturl.URL{
		Scheme: "postgres",
		Path:   "/" + database,
	}
	dsn.Host = net.JoinHostPort(host, port)
	dsn.User = neturl.User(user)
	if password != "" {
		dsn.User = neturl.UserPassword(user, password)
	}

	query := dsn.Query()
	if sslMode != "" && query.Get("sslmode") == "" {
		query.Set("sslmode", sslMode)
	}
	dsn.RawQuery = query.Encode()

	return normalisePostgresScheme(dsn.String())
}

func normalisePostgresScheme(url string) string {
	if strings.HasPrefix(url, "postgresql://") {
		return "postgres://" + strings.TrimPrefix(url, "postgresql://")
	}
	return url
}

func coerceDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return normalisePostgresScheme(raw)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func loadDotEnv(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf(".env line %d: missing '='", lineNum)
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "" {
			return fmt.Errorf(".env line %d: empty key", lineNum)
		}

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf(".env line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}
