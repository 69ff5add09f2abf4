package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr string

	ShopDomain     string
	AccessToken    string
	APIKey         string
	APISecret      string
	APIVersion     string
	RequestTimeout time.Duration
	LaunchMaxAge   time.Duration

	BadgeKey          string
	BadgeFormat       string
	RedirectOnSuccess bool

	DevMode  bool
	LogLevel string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; real environment values win.
func Load() (Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("SHOPIFY_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SHOPIFY_TIMEOUT: %w", err)
	}

	launchMaxAge, err := time.ParseDuration(getEnv("SHOPIFY_LAUNCH_MAX_AGE", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SHOPIFY_LAUNCH_MAX_AGE: %w", err)
	}

	cfg := Config{
		Addr:              getEnv("APP_ADDR", ":8080"),
		ShopDomain:        strings.TrimSpace(os.Getenv("SHOPIFY_SHOP_DOMAIN")),
		AccessToken:       strings.TrimSpace(os.Getenv("SHOPIFY_ACCESS_TOKEN")),
		APIKey:            strings.TrimSpace(os.Getenv("SHOPIFY_API_KEY")),
		APISecret:         strings.TrimSpace(os.Getenv("SHOPIFY_API_SECRET")),
		APIVersion:        getEnv("SHOPIFY_API_VERSION", "2025-10"),
		RequestTimeout:    timeout,
		LaunchMaxAge:      launchMaxAge,
		BadgeKey:          getEnv("BADGE_METAFIELD_KEY", "app_badges"),
		BadgeFormat:       strings.ToLower(getEnv("BADGE_METAFIELD_FORMAT", "list")),
		RedirectOnSuccess: getBool("BADGE_REDIRECT_ON_SUCCESS"),
		DevMode:           getBool("DEV_MODE"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	if c.ShopDomain == "" {
		missing = append(missing, "SHOPIFY_SHOP_DOMAIN")
	}
	if c.AccessToken == "" {
		missing = append(missing, "SHOPIFY_ACCESS_TOKEN")
	}
	if !c.DevMode {
		if c.APIKey == "" {
			missing = append(missing, "SHOPIFY_API_KEY")
		}
		if c.APISecret == "" {
			missing = append(missing, "SHOPIFY_API_SECRET")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.BadgeFormat != "list" && c.BadgeFormat != "single" {
		return fmt.Errorf("BADGE_METAFIELD_FORMAT must be list or single, got %q", c.BadgeFormat)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
