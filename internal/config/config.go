package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/analytics"
)

// Config is the runtime configuration shared by the api and worker binaries.
type Config struct {
	RunLocal bool
	Port     string `validate:"required"`

	OrdersTable    string `validate:"required"`
	CustomersTable string `validate:"required"`
	InventoryTable string `validate:"required"`
	RunsTable      string `validate:"required"`
	RunTTL         time.Duration

	AlertsQueueURL   string
	MetricsNamespace string `validate:"required"`

	// RedisURL is optional; without it reports are not cached.
	RedisURL string `validate:"omitempty,url"`

	// AdminJWTSecret verifies admin bearer tokens; without it every admin route answers 401.
	AdminJWTSecret string
	AdminRole      string `validate:"required"`

	Analytics Analytics
}

// Analytics holds the business knobs of the metrics engines. It can be overridden from the YAML
// file named by ANALYTICS_CONFIG_FILE.
type Analytics struct {
	DefaultPeriod string                   `yaml:"default_period" validate:"oneof=day week month year"`
	VIPThreshold  float64                  `yaml:"vip_threshold" validate:"gte=0"`
	ActiveWindow  time.Duration            `yaml:"active_window" validate:"gte=0"`
	NewWindow     time.Duration            `yaml:"new_window" validate:"gte=0"`
	CLV           analytics.CLVAssumptions `yaml:"clv"`
	TopItems      int                      `yaml:"top_items" validate:"gte=0,lte=100"`
	PopularItems  int                      `yaml:"popular_items" validate:"gte=0,lte=100"`
	// RevenueTarget enables the milestone alert when positive.
	RevenueTarget float64       `yaml:"revenue_target" validate:"gte=0"`
	CacheTTL      time.Duration `yaml:"cache_ttl" validate:"gte=0"`
}

// DefaultAnalytics mirrors the engines' defaults.
func DefaultAnalytics() Analytics {
	return Analytics{
		DefaultPeriod: "week",
		VIPThreshold:  analytics.DefaultVIPThreshold,
		ActiveWindow:  analytics.DefaultActiveWindow,
		NewWindow:     analytics.DefaultNewWindow,
		CLV:           analytics.DefaultCLVAssumptions(),
		TopItems:      analytics.DefaultTopItems,
		PopularItems:  analytics.DefaultPopularItems,
		CacheTTL:      5 * time.Minute,
	}
}

// ReportOptions converts the analytics section into engine options.
func (a Analytics) ReportOptions() analytics.ReportOptions {
	return analytics.ReportOptions{
		Customer: analytics.CustomerOptions{
			VIPThreshold: a.VIPThreshold,
			ActiveWindow: a.ActiveWindow,
			NewWindow:    a.NewWindow,
			CLV:          a.CLV,
		},
		TopItems:     a.TopItems,
		PopularItems: a.PopularItems,
	}
}

// Load reads .env (if present), the environment and the optional analytics YAML file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("[config] loaded .env")
	}

	cfg := &Config{
		RunLocal:         os.Getenv("RUN_LOCAL") == "true",
		Port:             getEnv("PORT", "8080"),
		OrdersTable:      getEnv("ORDERS_TABLE", "Orders"),
		CustomersTable:   getEnv("CUSTOMERS_TABLE", "Customers"),
		InventoryTable:   getEnv("INVENTORY_TABLE", "Inventory"),
		RunsTable:        getEnv("RUNS_TABLE", "ReportRuns"),
		AlertsQueueURL:   os.Getenv("ALERTS_QUEUE_URL"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "Restaurant/Reports"),
		RedisURL:         os.Getenv("REDIS_URL"),
		AdminJWTSecret:   os.Getenv("ADMIN_JWT_SECRET"),
		AdminRole:        getEnv("ADMIN_JWT_ROLE", "admin"),
		Analytics:        DefaultAnalytics(),
	}

	ttl, err := time.ParseDuration(getEnv("RUN_TTL", "48h"))
	if err != nil {
		return nil, fmt.Errorf("parse RUN_TTL: %w", err)
	}
	cfg.RunTTL = ttl

	if path := os.Getenv("ANALYTICS_CONFIG_FILE"); path != "" {
		if err := cfg.Analytics.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv("REVENUE_TARGET"); v != "" {
		target, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse REVENUE_TARGET: %w", err)
		}
		cfg.Analytics.RevenueTarget = target
	}

	if err := validatorv10.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto a. Keys missing from the file keep their value.
func (a *Analytics) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read analytics config: %w", err)
	}
	if err := yaml.Unmarshal(raw, a); err != nil {
		return fmt.Errorf("decode analytics config %s: %w", path, err)
	}
	log.Printf("[config] analytics overrides loaded from %s", path)
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
