package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the runtime configuration of the storefront.
type Config struct {
	Port string

	AtlanticBase    string
	AtlanticKey     string
	ProfitPercent   float64
	UpstreamTimeout time.Duration

	PriceListType  string
	PriceListTTL   time.Duration
	DepositMinimum float64
	OrderTTL       time.Duration

	OrderStore  string // file, sqlite or postgres
	OrdersFile  string
	DatabaseDSN string

	RabbitMQURL string
	AllowedIPs  []string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string

	TracingEndpoint    string
	TracingSampleRatio float64
	ServiceName        string
	Environment        string
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("ATLANTIC_BASE", "https://atlantich2h.com")
	v.SetDefault("ATLANTIC_KEY", "")
	v.SetDefault("ATLANTIC_PROFIT", 10)
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")
	v.SetDefault("PRICE_LIST_TYPE", "prabayar")
	v.SetDefault("PRICE_LIST_TTL", "1m")
	v.SetDefault("DEPOSIT_MINIMUM", 500)
	v.SetDefault("ORDER_TTL", "1h")
	v.SetDefault("ORDER_STORE", "file")
	v.SetDefault("ORDERS_FILE", "tmp/orders.json")
	v.SetDefault("DATABASE_DSN", "tmp/orders.db")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("ALLOWED_IPS", "")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("TRACING_ENDPOINT", "")
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
	v.SetDefault("SERVICE_NAME", "tokotopup")
	v.SetDefault("APP_ENV", "development")
}

// Load reads an optional .env file and then the environment.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		Port:               v.GetString("PORT"),
		AtlanticBase:       strings.TrimRight(v.GetString("ATLANTIC_BASE"), "/"),
		AtlanticKey:        v.GetString("ATLANTIC_KEY"),
		ProfitPercent:      v.GetFloat64("ATLANTIC_PROFIT"),
		UpstreamTimeout:    v.GetDuration("UPSTREAM_TIMEOUT"),
		PriceListType:      v.GetString("PRICE_LIST_TYPE"),
		PriceListTTL:       v.GetDuration("PRICE_LIST_TTL"),
		DepositMinimum:     v.GetFloat64("DEPOSIT_MINIMUM"),
		OrderTTL:           v.GetDuration("ORDER_TTL"),
		OrderStore:         strings.ToLower(v.GetString("ORDER_STORE")),
		OrdersFile:         v.GetString("ORDERS_FILE"),
		DatabaseDSN:        v.GetString("DATABASE_DSN"),
		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		AllowedIPs:         splitList(v.GetString("ALLOWED_IPS")),
		JWTSecret:          v.GetString("JWT_SECRET"),
		AdminUsername:      v.GetString("ADMIN_USERNAME"),
		AdminPasswordHash:  v.GetString("ADMIN_PASSWORD_HASH"),
		TracingEndpoint:    v.GetString("TRACING_ENDPOINT"),
		TracingSampleRatio: v.GetFloat64("TRACING_SAMPLE_RATIO"),
		ServiceName:        v.GetString("SERVICE_NAME"),
		Environment:        v.GetString("APP_ENV"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
