package config

import (
	"fmt"
	"time"

	"appraisells-auction/internal/auctionclock"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	App      AppConfig
	Auction  AuctionConfig
	Store    StoreConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
	Payments PaymentsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"appraisells-auction"`
	Environment string `envconfig:"APP_ENV" default:"production"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

// AuctionConfig describes the single running auction.
type AuctionConfig struct {
	ID    string    `envconfig:"AUCTION_ID" default:"auction-1"`
	Name  string    `envconfig:"AUCTION_NAME" default:"Auction 1"`
	Start time.Time `envconfig:"AUCTION_START" default:"2025-08-18T00:00:00Z"`
	End   time.Time `envconfig:"AUCTION_END" default:"2025-08-25T23:59:59Z"`
	Items []string  `envconfig:"AUCTION_ITEMS" default:"item1,item2,item3,item4,item5"`
}

// StoreConfig selects and configures the durable store.
type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"sqlite"` // sqlite, mysql or memory
	Path   string `envconfig:"SQLITE_PATH" default:"./data/auction.db"`

	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	Name     string `envconfig:"DB_NAME" default:"appraisells_db"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASS" default:""`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// RedisConfig enables the distributed locker when URL is set. LockTTL must
// exceed the gateway timeout plus the commit margin.
type RedisConfig struct {
	URL     string        `envconfig:"REDIS_URL" default:""`
	LockTTL time.Duration `envconfig:"REDIS_LOCK_TTL" default:"30s"`
}

// GatewayConfig holds payment gateway settings.
type GatewayConfig struct {
	BaseURL string        `envconfig:"PI_API_URL" default:"https://api.minepi.com"`
	APIKey  string        `envconfig:"PI_API_KEY" default:""`
	Timeout time.Duration `envconfig:"PI_API_TIMEOUT" default:"10s"`
}

// PaymentsConfig holds the fixed payment and subscription windows.
type PaymentsConfig struct {
	PaymentWindow        time.Duration `envconfig:"AUCTION_PAYMENT_WINDOW" default:"24h"`
	SubscriptionDuration time.Duration `envconfig:"SUBSCRIPTION_DURATION" default:"720h"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MySQLDSN returns the MySQL data source name.
func (s *StoreConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&charset=utf8mb4&clientFoundRows=true",
		s.User, s.Password, s.Host, s.Port, s.Name)
}

// SQLiteDSN returns the SQLite data source name with WAL enabled.
func (s *StoreConfig) SQLiteDSN() string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite", s.Path)
}

// Auction builds the auction definition used by the clock.
func (a *AuctionConfig) Auction() auctionclock.Auction {
	return auctionclock.Auction{
		ID:    a.ID,
		Name:  a.Name,
		Start: a.Start.UTC(),
		End:   a.End.UTC(),
		Items: append([]string(nil), a.Items...),
	}
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	if !c.Auction.End.After(c.Auction.Start) {
		return fmt.Errorf("AUCTION_END %s must be after AUCTION_START %s", c.Auction.End, c.Auction.Start)
	}
	if len(c.Auction.Items) == 0 {
		return fmt.Errorf("AUCTION_ITEMS must list at least one item")
	}
	switch c.Store.Driver {
	case "sqlite", "mysql", "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Payments.PaymentWindow <= 0 || c.Payments.SubscriptionDuration <= 0 {
		return fmt.Errorf("payment window and subscription duration must be positive")
	}
	// redis locks are not renewed: a payment lock must outlive one gateway
	// call plus the local commit
	if c.Redis.URL != "" && c.Redis.LockTTL < c.Gateway.Timeout+lockCommitMargin {
		return fmt.Errorf("REDIS_LOCK_TTL %s must be at least PI_API_TIMEOUT %s plus %s",
			c.Redis.LockTTL, c.Gateway.Timeout, lockCommitMargin)
	}
	return nil
}

// lockCommitMargin is the time reserved for the local commit after a gateway call.
const lockCommitMargin = 5 * time.Second
