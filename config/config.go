package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/providers"
	"github.com/upb/travel-gateway/services/providers/googletranslate"
	"github.com/upb/travel-gateway/services/providers/libretranslate"
	"github.com/upb/travel-gateway/services/providers/nominatim"
	"github.com/upb/travel-gateway/services/providers/openweather"
	"github.com/upb/travel-gateway/services/providers/overpass"
	"github.com/upb/travel-gateway/services/providers/photon"
	"github.com/upb/travel-gateway/utils"
)

// Version is reported by the status endpoint; overridden at build time with -ldflags
var Version = "0.1.0"

// DefaultUserAgent identifies the gateway to upstreams (Nominatim requires one)
const DefaultUserAgent = "travel-gateway/0.1 (+https://github.com/upb/travel-gateway)"

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Database      *DatabaseConfig // Optional: nil disables the outcome audit trail
	Providers     map[string]ProviderConfig
	Chains        map[models.Operation][]string
	UserAgent     string
	Observability ObservabilityConfig
	Environment   string
	Version       string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
	TLS                struct {
		Enabled  bool
		CertFile string
		KeyFile  string
	}
}

// DatabaseConfig holds PostgreSQL configuration for the audit store
type DatabaseConfig struct {
	ConnectionString string // From DATABASE_URL
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ProviderConfig describes one named upstream
type ProviderConfig struct {
	Kind         providers.Kind
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	RateLimitRPS float64
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance: .env, defaults, optional chain file,
// environment overrides, then validation.
func New(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Version:     getEnv("SERVICE_VERSION", Version),
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               getPort(),
			ReadTimeout:        getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:       getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout:    getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:     getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 45*time.Second),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database:  loadDatabaseConfig(),
		Providers: DefaultProviders(),
		Chains:    DefaultChains(),
		UserAgent: getEnv("UPSTREAM_USER_AGENT", DefaultUserAgent),
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}
	cfg.Server.TLS.Enabled = getEnvAsBool("TLS_ENABLED", false)
	cfg.Server.TLS.CertFile = getEnv("TLS_CERT_FILE", "certs/cert.pem")
	cfg.Server.TLS.KeyFile = getEnv("TLS_KEY_FILE", "certs/key.pem")

	if path := getEnv("CHAINS_FILE", ""); path != "" {
		if err := cfg.loadChainFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyProviderEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultProviders returns the built-in upstream set
func DefaultProviders() map[string]ProviderConfig {
	return map[string]ProviderConfig{
		"libretranslate-argos": {Kind: providers.KindLibreTranslate, BaseURL: libretranslate.ArgosEndpoint, Timeout: 10 * time.Second},
		"libretranslate":       {Kind: providers.KindLibreTranslate, BaseURL: libretranslate.DefaultEndpoint, Timeout: 10 * time.Second},
		"google-translate":     {Kind: providers.KindGoogleGTX, BaseURL: googletranslate.DefaultEndpoint, Timeout: 8 * time.Second},
		"nominatim":            {Kind: providers.KindNominatim, BaseURL: nominatim.DefaultEndpoint, Timeout: 15 * time.Second, RateLimitRPS: 1},
		"photon":               {Kind: providers.KindPhoton, BaseURL: photon.DefaultEndpoint, Timeout: 10 * time.Second},
		"overpass":             {Kind: providers.KindOverpass, BaseURL: overpass.DefaultEndpoint, Timeout: 30 * time.Second},
		"overpass-kumi":        {Kind: providers.KindOverpass, BaseURL: overpass.KumiEndpoint, Timeout: 30 * time.Second},
		"openweathermap":       {Kind: providers.KindOpenWeatherMap, BaseURL: openweather.DefaultEndpoint, Timeout: 10 * time.Second},
	}
}

// DefaultChains returns the built-in priority order per operation
func DefaultChains() map[models.Operation][]string {
	return map[models.Operation][]string{
		models.OperationTranslate: {"libretranslate-argos", "libretranslate", "google-translate"},
		models.OperationGeocode:   {"nominatim", "photon"},
		models.OperationPOI:       {"overpass", "overpass-kumi"},
		models.OperationWeather:   {"openweathermap"},
	}
}

// applyProviderEnv overlays <NAME>_BASE_URL, <NAME>_TIMEOUT, <NAME>_RATE_LIMIT_RPS
// and <NAME>_API_KEY, plus the kind-wide API keys.
func (c *Config) applyProviderEnv() {
	kindKeys := map[providers.Kind]string{
		providers.KindOpenWeatherMap: getEnv(openweather.APIKeySetting, ""),
		providers.KindLibreTranslate: getEnv("LIBRETRANSLATE_API_KEY", ""),
	}

	for name, p := range c.Providers {
		prefix := EnvPrefix(name)
		p.BaseURL = getEnv(prefix+"_BASE_URL", p.BaseURL)
		p.Timeout = getEnvAsDuration(prefix+"_TIMEOUT", p.Timeout)
		p.RateLimitRPS = getEnvAsFloat(prefix+"_RATE_LIMIT_RPS", p.RateLimitRPS)
		if key := kindKeys[p.Kind]; key != "" {
			p.APIKey = key
		}
		p.APIKey = getEnv(prefix+"_API_KEY", p.APIKey)
		c.Providers[name] = p
	}
}

// EnvPrefix turns a provider name into its environment prefix ("overpass-kumi" → "OVERPASS_KUMI")
func EnvPrefix(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server request timeout must be positive")
	}

	if c.Database != nil && c.Database.ConnectionString == "" {
		return fmt.Errorf("database connection string is required when a database is configured")
	}

	for name, p := range c.Providers {
		if _, ok := p.Kind.Operation(); !ok {
			return fmt.Errorf("provider %s: %w: %q", name, providers.ErrKindNotSupported, p.Kind)
		}
		if p.Timeout <= 0 {
			return fmt.Errorf("provider %s: timeout must be positive", name)
		}
		if p.RateLimitRPS < 0 {
			return fmt.Errorf("provider %s: rate limit cannot be negative", name)
		}
		u, err := url.Parse(p.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("provider %s: base URL must be an absolute URL", name)
		}
	}

	for op, names := range c.Chains {
		if _, ok := models.ParseOperation(string(op)); !ok {
			return fmt.Errorf("chain for unknown operation %q", op)
		}
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			p, ok := c.Providers[name]
			if !ok {
				return fmt.Errorf("%s chain: unknown provider %q", op, name)
			}
			if served, _ := p.Kind.Operation(); served != op {
				return fmt.Errorf("%s chain: provider %q of kind %s serves %s", op, name, p.Kind, served)
			}
			if seen[name] {
				return fmt.Errorf("%s chain: provider %q listed twice", op, name)
			}
			seen[name] = true
		}
	}
	for _, op := range models.Operations() {
		if op == models.OperationPOI {
			continue
		}
		if len(c.Chains[op]) == 0 {
			return fmt.Errorf("%s chain must list at least one provider", op)
		}
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	if err := utils.ValidateOneOf(c.Observability.LogFormat, "LOG_FORMAT", []string{"json", "console"}); err != nil {
		return err
	}

	return nil
}

// ProviderNames returns every configured provider name, sorted
func (c *Config) ProviderNames() []string {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return c.ConnectionString
}

// LogString returns a safe string for logging (no password)
func (c *DatabaseConfig) LogString() string {
	u, err := url.Parse(c.ConnectionString)
	if err != nil || u.Host == "" {
		return "host=<from DATABASE_URL>"
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	db := strings.TrimPrefix(u.Path, "/")
	return fmt.Sprintf("host=%s port=%s database=%s", u.Hostname(), port, db)
}

// loadDatabaseConfig returns nil when DATABASE_URL is unset
func loadDatabaseConfig() *DatabaseConfig {
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil
	}
	return &DatabaseConfig{
		ConnectionString: dbURL,
		MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated value, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
