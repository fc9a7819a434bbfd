package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by MustLoad.
const EnvPrefix = "WAYPOINT"

// MinPaletteSize is the smallest accepted route palette.
const MinPaletteSize = 9

// Config holds the configuration settings for the results view service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the API, health and metrics server.
// - Optimizer: Where result sets come from.
// - Render: Cost rates, viewport padding and colours.
// - Redis: Optional optimizer response cache.
type Config struct {
	Env       string          // Env is the current environment: local, development, production.
	Port      int             // Port is the API server port.
	Optimizer OptimizerConfig // Optimizer holds the result source configuration.
	Render    RenderConfig    // Render holds the display configuration.
	Redis     RedisConfig     // Redis holds the cache configuration.
}

// OptimizerConfig selects and configures the result provider.
type OptimizerConfig struct {
	ProviderType string        // http or file.
	URL          string        // Remote optimizer base URL.
	APIKey       string        // Optional bearer key.
	ResultFile   string        // Result set path for the file provider.
	RateLimit    int           // Optimizer requests per second.
	Timeout      time.Duration // Per-request timeout.
}

// RenderConfig configures metrics and the render model.
type RenderConfig struct {
	FuelRatePerKm  float64  // Fuel cost per kilometre.
	TotalRatePerKm float64  // Operating cost per kilometre.
	BoundsPadding  float64  // Viewport padding fraction.
	Palette        []string // Route colours in assignment order.
	Currency       string   // Currency symbol for cost figures.
}

// RedisConfig holds the connection details for the optimizer response cache.
type RedisConfig struct {
	Addr     string        // Empty disables caching.
	Password string        // Redis password.
	DB       int           // Redis database number.
	TTL      time.Duration // Cache entry lifetime.
}

// MustLoad reads the configuration from the environment (and a .env file when present).
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	vpr := viper.New()
	vpr.SetEnvPrefix(EnvPrefix)
	vpr.AutomaticEnv()
	setDefaults(vpr)

	port := mustInt(vpr, "http_port", "failed to parse port for API server from configuration")
	rateLimit := mustInt(vpr, "rate_limit", "failed to parse rate limit from configuration, must be an integer")
	redisDB := mustInt(vpr, "redis_db", "failed to parse redis db from configuration, must be an integer")
	timeout := mustDuration(vpr, "request_timeout", "failed to parse request timeout from configuration")
	ttl := mustDuration(vpr, "cache_ttl", "failed to parse cache ttl from configuration")
	fuelRate := mustFloat(vpr, "fuel_rate_per_km", "failed to parse fuel rate from configuration")
	totalRate := mustFloat(vpr, "total_rate_per_km", "failed to parse total rate from configuration")
	padding := mustFloat(vpr, "bounds_padding", "failed to parse bounds padding from configuration")

	palette := splitList(vpr.GetString("palette"))
	if len(palette) < MinPaletteSize {
		panic("palette must contain at least 9 colours")
	}

	return &Config{
		Env:  vpr.GetString("env"),
		Port: port,
		Optimizer: OptimizerConfig{
			ProviderType: vpr.GetString("provider_type"),
			URL:          vpr.GetString("optimizer_url"),
			APIKey:       vpr.GetString("optimizer_key"),
			ResultFile:   vpr.GetString("result_file"),
			RateLimit:    rateLimit,
			Timeout:      timeout,
		},
		Render: RenderConfig{
			FuelRatePerKm:  fuelRate,
			TotalRatePerKm: totalRate,
			BoundsPadding:  padding,
			Palette:        palette,
			Currency:       vpr.GetString("currency"),
		},
		Redis: RedisConfig{
			Addr:     vpr.GetString("redis_addr"),
			Password: vpr.GetString("redis_password"),
			DB:       redisDB,
			TTL:      ttl,
		},
	}
}

func setDefaults(vpr *viper.Viper) {
	vpr.SetDefault("env", "production")
	vpr.SetDefault("http_port", "8080")
	vpr.SetDefault("provider_type", "http")
	vpr.SetDefault("optimizer_url", "http://localhost:5000")
	vpr.SetDefault("optimizer_key", "")
	vpr.SetDefault("result_file", "")
	vpr.SetDefault("rate_limit", "5")
	vpr.SetDefault("request_timeout", "30s")
	vpr.SetDefault("fuel_rate_per_km", "10")
	vpr.SetDefault("total_rate_per_km", "13")
	vpr.SetDefault("bounds_padding", "0.08")
	vpr.SetDefault("palette", "blue,green,purple,orange,red,cyan,pink,yellow,brown")
	vpr.SetDefault("currency", "₹")
	vpr.SetDefault("redis_addr", "")
	vpr.SetDefault("redis_password", "")
	vpr.SetDefault("redis_db", "0")
	vpr.SetDefault("cache_ttl", "10m")
}
