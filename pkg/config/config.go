package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	Search    SearchConfig
	OpenAI    OpenAIConfig
	Map       MapConfig
	Geocoder  GeocoderConfig
	Session   SessionConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host        string
	Port        int
	Environment string
	LogLevel    string

	// AllowedOrigins is the CORS allow list; empty allows every origin.
	AllowedOrigins []string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// SearchConfig selects the search collaborator
type SearchConfig struct {
	// Provider is one of openai, typesense or seed.
	Provider        string
	CacheTTLSeconds int
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	RateLimitRPM   int
	RateLimitBurst int
	Timeout        time.Duration
}

// MapConfig holds basemap and viewport configuration
type MapConfig struct {
	// Backend is one of leaflet or google.
	Backend               string
	APIKey                string
	MapID                 string
	TileURL               string
	Attribution           string
	Clustering            bool
	ClusterRadiusPx       float64
	DefaultLat            float64
	DefaultLng            float64
	DefaultZoom           int
	UserZoom              int
	ResultMinZoom         int
	MaxZoom               int
	ViewportWidth         int
	ViewportHeight        int
	BoundsPadding         float64
	WelcomePolicy         string
	StaticCacheTTLSeconds int
}

// GeocoderConfig holds the pseudo-geocoder base coordinate
type GeocoderConfig struct {
	BaseLat     float64
	BaseLng     float64
	Concurrency int
}

// SessionConfig holds page-view session settings
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
	InitialCity   string
	ListLocale    string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

const (
	MapBackendLeaflet = "leaflet"
	MapBackendGoogle  = "google"

	SearchProviderOpenAI    = "openai"
	SearchProviderTypesense = "typesense"
	SearchProviderSeed      = "seed"

	WelcomePolicySticky        = "sticky"
	WelcomePolicyReshowOnEmpty = "reshow_on_empty"
)

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Environment:    getEnv("APP_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Search: SearchConfig{
			Provider:        strings.ToLower(getEnv("SEARCH_PROVIDER", SearchProviderOpenAI)),
			CacheTTLSeconds: getEnvAsInt("SEARCH_CACHE_TTL", 0),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
			Timeout:        getEnvAsDuration("OPENAI_TIMEOUT", 30*time.Second),
		},
		Map: MapConfig{
			Backend:               strings.ToLower(getEnv("MAP_BACKEND", MapBackendLeaflet)),
			APIKey:                getEnv("MAP_API_KEY", ""),
			MapID:                 getEnv("MAP_ID", ""),
			TileURL:               getEnv("MAP_TILE_URL", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"),
			Attribution:           getEnv("MAP_ATTRIBUTION", `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`),
			Clustering:            getEnvAsBool("MAP_CLUSTERING", true),
			ClusterRadiusPx:       getEnvAsFloat("MAP_CLUSTER_RADIUS_PX", 60),
			DefaultLat:            getEnvAsFloat("MAP_DEFAULT_LAT", 20.5937),
			DefaultLng:            getEnvAsFloat("MAP_DEFAULT_LNG", 78.9629),
			DefaultZoom:           getEnvAsInt("MAP_DEFAULT_ZOOM", 5),
			UserZoom:              getEnvAsInt("MAP_USER_ZOOM", 12),
			ResultMinZoom:         getEnvAsInt("MAP_RESULT_MIN_ZOOM", 6),
			MaxZoom:               getEnvAsInt("MAP_MAX_ZOOM", 15),
			ViewportWidth:         getEnvAsInt("MAP_VIEWPORT_WIDTH", 640),
			ViewportHeight:        getEnvAsInt("MAP_VIEWPORT_HEIGHT", 360),
			BoundsPadding:         getEnvAsFloat("MAP_BOUNDS_PADDING", 0.5),
			WelcomePolicy:         strings.ToLower(getEnv("WELCOME_POLICY", WelcomePolicySticky)),
			StaticCacheTTLSeconds: getEnvAsInt("MAP_STATIC_CACHE_TTL", 60*60*24),
		},
		Geocoder: GeocoderConfig{
			BaseLat:     getEnvAsFloat("GEOCODER_BASE_LAT", 34.0522),
			BaseLng:     getEnvAsFloat("GEOCODER_BASE_LNG", -118.2437),
			Concurrency: getEnvAsInt("GEOCODER_CONCURRENCY", 8),
		},
		Session: SessionConfig{
			TTL:           getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Minute),
			InitialCity:   getEnv("SESSION_INITIAL_CITY", ""),
			ListLocale:    getEnv("LIST_LOCALE", "en"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "localpulse"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown enum values and impossible viewport settings
func (c *Config) Validate() error {
	switch c.Map.Backend {
	case MapBackendLeaflet, MapBackendGoogle:
	default:
		return fmt.Errorf("unsupported MAP_BACKEND %q", c.Map.Backend)
	}

	switch c.Search.Provider {
	case SearchProviderOpenAI, SearchProviderTypesense, SearchProviderSeed:
	default:
		return fmt.Errorf("unsupported SEARCH_PROVIDER %q", c.Search.Provider)
	}

	switch c.Map.WelcomePolicy {
	case WelcomePolicySticky, WelcomePolicyReshowOnEmpty:
	default:
		return fmt.Errorf("unsupported WELCOME_POLICY %q", c.Map.WelcomePolicy)
	}

	if c.Map.ResultMinZoom <= c.Map.DefaultZoom {
		return fmt.Errorf("MAP_RESULT_MIN_ZOOM (%d) must be tighter than MAP_DEFAULT_ZOOM (%d)", c.Map.ResultMinZoom, c.Map.DefaultZoom)
	}
	if c.Map.MaxZoom < c.Map.ResultMinZoom {
		return fmt.Errorf("MAP_MAX_ZOOM (%d) must not be below MAP_RESULT_MIN_ZOOM (%d)", c.Map.MaxZoom, c.Map.ResultMinZoom)
	}
	if c.Map.ViewportWidth <= 0 || c.Map.ViewportHeight <= 0 {
		return fmt.Errorf("map viewport must be positive, got %dx%d", c.Map.ViewportWidth, c.Map.ViewportHeight)
	}
	return nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
