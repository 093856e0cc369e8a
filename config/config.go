package config

import (
	"ashtray_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load reads the configuration from the environment without caching it.
func Load() *structs.Config {
	env := getEnvAsString("APP_ENV", "development")
	production := env == "production"

	defaultLevel := "debug"
	if production {
		defaultLevel = "info"
	}

	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:         getEnvAsString("APP_NAME", "Ashtray"),
			Environment:     env,
			Port:            getEnvAsString("APP_PORT", ":8082"),
			LogLevel:        getEnvAsString("LOG_LEVEL", defaultLevel),
			ReadTimeout:     getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
			IdleTimeout:     getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			ShutdownTimeout: getEnvAsTimeDuration("SERVER_SHUTDOWN_TIME_OUT", 10*time.Second),
			MaxHeaderBytes:  getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
		},
		Cors: &structs.CorsConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-CSRF-Token"}),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
		},
		Database: &structs.DatabaseConfig{
			Driver:             getEnvAsString("DB_DRIVER", "pgdriver"),
			Host:               getEnvAsString("DB_HOST", "localhost"),
			Port:               getEnvAsInt("DB_PORT", 5432),
			User:               getEnvAsString("DB_USER", "postgres"),
			Password:           getEnvAsString("DB_PASSWORD", "password"),
			Name:               getEnvAsString("DB_NAME", "ashtray_db"),
			SSLMode:            getEnvAsString("DB_SSLMODE", "disable"),
			MaxConns:           getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:           getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:        getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:        getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			ReadTimeout:        getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:       getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
			SlowQueryThreshold: getEnvAsTimeDuration("DB_SLOW_QUERY_THRESHOLD", time.Second),
			AutoMigrate:        getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Cache: &structs.CacheConfig{
			Enabled:      getEnvAsBool("CACHE_ENABLED", false),
			Address:      getEnvAsString("CACHE_ADDRESS", "localhost:6379"),
			Password:     getEnvAsString("CACHE_PASSWORD", ""),
			DB:           getEnvAsInt("CACHE_DB", 0),
			PoolSize:     getEnvAsInt("CACHE_POOL_SIZE", 10),
			DialTimeout:  getEnvAsTimeDuration("CACHE_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsTimeDuration("CACHE_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsTimeDuration("CACHE_WRITE_TIMEOUT", 3*time.Second),
			MaxRetries:   getEnvAsInt("CACHE_MAX_RETRIES", 3),
			ProductTTL:   getEnvAsTimeDuration("CACHE_PRODUCT_TTL", 5*time.Minute),
		},
		Auth: &structs.AuthConfig{
			AccessTokenSecret: getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", "default_access_secret"),
			AccessTokenExpiry: getEnvAsTimeDuration("AUTH_ACCESS_TOKEN_EXPIRY", 8*time.Hour),
			AdminEmail:        getEnvAsString("ADMIN_EMAIL", ""),
			AdminPassword:     getEnvAsString("ADMIN_PASSWORD", ""),
		},
		Cookies: &structs.CookieConfig{
			Domain:       getEnvAsString("COOKIE_DOMAIN", ""),
			Secure:       getEnvAsBool("COOKIE_SECURE", production),
			CartMaxAge:   getEnvAsTimeDuration("CART_COOKIE_MAX_AGE", 30*24*time.Hour),
			DeviceMaxAge: getEnvAsTimeDuration("DEVICE_COOKIE_MAX_AGE", 365*24*time.Hour),
		},
		Stripe: &structs.StripeConfig{
			PublishableKey:    getEnvAsString("STRIPE_PUBLISHABLE_KEY", ""),
			SecretKey:         getEnvAsString("STRIPE_SECRET_KEY", ""),
			WebhookSecret:     getEnvAsString("STRIPE_WEBHOOK_SECRET", ""),
			APIBaseURL:        getEnvAsString("STRIPE_API_BASE_URL", ""),
			Currency:          getEnvAsString("STRIPE_CURRENCY", "usd"),
			Timeout:           getEnvAsTimeDuration("STRIPE_TIMEOUT", 10*time.Second),
			DefaultSuccessURL: getEnvAsString("STRIPE_SUCCESS_URL", "http://localhost:3000/checkout-success"),
			DefaultCancelURL:  getEnvAsString("STRIPE_CANCEL_URL", "http://localhost:3000/cart"),
			PlaceholderImage:  getEnvAsString("STRIPE_PLACEHOLDER_IMAGE", "https://placehold.co/400x300?text=Product+Image"),
		},
		Email: &structs.EmailConfig{
			ApiKey: getEnvAsString("RESEND_API_KEY", ""),
			From:   getEnvAsString("EMAIL_FROM", "Ashtray <orders@example.com>"),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", false),
			GeneralLimit:  getEnvAsInt("RATE_LIMIT_GENERAL", 120),
			GeneralWindow: getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
			AuthLimit:     getEnvAsInt("RATE_LIMIT_AUTH", 10),
			AuthWindow:    getEnvAsTimeDuration("RATE_LIMIT_AUTH_WINDOW", 15*time.Minute),
		},
	}
}

func GetLogLevel() string {
	return GetConfig().Server.LogLevel
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
