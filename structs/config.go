package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Cache     *CacheConfig
	Auth      *AuthConfig
	Cookies   *CookieConfig
	Stripe    *StripeConfig
	Email     *EmailConfig
	RateLimit *RateLimitConfig
}

type ServerConfig struct {
	AppName         string        // Ashtray
	Environment     string        // development, production
	Port            string        // :8082
	LogLevel        string        // debug, info, warn, error
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Driver             string // pgdriver or pgx
	Host               string
	Port               int
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConns           int
	MinConns           int
	MaxLifetime        time.Duration
	MaxIdleTime        time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	SlowQueryThreshold time.Duration
	AutoMigrate        bool
}

type CacheConfig struct {
	Enabled      bool
	Address      string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxRetries   int
	ProductTTL   time.Duration
}

type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	AdminEmail        string
	AdminPassword     string
}

type CookieConfig struct {
	Domain       string
	Secure       bool
	CartMaxAge   time.Duration
	DeviceMaxAge time.Duration
}

type StripeConfig struct {
	PublishableKey    string
	SecretKey         string
	WebhookSecret     string
	APIBaseURL        string // empty means the processor default
	Currency          string
	Timeout           time.Duration
	DefaultSuccessURL string
	DefaultCancelURL  string
	PlaceholderImage  string
}

type EmailConfig struct {
	ApiKey string
	From   string
}

type RateLimitConfig struct {
	Enabled       bool
	GeneralLimit  int
	GeneralWindow time.Duration
	AuthLimit     int
	AuthWindow    time.Duration
}
