package config

import "time"

type Config struct {
	App          AppConfig          `mapstructure:"app"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Queue        QueueConfig        `mapstructure:"queue"`
	OpenAI       OpenAIConfig       `mapstructure:"openai"`
	Menu         MenuConfig         `mapstructure:"menu"`
	Order        OrderConfig        `mapstructure:"order"`
	Printer      PrinterConfig      `mapstructure:"printer"`
	Twilio       TwilioConfig       `mapstructure:"twilio"`
	Dashboard    DashboardConfig    `mapstructure:"dashboard"`
	Fallback     FallbackConfig     `mapstructure:"fallback"`
	Email        EmailConfig        `mapstructure:"email"`
	Vault        VaultConfig        `mapstructure:"vault"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
	Prometheus   PrometheusConfig   `mapstructure:"prometheus"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting"`
	CORS         CORSConfig         `mapstructure:"cors"`
}

type AppConfig struct {
	Name           string `mapstructure:"name"`
	RestaurantName string `mapstructure:"restaurant_name"`
	BaseURL        string `mapstructure:"base_url"`
	Environment    string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type QueueConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
}

type MenuConfig struct {
	Path string `mapstructure:"path"`
}

type OrderConfig struct {
	TaxRate float64 `mapstructure:"tax_rate"`
}

type PrinterConfig struct {
	Mode        string `mapstructure:"mode"`
	Dir         string `mapstructure:"dir"`
	NetworkHost string `mapstructure:"network_host"`
	NetworkPort int    `mapstructure:"network_port"`
}

type TwilioConfig struct {
	Voice string `mapstructure:"voice"`
}

type DashboardConfig struct {
	Token string `mapstructure:"token"`
}

type FallbackConfig struct {
	ForwardNumber string `mapstructure:"forward_number"`
	AlertEmail    string `mapstructure:"alert_email"`
}

type EmailConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
}

type VaultConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
}

type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	ExposeHeaders  []string `mapstructure:"expose_headers"`
	MaxAge         int      `mapstructure:"max_age"`
	Credentials    bool     `mapstructure:"credentials"`
}
