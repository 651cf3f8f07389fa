package models

type Configuration struct {
	App        AppConfiguration        `mapstructure:"app"        validate:"required"`
	Backend    BackendConfiguration    `mapstructure:"backend"`
	Cache      CacheConfiguration      `mapstructure:"cache"      validate:"required"`
	Stats      StatsConfiguration      `mapstructure:"stats"`
	Activity   ActivityConfiguration   `mapstructure:"activity"   validate:"required"`
	Moderation ModerationConfiguration `mapstructure:"moderation"`
	Telemetry  TelemetryConfiguration  `mapstructure:"telemetry"`
}

type AppConfiguration struct {
	Environment    string   `mapstructure:"environment"      validate:"oneof=development production test"`
	LogLevel       string   `mapstructure:"log_level"        validate:"oneof=debug info warn error fatal panic"`
	Port           int      `mapstructure:"port"             validate:"gte=80,lte=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins"  validate:"required"`
	LoginRateLimit int      `mapstructure:"login_rate_limit" validate:"gte=0,lte=1000"`
}

// IsProduction reports whether cookies must carry the Secure flag.
func (c AppConfiguration) IsProduction() bool {
	return c.Environment == "production"
}

// BackendConfiguration points at the external e-learning REST API.
// An empty BaseURL is accepted at start; every backend-touching request then fails with 500.
type BackendConfiguration struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,http_url"`
}

func (c BackendConfiguration) Configured() bool {
	return c.BaseURL != ""
}

type CacheConfiguration struct {
	Type   string                    `mapstructure:"type"   validate:"required,oneof=memory redis valkey"`
	Redis  *RedisCacheConfiguration  `mapstructure:"redis"  validate:"required_if=Type redis"`
	Valkey *ValkeyCacheConfiguration `mapstructure:"valkey" validate:"required_if=Type valkey"`
}

type RedisCacheConfiguration struct {
	Hosts         []string `mapstructure:"hosts"`
	Password      string   `mapstructure:"password"`
	TLSEnabled    bool     `mapstructure:"tls_enabled"`
	TLSServerName string   `mapstructure:"tls_server_name"`
}

type ValkeyCacheConfiguration struct {
	Hosts         []string `mapstructure:"hosts"`
	Password      string   `mapstructure:"password"`
	TLSEnabled    bool     `mapstructure:"tls_enabled"`
	TLSServerName string   `mapstructure:"tls_server_name"`
}

// StatsConfiguration controls how long dashboard snapshots are kept per session.
// FreshSeconds = 0 always refetches; RetentionSeconds bounds the stale fallback.
type StatsConfiguration struct {
	FreshSeconds     int `mapstructure:"fresh_seconds"     validate:"gte=0,lte=3600"`
	RetentionSeconds int `mapstructure:"retention_seconds" validate:"gte=0,lte=86400"`
}

type ActivityConfiguration struct {
	Type          string                           `mapstructure:"type"           validate:"required,oneof=none filesystem"`
	Filesystem    *FilesystemActivityConfiguration `mapstructure:"filesystem"     validate:"required_if=Type filesystem"`
	RetentionDays int                              `mapstructure:"retention_days" validate:"gte=0,lte=365"`
}

type FilesystemActivityConfiguration struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

type ModerationConfiguration struct {
	GoogleAPIKey string `mapstructure:"google_api_key"`
	Model        string `mapstructure:"model"`
	Endpoint     string `mapstructure:"endpoint" validate:"omitempty,http_url"`
}

func (c ModerationConfiguration) Enabled() bool {
	return c.GoogleAPIKey != ""
}

type TelemetryConfiguration struct {
	OTLPEndpoint     string `mapstructure:"otlp_endpoint"     validate:"omitempty,http_url"`
	PyroscopeAddress string `mapstructure:"pyroscope_address" validate:"omitempty,http_url"`
}
