package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Storage     StorageConfig    `mapstructure:"storage"`
	Inference   InferenceConfig  `mapstructure:"inference"`
	Auth        AuthConfig       `mapstructure:"auth"`
	Processing  ProcessingConfig `mapstructure:"processing"`
	Security    SecurityConfig   `mapstructure:"security"`
	Logging     LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// StorageConfig contains evidence object storage settings
type StorageConfig struct {
	BasePath string `mapstructure:"base_path"`
}

// InferenceConfig contains settings for the video analysis model
type InferenceConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
}

// AuthConfig contains identity verification settings
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`

	// DevAuthToken, when enabled, is accepted verbatim in place of a
	// signed token. Never enable outside local development.
	DevAuthEnabled bool   `mapstructure:"dev_auth_enabled"`
	DevAuthToken   string `mapstructure:"dev_auth_token"`
}

// ProcessingConfig contains evidence processing settings
type ProcessingConfig struct {
	FingerprintChunkSize int     `mapstructure:"fingerprint_chunk_size"`
	ReconcileTolerance   float64 `mapstructure:"reconcile_tolerance"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS      bool `mapstructure:"enable_cors"`
	EnableRecovery  bool `mapstructure:"enable_recovery"`
	EnableRateLimit bool `mapstructure:"enable_rate_limit"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
