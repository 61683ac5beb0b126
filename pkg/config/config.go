package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/conference"
	ConfigFileName    = "conference.yml"
)

// ValidEmailProviders is the list of supported email providers
var ValidEmailProviders = []string{"smtp", "log"}

// ConferenceConfig holds all application settings
type ConferenceConfig struct {
	// JWTSecret signs admin and attendee tokens (HS256)
	JWTSecret string `yaml:"jwt_secret" json:"jwt_secret"`

	// TokenTTLMinutes is the lifetime of issued tokens
	TokenTTLMinutes int `yaml:"token_ttl_minutes" json:"token_ttl_minutes"`

	// MaxLoginAttempts is the number of failed attendee logins before lockout
	MaxLoginAttempts int `yaml:"max_login_attempts" json:"max_login_attempts"`

	// LockoutDurationMinutes is how long a locked attendee stays locked
	LockoutDurationMinutes int `yaml:"lockout_duration_minutes" json:"lockout_duration_minutes"`

	// PasswordDeliveryDelaySeconds delays the credentials email after registration
	PasswordDeliveryDelaySeconds int `yaml:"password_delivery_delay_seconds" json:"password_delivery_delay_seconds"`

	// PasswordDeliveryMaxAttempts is the number of send attempts before a delivery fails
	PasswordDeliveryMaxAttempts int `yaml:"password_delivery_max_attempts" json:"password_delivery_max_attempts"`

	// PasswordDeliveryBackoffSeconds is the base of the exponential retry backoff
	PasswordDeliveryBackoffSeconds int `yaml:"password_delivery_backoff_seconds" json:"password_delivery_backoff_seconds"`

	// PasswordResetTTLMinutes is the lifetime of admin password reset tokens
	PasswordResetTTLMinutes int `yaml:"password_reset_ttl_minutes" json:"password_reset_ttl_minutes"`

	// RedisURL selects the redis delivery queue; empty means in-process
	RedisURL string `yaml:"redis_url" json:"redis_url"`

	// EmailProvider is one of ValidEmailProviders
	EmailProvider string `yaml:"email_provider" json:"email_provider"`

	SMTPHost     string `yaml:"smtp_host" json:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port" json:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username" json:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password" json:"smtp_password"`
	EmailFrom    string `yaml:"email_from" json:"email_from"`

	// FrontendURL is used for QR codes and links in emails
	FrontendURL string `yaml:"frontend_url" json:"frontend_url"`

	// CORSOrigins lists allowed browser origins
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`

	// ExportRowLimit caps the number of rows written by exports
	ExportRowLimit int `yaml:"export_row_limit" json:"export_row_limit"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *ConferenceConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *ConferenceConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = NewDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// NewDefault returns a config with default values
func NewDefault() *ConferenceConfig {
	c := &ConferenceConfig{
		TokenTTLMinutes:                1440,
		MaxLoginAttempts:               5,
		LockoutDurationMinutes:         30,
		PasswordDeliveryDelaySeconds:   60,
		PasswordDeliveryMaxAttempts:    3,
		PasswordDeliveryBackoffSeconds: 5,
		PasswordResetTTLMinutes:        60,
		EmailProvider:                  "log",
		SMTPPort:                       587,
		EmailFrom:                      "no-reply@conference.local",
		FrontendURL:                    "http://localhost:3000",
		CORSOrigins:                    []string{"http://localhost:3000"},
		ExportRowLimit:                 10000,
		sources:                        make(map[string]string),
	}
	for _, name := range attributeNames() {
		c.sources[name] = "default"
	}
	return c
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*ConferenceConfig, error) {
	config := NewDefault()

	configPath := os.Getenv("CONFERENCE_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig ConferenceConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"jwt_secret", "token_ttl_minutes", "max_login_attempts",
		"lockout_duration_minutes", "password_delivery_delay_seconds",
		"password_delivery_max_attempts", "password_delivery_backoff_seconds",
		"password_reset_ttl_minutes", "redis_url", "email_provider",
		"smtp_host", "smtp_port", "smtp_username", "smtp_password",
		"email_from", "frontend_url", "cors_origins", "export_row_limit",
	}
}

func (c *ConferenceConfig) applyFileConfig(file *ConferenceConfig) {
	setString := func(name string, dst *string, v string) {
		if v != "" {
			*dst = v
			c.sources[name] = "file"
		}
	}
	setInt := func(name string, dst *int, v int) {
		if v != 0 {
			*dst = v
			c.sources[name] = "file"
		}
	}

	setString("jwt_secret", &c.JWTSecret, file.JWTSecret)
	setInt("token_ttl_minutes", &c.TokenTTLMinutes, file.TokenTTLMinutes)
	setInt("max_login_attempts", &c.MaxLoginAttempts, file.MaxLoginAttempts)
	setInt("lockout_duration_minutes", &c.LockoutDurationMinutes, file.LockoutDurationMinutes)
	setInt("password_delivery_delay_seconds", &c.PasswordDeliveryDelaySeconds, file.PasswordDeliveryDelaySeconds)
	setInt("password_delivery_max_attempts", &c.PasswordDeliveryMaxAttempts, file.PasswordDeliveryMaxAttempts)
	setInt("password_delivery_backoff_seconds", &c.PasswordDeliveryBackoffSeconds, file.PasswordDeliveryBackoffSeconds)
	setInt("password_reset_ttl_minutes", &c.PasswordResetTTLMinutes, file.PasswordResetTTLMinutes)
	setString("redis_url", &c.RedisURL, file.RedisURL)
	setString("email_provider", &c.EmailProvider, file.EmailProvider)
	setString("smtp_host", &c.SMTPHost, file.SMTPHost)
	setInt("smtp_port", &c.SMTPPort, file.SMTPPort)
	setString("smtp_username", &c.SMTPUsername, file.SMTPUsername)
	setString("smtp_password", &c.SMTPPassword, file.SMTPPassword)
	setString("email_from", &c.EmailFrom, file.EmailFrom)
	setString("frontend_url", &c.FrontendURL, file.FrontendURL)
	setInt("export_row_limit", &c.ExportRowLimit, file.ExportRowLimit)
	if len(file.CORSOrigins) > 0 {
		c.CORSOrigins = file.CORSOrigins
		c.sources["cors_origins"] = "file"
	}
}

func (c *ConferenceConfig) applyEnvConfig() {
	setString := func(name, env string, dst *string) {
		if val := os.Getenv(env); val != "" {
			*dst = val
			c.sources[name] = "environment"
		}
	}
	setInt := func(name, env string, dst *int) {
		if val := os.Getenv(env); val != "" {
			if i, err := strconv.Atoi(val); err == nil {
				*dst = i
				c.sources[name] = "environment"
			}
		}
	}

	setString("jwt_secret", "JWT_SECRET", &c.JWTSecret)
	setInt("token_ttl_minutes", "TOKEN_TTL_MINUTES", &c.TokenTTLMinutes)
	setInt("max_login_attempts", "MAX_LOGIN_ATTEMPTS", &c.MaxLoginAttempts)
	setInt("lockout_duration_minutes", "LOCKOUT_DURATION_MINUTES", &c.LockoutDurationMinutes)
	setInt("password_delivery_delay_seconds", "PASSWORD_DELIVERY_DELAY_SECONDS", &c.PasswordDeliveryDelaySeconds)
	setInt("password_delivery_max_attempts", "PASSWORD_DELIVERY_MAX_ATTEMPTS", &c.PasswordDeliveryMaxAttempts)
	setInt("password_delivery_backoff_seconds", "PASSWORD_DELIVERY_BACKOFF_SECONDS", &c.PasswordDeliveryBackoffSeconds)
	setInt("password_reset_ttl_minutes", "PASSWORD_RESET_TTL_MINUTES", &c.PasswordResetTTLMinutes)
	setString("redis_url", "REDIS_URL", &c.RedisURL)
	setString("email_provider", "EMAIL_PROVIDER", &c.EmailProvider)
	setString("smtp_host", "SMTP_HOST", &c.SMTPHost)
	setInt("smtp_port", "SMTP_PORT", &c.SMTPPort)
	setString("smtp_username", "SMTP_USERNAME", &c.SMTPUsername)
	setString("smtp_password", "SMTP_PASSWORD", &c.SMTPPassword)
	setString("email_from", "EMAIL_FROM", &c.EmailFrom)
	setString("frontend_url", "FRONTEND_URL", &c.FrontendURL)
	setInt("export_row_limit", "EXPORT_ROW_LIMIT", &c.ExportRowLimit)
	if val := os.Getenv("CORS_ORIGINS"); val != "" {
		c.CORSOrigins = splitAndTrim(val)
		c.sources["cors_origins"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *ConferenceConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *ConferenceConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenTTL returns the token lifetime as a duration
func (c *ConferenceConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// LockoutDuration returns how long an attendee stays locked
func (c *ConferenceConfig) LockoutDuration() time.Duration {
	return time.Duration(c.LockoutDurationMinutes) * time.Minute
}

// DeliveryDelay returns the delay before a credentials email is sent
func (c *ConferenceConfig) DeliveryDelay() time.Duration {
	return time.Duration(c.PasswordDeliveryDelaySeconds) * time.Second
}

// DeliveryBackoff returns the base retry backoff for credentials emails
func (c *ConferenceConfig) DeliveryBackoff() time.Duration {
	return time.Duration(c.PasswordDeliveryBackoffSeconds) * time.Second
}

// PasswordResetTTL returns the lifetime of password reset tokens
func (c *ConferenceConfig) PasswordResetTTL() time.Duration {
	return time.Duration(c.PasswordResetTTLMinutes) * time.Minute
}

// Validate validates the configuration
func (c *ConferenceConfig) Validate() error {
	valid := false
	for _, p := range ValidEmailProviders {
		if c.EmailProvider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid email_provider: %s", c.EmailProvider)
	}
	if c.EmailProvider == "smtp" && (c.SMTPHost == "" || c.EmailFrom == "") {
		return fmt.Errorf("email_provider smtp requires smtp_host and email_from")
	}

	positive := map[string]int{
		"token_ttl_minutes":              c.TokenTTLMinutes,
		"max_login_attempts":             c.MaxLoginAttempts,
		"lockout_duration_minutes":       c.LockoutDurationMinutes,
		"password_delivery_max_attempts": c.PasswordDeliveryMaxAttempts,
		"password_reset_ttl_minutes":     c.PasswordResetTTLMinutes,
		"export_row_limit":               c.ExportRowLimit,
	}
	for _, name := range attributeNames() {
		if v, ok := positive[name]; ok && v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if c.PasswordDeliveryDelaySeconds < 0 || c.PasswordDeliveryBackoffSeconds < 0 {
		return fmt.Errorf("password delivery delay and backoff must not be negative")
	}

	return nil
}

// ValidateServer validates settings only the API server needs
func (c *ConferenceConfig) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required (set JWT_SECRET)")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *ConferenceConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "jwt_secret", Value: mask(c.JWTSecret), Source: c.Source("jwt_secret")},
		{Name: "token_ttl_minutes", Value: strconv.Itoa(c.TokenTTLMinutes), Source: c.Source("token_ttl_minutes")},
		{Name: "max_login_attempts", Value: strconv.Itoa(c.MaxLoginAttempts), Source: c.Source("max_login_attempts")},
		{Name: "lockout_duration_minutes", Value: strconv.Itoa(c.LockoutDurationMinutes), Source: c.Source("lockout_duration_minutes")},
		{Name: "password_delivery_delay_seconds", Value: strconv.Itoa(c.PasswordDeliveryDelaySeconds), Source: c.Source("password_delivery_delay_seconds")},
		{Name: "password_delivery_max_attempts", Value: strconv.Itoa(c.PasswordDeliveryMaxAttempts), Source: c.Source("password_delivery_max_attempts")},
		{Name: "password_delivery_backoff_seconds", Value: strconv.Itoa(c.PasswordDeliveryBackoffSeconds), Source: c.Source("password_delivery_backoff_seconds")},
		{Name: "password_reset_ttl_minutes", Value: strconv.Itoa(c.PasswordResetTTLMinutes), Source: c.Source("password_reset_ttl_minutes")},
		{Name: "redis_url", Value: mask(c.RedisURL), Source: c.Source("redis_url")},
		{Name: "email_provider", Value: c.EmailProvider, Source: c.Source("email_provider")},
		{Name: "smtp_host", Value: c.SMTPHost, Source: c.Source("smtp_host")},
		{Name: "smtp_port", Value: strconv.Itoa(c.SMTPPort), Source: c.Source("smtp_port")},
		{Name: "smtp_username", Value: c.SMTPUsername, Source: c.Source("smtp_username")},
		{Name: "smtp_password", Value: mask(c.SMTPPassword), Source: c.Source("smtp_password")},
		{Name: "email_from", Value: c.EmailFrom, Source: c.Source("email_from")},
		{Name: "frontend_url", Value: c.FrontendURL, Source: c.Source("frontend_url")},
		{Name: "cors_origins", Value: strings.Join(c.CORSOrigins, ","), Source: c.Source("cors_origins")},
		{Name: "export_row_limit", Value: strconv.Itoa(c.ExportRowLimit), Source: c.Source("export_row_limit")},
	}
}

// FormatText returns a text representation of the configuration
func (c *ConferenceConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-36s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-36s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-36s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *ConferenceConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
