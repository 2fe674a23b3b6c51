// Package config provides application configuration with multi-source
// priority.
//
// Configuration sources (highest to lowest priority):
//  1. Command-line flags (merged in Resolve)
//  2. Environment variables
//  3. Config file (~/.enginectl/config.yaml)
//  4. Default values
//
// A local .env file is loaded before viper runs so that development
// credentials can live next to the working directory.
//
// Security: the access token is masked in String()/MarshalJSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Sentinel errors for configuration resolution. These fire before any
// remote call is made; callers report them and exit non-zero.
var (
	// ErrProjectUnresolved indicates no project was supplied by flag,
	// environment, or config file.
	ErrProjectUnresolved = errors.New("project not set: pass --project, set ENGINECTL_PROJECT, or add project to the config file")

	// ErrLocationUnresolved indicates no location was supplied.
	ErrLocationUnresolved = errors.New("location not set: pass --location, set ENGINECTL_LOCATION, or add location to the config file")

	// ErrMissingToken indicates no access token is available for the
	// remote endpoint.
	ErrMissingToken = errors.New("access token not set: set ENGINECTL_TOKEN or add token to the config file")
)

// DefaultUserID is the user identity attached to chat sessions when none
// is configured.
const DefaultUserID = "cli-user"

// DefaultAPIVersion is the remote API version used when none is
// configured.
const DefaultAPIVersion = "v1beta1"

// Config stores the resolved application configuration.
type Config struct {
	Project  string `mapstructure:"project" json:"project"`
	Location string `mapstructure:"location" json:"location"`

	// BaseURL overrides the per-location endpoint. Empty means derive
	// from Location and APIVersion.
	BaseURL string `mapstructure:"base_url" json:"base_url"`

	// APIVersion selects the remote API version segment.
	APIVersion string `mapstructure:"api_version" json:"api_version"`

	// Token is the bearer token for the remote endpoint.
	// SENSITIVE: masked in MarshalJSON.
	Token string `mapstructure:"token" json:"token"`

	// UserID is the default user identity for chat sessions.
	UserID string `mapstructure:"user_id" json:"user_id"`

	// Debug enables verbose logging including the HTTP interceptor.
	Debug bool `mapstructure:"debug" json:"debug"`
}

// Load loads configuration from .env, environment, and the config file.
func Load() (*Config, error) {
	// Best-effort: a missing .env is the common case.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".enginectl")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults and
		// environment are enough.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	return &cfg, nil
}

// Resolve merges command-line flag values over the loaded configuration
// and validates that project and location are known. Flags win.
func (c *Config) Resolve(flagProject, flagLocation string) (project, location string, err error) {
	project = c.Project
	if flagProject != "" {
		project = flagProject
	}
	location = c.Location
	if flagLocation != "" {
		location = flagLocation
	}
	if project == "" {
		return "", "", ErrProjectUnresolved
	}
	if location == "" {
		return "", "", ErrLocationUnresolved
	}
	return project, location, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project", "")
	v.SetDefault("location", "")
	v.SetDefault("base_url", "")
	v.SetDefault("api_version", DefaultAPIVersion)
	v.SetDefault("token", "")
	v.SetDefault("user_id", DefaultUserID)
	v.SetDefault("debug", false)
}

// bindEnvVariables binds environment variables explicitly. The project
// key also accepts GOOGLE_CLOUD_PROJECT so the ambient cloud environment
// works without extra setup.
func bindEnvVariables(v *viper.Viper) {
	mustBind := func(key string, envVars ...string) {
		if err := v.BindEnv(append([]string{key}, envVars...)...); err != nil {
			panic(fmt.Sprintf("BUG: binding %q: %v", key, err))
		}
	}

	mustBind("project", "ENGINECTL_PROJECT", "GOOGLE_CLOUD_PROJECT")
	mustBind("location", "ENGINECTL_LOCATION")
	mustBind("base_url", "ENGINECTL_BASE_URL")
	mustBind("api_version", "ENGINECTL_API_VERSION")
	mustBind("token", "ENGINECTL_TOKEN")
	mustBind("user_id", "ENGINECTL_USER_ID")
	mustBind("debug", "ENGINECTL_DEBUG")
}

// maskedValue replaces secret material in log and debug output.
const maskedValue = "████████"

// maskSecret masks a secret for safe printing. Short secrets are fully
// masked; longer ones keep the first and last two characters for debug
// utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with token masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.Token = maskSecret(a.Token)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
