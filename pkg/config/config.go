package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/panelctl/panelctl/pkg/color"
	"github.com/panelctl/panelctl/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

var (
	INVALID_ENVIRONMENT = errors.New("Invalid environment, expected production or development")
	INVALID_RETRY       = errors.New("retry_max must not be negative")
	INVALID_DURATION    = errors.New("timeout and navigate_delay must not be negative")
	NO_CONFIG           = errors.New("No config found, please create with `panelctl config set`")
)

// BuildEnvironment picks the default server. Release builds stamp
// "production"; `make dev` stamps "development".
var BuildEnvironment = util.EnvProduction

// Config is everything panelctl needs to reach the panel server.
type Config struct {
	Environment     string        `mapstructure:"environment" yaml:"environment" json:"environment"`
	ProductionURL   string        `mapstructure:"production_url" yaml:"production_url" json:"production_url"`
	DevelopmentURL  string        `mapstructure:"development_url" yaml:"development_url" json:"development_url"`
	APIURL          string        `mapstructure:"api_url" yaml:"api_url,omitempty" json:"api_url,omitempty"`
	LoginPath       string        `mapstructure:"login_path" yaml:"login_path" json:"login_path"`
	WithCredentials bool          `mapstructure:"with_credentials" yaml:"with_credentials" json:"with_credentials"`
	Insecure        bool          `mapstructure:"insecure" yaml:"insecure" json:"insecure"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	RetryMax        int           `mapstructure:"retry_max" yaml:"retry_max" json:"retry_max"`
	NavigateDelay   time.Duration `mapstructure:"navigate_delay" yaml:"navigate_delay" json:"navigate_delay"`
	StateDir        string        `mapstructure:"state_dir" yaml:"state_dir" json:"state_dir"`
	NoTracking      bool          `mapstructure:"no_tracking" yaml:"no_tracking" json:"no_tracking"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Environment:     BuildEnvironment,
		ProductionURL:   util.ProductionURL,
		DevelopmentURL:  util.DevelopmentURL,
		LoginPath:       util.LoginPath,
		WithCredentials: true,
		NavigateDelay:   util.DefaultNavigateDelay,
		StateDir:        util.PanelDir,
	}
}

// SetDefaults registers Default() with v so files, env vars and flags
// only need to name what they change.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("environment", d.Environment)
	v.SetDefault("production_url", d.ProductionURL)
	v.SetDefault("development_url", d.DevelopmentURL)
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("login_path", d.LoginPath)
	v.SetDefault("with_credentials", d.WithCredentials)
	v.SetDefault("insecure", d.Insecure)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("retry_max", d.RetryMax)
	v.SetDefault("navigate_delay", d.NavigateDelay)
	v.SetDefault("state_dir", d.StateDir)
	v.SetDefault("no_tracking", d.NoTracking)
}

// NewViper returns a viper instance reading file (if it exists) and
// PANELCTL_* env vars on top of the defaults.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(util.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file == "" {
		return v, nil
	}
	v.SetConfigFile(file)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(file), "."))
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || errors.As(err, &viper.ConfigFileNotFoundError{}) {
			zap.S().Debugf("No config file at %s, using defaults", file)
			return v, nil
		}
		return nil, fmt.Errorf("Error occured while reading the config file %s: %w", file, err)
	}
	zap.S().Debugf("Using config file: %s", v.ConfigFileUsed())
	return v, nil
}

// Load decodes and validates the effective config held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks field ranges. It does not contact the server.
func (c Config) Validate() error {
	if _, err := c.ResolveAPIURL(); err != nil {
		return err
	}
	if c.RetryMax < 0 {
		return INVALID_RETRY
	}
	if c.Timeout < 0 || c.NavigateDelay < 0 {
		return INVALID_DURATION
	}
	return nil
}

// ResolveAPIURL returns api_url when set, otherwise the URL for the
// configured environment.
func (c Config) ResolveAPIURL() (string, error) {
	if c.APIURL != "" {
		return c.APIURL, nil
	}
	switch c.Environment {
	case util.EnvProduction:
		return c.ProductionURL, nil
	case util.EnvDevelopment:
		return c.DevelopmentURL, nil
	}
	return "", fmt.Errorf("%w: %q", INVALID_ENVIRONMENT, c.Environment)
}

// SessionPath is the session store file inside the state dir.
func (c Config) SessionPath() string {
	return filepath.Join(c.StateDir, util.SessionFile)
}

// LogPath is the JSON log file inside the state dir.
func (c Config) LogPath() string {
	return filepath.Join(c.StateDir, "log", "panelctl.log")
}

// LoadFile reads a config file written by StoreConfig.
func LoadFile(loc string) (Config, error) {
	data, err := os.ReadFile(loc)
	if err != nil {
		if os.IsNotExist(err) {
			zap.S().Debug(NO_CONFIG.Error())
			return Config{}, NO_CONFIG
		}
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode %s: %w", loc, err)
	}
	return cfg, nil
}

// Merge copies the non-empty fields of update over base.
func Merge(base, update Config) (Config, error) {
	out := base
	if err := copier.CopyWithOption(&out, &update, copier.Option{IgnoreEmpty: true}); err != nil {
		return Config{}, err
	}
	return out, nil
}

// StoreConfig writes cfg as yaml to loc.
func StoreConfig(cfg Config, loc string) error {
	zap.S().Debug("Storing configuration details")

	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := util.WriteFileAtomic(loc, data, 0600); err != nil {
		return err
	}

	fmt.Println(color.OK("Stored configuration details successfully"))
	return nil
}

// Print renders cfg as yaml.
func Print(cfg Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	return string(data), err
}
