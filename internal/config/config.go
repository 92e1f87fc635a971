package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"wishline/internal/api"
	"wishline/internal/flow"
	"wishline/internal/storage"
)

// Keys understood in wishline.yaml, WISHLINE_* variables and flags.
const (
	KeyAPIBaseURL        = "api_base_url"
	KeyTimeout           = "timeout"
	KeyStorePath         = "store_path"
	KeyStoreDriver       = "store_driver"
	KeyLogLevel          = "log_level"
	KeyOTPResendCooldown = "otp_resend_cooldown"
	KeyVerbose           = "verbose"
	KeyFormat            = "format"
)

// LegacyBaseURLEnv is read when no api_base_url is configured.
const LegacyBaseURLEnv = "EXPO_PUBLIC_API_BASE_URL"

type Config struct {
	APIBaseURL        string
	Timeout           time.Duration
	StorePath         string
	StoreDriver       string
	LogLevel          string
	OTPResendCooldown time.Duration
	Verbose           bool
	Format            string

	// File is the config file that was read, if any.
	File string
}

// Load layers defaults, wishline.yaml, .env, WISHLINE_* variables and flags,
// lowest precedence first. configFile, when set, replaces file discovery.
func Load(configFile string, flags *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile == "" {
		configFile = os.Getenv("WISHLINE_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("wishline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.wishline")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "wishline"))
		}
	}

	v.SetEnvPrefix("WISHLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		APIBaseURL:        v.GetString(KeyAPIBaseURL),
		Timeout:           v.GetDuration(KeyTimeout),
		StorePath:         v.GetString(KeyStorePath),
		StoreDriver:       v.GetString(KeyStoreDriver),
		LogLevel:          v.GetString(KeyLogLevel),
		OTPResendCooldown: v.GetDuration(KeyOTPResendCooldown),
		Verbose:           v.GetBool(KeyVerbose),
		Format:            v.GetString(KeyFormat),
		File:              v.ConfigFileUsed(),
	}
	if !v.IsSet(KeyAPIBaseURL) || cfg.APIBaseURL == "" {
		if legacy := os.Getenv(LegacyBaseURLEnv); legacy != "" {
			cfg.APIBaseURL = legacy
		} else {
			cfg.APIBaseURL = api.DefaultBaseURL
		}
	}
	path, err := storage.ResolveDBPath(cfg.StorePath)
	if err != nil {
		return Config{}, err
	}
	cfg.StorePath = path
	return cfg, cfg.validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyTimeout, api.DefaultTimeout)
	v.SetDefault(KeyStorePath, "")
	v.SetDefault(KeyStoreDriver, storage.DriverSQLite)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyOTPResendCooldown, flow.DefaultResendCooldown)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyFormat, "table")
}

// flagKeys maps persistent flag names onto config keys.
var flagKeys = map[string]string{
	"api":     KeyAPIBaseURL,
	"store":   KeyStorePath,
	"driver":  KeyStoreDriver,
	"timeout": KeyTimeout,
	"verbose": KeyVerbose,
	"format":  KeyFormat,
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case storage.DriverSQLite, storage.DriverJSON:
	default:
		return fmt.Errorf("store_driver %q: want %s or %s", c.StoreDriver, storage.DriverSQLite, storage.DriverJSON)
	}
	switch c.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("format %q: want table, json or yaml", c.Format)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
