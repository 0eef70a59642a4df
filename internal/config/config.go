package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/sysalert/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval     = 5 * time.Second
	DefaultCooldown     = 5 * time.Minute
	DefaultLogLevel     = string(LogLevelInfo)
	DefaultSettingsPath = "/etc/sysalert/settings.json"
	DefaultTelemetryDB  = "/var/lib/sysalert/telemetry.db"
	DefaultKafkaTopic   = "sysalert.alerts"

	configName = "sysalert"
	configDir  = "/etc/sysalert"
)

type Config struct {
	Interval     time.Duration `mapstructure:"interval"`
	Cooldown     time.Duration `mapstructure:"cooldown"`
	LogLevel     string        `mapstructure:"log_level"`
	SettingsPath string        `mapstructure:"settings"`
	GPU          bool          `mapstructure:"gpu"`
	Telemetry    bool          `mapstructure:"telemetry"`
	TelemetryDB  string        `mapstructure:"telemetry_db"`
	MetricsAddr  string        `mapstructure:"metrics_addr"`
	WebhookURL   string        `mapstructure:"webhook_url"`
	KafkaBrokers []string      `mapstructure:"kafka_brokers"`
	KafkaTopic   string        `mapstructure:"kafka_topic"`
}

// flagKeys maps config keys to their command line flag names.
var flagKeys = map[string]string{
	"interval":      "interval",
	"cooldown":      "cooldown",
	"log_level":     "log-level",
	"settings":      "settings",
	"gpu":           "gpu",
	"telemetry":     "telemetry",
	"telemetry_db":  "telemetry-db",
	"metrics_addr":  "metrics-addr",
	"webhook_url":   "webhook-url",
	"kafka_brokers": "kafka-brokers",
	"kafka_topic":   "kafka-topic",
}

// RegisterFlags defines the daemon flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to the configuration file")
	fs.Duration("interval", DefaultInterval, "Interval between threshold checks")
	fs.Duration("cooldown", DefaultCooldown, "Minimum time between repeated notifications of one alert")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warning, error")
	fs.String("settings", DefaultSettingsPath, "Path to the alert settings file")
	fs.Bool("gpu", true, "Sample GPU temperature through NVML")
	fs.Bool("telemetry", false, "Record readings to the telemetry database")
	fs.String("telemetry-db", DefaultTelemetryDB, "Path to the telemetry database")
	fs.String("metrics-addr", "", "Listen address for Prometheus metrics, empty to disable")
	fs.String("webhook-url", "", "Apprise compatible endpoint notified on every alert")
	fs.StringSlice("kafka-brokers", nil, "Kafka brokers receiving alert notifications")
	fs.String("kafka-topic", DefaultKafkaTopic, "Kafka topic for alert notifications")
}

func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if o.flags != nil {
		if err := bindFlags(v, o.flags); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
		if f := o.flags.Lookup("config"); f != nil && f.Changed {
			o.configPath = f.Value.String()
		}
	}

	path := o.configPath
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("toml")
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.Cooldown < 0 {
		return errFactory.WithData(errors.ErrInvalidCooldown, c.Cooldown)
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "telemetry enabled without telemetry_db")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("cooldown", DefaultCooldown)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("settings", DefaultSettingsPath)
	v.SetDefault("gpu", true)
	v.SetDefault("telemetry", false)
	v.SetDefault("telemetry_db", DefaultTelemetryDB)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("webhook_url", "")
	v.SetDefault("kafka_brokers", []string{})
	v.SetDefault("kafka_topic", DefaultKafkaTopic)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}

	return nil
}
