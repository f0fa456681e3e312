package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zoobzio/relay"
)

// Config holds the demo settings. Every field can come from a flag, a
// RELAY_* environment variable or a .env file, in that order of precedence.
type Config struct {
	Value      int    `mapstructure:"value"`
	Async      bool   `mapstructure:"async"`
	AsyncLimit int    `mapstructure:"async-limit"`
	Policy     string `mapstructure:"policy"`
	LogLevel   string `mapstructure:"log-level"`
	FxLog      bool   `mapstructure:"fx-log"`
	Metrics    bool   `mapstructure:"metrics"`
}

func addConfigFlags(fs *pflag.FlagSet) {
	fs.Int("value", 2314, "value the printer notifies with")
	fs.Bool("async", false, "notify asynchronously and wait for completion")
	fs.Int("async-limit", 0, "maximum concurrent async notifications (0 means unbounded)")
	fs.String("policy", relay.FailFast.String(), "error policy: failfast or isolate")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.Bool("fx-log", false, "print fx lifecycle events")
	fs.Bool("metrics", false, "print collected metric families after the run")
}

// loadConfig resolves the configuration from a .env file, the environment
// and fs.
func loadConfig(fs *pflag.FlagSet, envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "loading .env")
	}

	v := viper.New()
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, errors.Wrap(err, "binding flags")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding configuration")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := c.policy(); err != nil {
		return err
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if c.AsyncLimit < 0 {
		return errors.Errorf("async-limit must not be negative, got %d", c.AsyncLimit)
	}
	return nil
}

func (c Config) policy() (relay.Policy, error) {
	switch strings.ToLower(c.Policy) {
	case relay.FailFast.String():
		return relay.FailFast, nil
	case relay.Isolate.String():
		return relay.Isolate, nil
	default:
		return 0, errors.Errorf("unknown policy %q", c.Policy)
	}
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Wrapf(err, "invalid log-level %q", c.LogLevel)
	}
	return level, nil
}

// options translates the configuration into Dispatcher options.
func (c Config) options(logger *slog.Logger) []relay.Option {
	policy, _ := c.policy()
	opts := []relay.Option{
		relay.WithPolicy(policy),
		relay.WithLogger(logger),
		relay.WithPanicHandler(func(id relay.ID, recovered any) {
			logger.Error("subscriber panicked", "id", id, "panic", recovered)
		}),
	}
	if c.AsyncLimit > 0 {
		opts = append(opts, relay.WithExecutor(relay.Bounded(c.AsyncLimit)))
	}
	return opts
}
