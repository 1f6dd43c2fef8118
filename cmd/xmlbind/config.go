package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jacoelho/xmlbind"
	"github.com/jacoelho/xmlbind/pkg/container"
)

// config is read from xmlbind.yaml, XMLBIND_* variables and flags, in
// increasing order of precedence.
type config struct {
	LogLevel         string `mapstructure:"log_level"`
	NoColor          bool   `mapstructure:"no_color"`
	Strict           bool   `mapstructure:"strict"`
	MaxDepth         int    `mapstructure:"max_depth"`
	MaxForeignEvents int    `mapstructure:"max_foreign_events"`
	Compress         string `mapstructure:"compress"`
	Declaration      bool   `mapstructure:"declaration"`
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":          "log_level",
	"no-color":           "no_color",
	"strict":             "strict",
	"max-depth":          "max_depth",
	"max-foreign-events": "max_foreign_events",
	"compress":           "compress",
	"declaration":        "declaration",
}

func loadConfig(path string, flags *pflag.FlagSet) (config, error) {
	v := viper.New()

	v.SetDefault("log_level", "warn")
	v.SetDefault("no_color", false)
	v.SetDefault("strict", false)
	v.SetDefault("max_depth", 0)
	v.SetDefault("max_foreign_events", -1)
	v.SetDefault("compress", "none")
	v.SetDefault("declaration", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("xmlbind")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("XMLBIND")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	if _, err := container.ParseFormat(c.Compress); err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	return c.decodeOptions(nil).Validate()
}

func (c config) level() (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return lvl, nil
}

func (c config) decodeOptions(logger *zap.Logger) xmlbind.DecodeOptions {
	opts := xmlbind.NewDecodeOptions().
		WithStrict(c.Strict).
		WithMaxDepth(c.MaxDepth).
		WithDiagnostics(xmlbind.ZapDiagnostics(logger))
	if c.MaxForeignEvents != -1 {
		opts = opts.WithMaxForeignEvents(c.MaxForeignEvents)
	}
	return opts
}

func (c config) encodeOptions() xmlbind.EncodeOptions {
	return xmlbind.NewEncodeOptions().WithDeclaration(c.Declaration)
}

func newLogger(w io.Writer, lvl zapcore.Level) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), lvl)
	return zap.New(core)
}
