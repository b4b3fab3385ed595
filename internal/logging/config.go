package logging

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

// Environment overrides beat both built-in defaults and the config file.
const (
	EnvLogLevel           = "METARBAR_LOG_LEVEL"
	EnvLogFormat          = "METARBAR_LOG_FORMAT"
	EnvLogSink            = "METARBAR_LOG_SINK"
	EnvLogFile            = "METARBAR_LOG_FILE"
	EnvLogAddSource       = "METARBAR_LOG_ADD_SOURCE"
	EnvLogIncludePayloads = "METARBAR_LOG_INCLUDE_PAYLOADS"
	EnvLogMaxSizeMB       = "METARBAR_LOG_MAX_SIZE_MB"
	EnvLogMaxBackups      = "METARBAR_LOG_MAX_BACKUPS"
	EnvLogMaxAgeDays      = "METARBAR_LOG_MAX_AGE_DAYS"
	EnvLogCompress        = "METARBAR_LOG_COMPRESS"
)

// Config is the logging block of the user config. Pointer fields keep
// "unset" distinct from explicit zero values so overlays know which
// side wins.
type Config struct {
	Level           *string `yaml:"level,omitempty" json:"level,omitempty"`
	Format          *string `yaml:"format,omitempty" json:"format,omitempty"`
	Sink            *string `yaml:"sink,omitempty" json:"sink,omitempty"`
	File            *string `yaml:"file,omitempty" json:"file,omitempty"`
	AddSource       *bool   `yaml:"add_source,omitempty" json:"add_source,omitempty"`
	IncludePayloads *bool   `yaml:"include_payloads,omitempty" json:"include_payloads,omitempty"`

	MaxSizeMB  *int  `yaml:"max_size_mb,omitempty" json:"max_size_mb,omitempty"`
	MaxBackups *int  `yaml:"max_backups,omitempty" json:"max_backups,omitempty"`
	MaxAgeDays *int  `yaml:"max_age_days,omitempty" json:"max_age_days,omitempty"`
	Compress   *bool `yaml:"compress,omitempty" json:"compress,omitempty"`
}

// DefaultConfig returns the built-in defaults for a mode: one-shot
// commands stay quiet on stderr, the panel logs JSON to a rotated file.
func DefaultConfig(mode Mode) Config {
	cfg := Config{
		Level:           ptr("error"),
		Format:          ptr(string(FormatText)),
		Sink:            ptr(string(SinkStderr)),
		AddSource:       ptr(false),
		IncludePayloads: ptr(false),
		MaxSizeMB:       ptr(20),
		MaxBackups:      ptr(5),
		MaxAgeDays:      ptr(7),
		Compress:        ptr(true),
	}
	if mode == ModePanel {
		cfg.Level = ptr("info")
		cfg.Format = ptr(string(FormatJSON))
		cfg.Sink = ptr(string(SinkFile))
	}
	return cfg
}

// WithEnv layers METARBAR_LOG_* variables over c. Unparseable numbers
// are ignored rather than failing startup.
func (c Config) WithEnv() Config {
	envString(&c.Level, EnvLogLevel)
	envString(&c.Format, EnvLogFormat)
	envString(&c.Sink, EnvLogSink)
	envString(&c.File, EnvLogFile)
	envBool(&c.AddSource, EnvLogAddSource)
	envBool(&c.IncludePayloads, EnvLogIncludePayloads)
	envInt(&c.MaxSizeMB, EnvLogMaxSizeMB)
	envInt(&c.MaxBackups, EnvLogMaxBackups)
	envInt(&c.MaxAgeDays, EnvLogMaxAgeDays)
	envBool(&c.Compress, EnvLogCompress)
	return c
}

func envString(dst **string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = &v
	}
}

func envBool(dst **bool, key string) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	*dst = ptr(!falsy(raw))
}

func envInt(dst **int, key string) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	if n, err := strconv.Atoi(raw); err == nil {
		*dst = &n
	}
}

// Normalize lowercases the enum fields, drops blanks back to unset,
// clamps negative rotation numbers to zero and validates the result.
func (c Config) Normalize() (Config, error) {
	c.Level = lowered(c.Level)
	c.Format = lowered(c.Format)
	c.Sink = lowered(c.Sink)
	if c.File != nil {
		if v := strings.TrimSpace(*c.File); v == "" {
			c.File = nil
		} else {
			c.File = &v
		}
	}
	for _, n := range []**int{&c.MaxSizeMB, &c.MaxBackups, &c.MaxAgeDays} {
		if *n != nil && **n < 0 {
			*n = ptr(0)
		}
	}
	return c, c.Validate()
}

func lowered(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	if v == "" {
		return nil
	}
	return &v
}

func (c Config) Validate() error {
	if c.Level != nil {
		switch *c.Level {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("logging.level: invalid %q", *c.Level)
		}
	}
	if c.Format != nil {
		switch Format(*c.Format) {
		case FormatText, FormatJSON:
		default:
			return fmt.Errorf("logging.format: invalid %q", *c.Format)
		}
	}
	if c.Sink != nil {
		switch Sink(*c.Sink) {
		case SinkStderr, SinkFile, SinkNone:
		default:
			return fmt.Errorf("logging.sink: invalid %q", *c.Sink)
		}
	}
	return nil
}

// falsy reports whether an environment value spells "off".
func falsy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "false", "no", "off":
		return true
	}
	return false
}

func ptr[T any](v T) *T { return &v }
