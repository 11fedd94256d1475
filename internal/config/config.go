package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FRAMEEXEC"

// MaxFrameRate bounds frame-rate so the frame period stays a positive duration.
const MaxFrameRate = 1000

var ErrInvalidConfiguration = errors.New("invalid configuration")

// Configuration holds the settings of one frameexec run.
type Configuration struct {
	Threads     int    `mapstructure:"threads" default:"0"`
	PinThreads  bool   `mapstructure:"pin-threads" default:"true"`
	Frames      int    `mapstructure:"frames" default:"600"`
	FrameRate   int    `mapstructure:"frame-rate" default:"60"`
	Entities    int    `mapstructure:"entities" default:"100000"`
	ChunkSize   int    `mapstructure:"chunk-size" default:"1024"`
	StatsWindow int    `mapstructure:"stats-window" default:"120"`
	LogLevel    string `mapstructure:"log-level" default:"info"`
	LogFormat   string `mapstructure:"log-format" default:"json"`
}

// NewConfigurationWithDefaults returns a Configuration filled from the default tags.
func NewConfigurationWithDefaults() *Configuration {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		panic(fmt.Sprintf("config: bad default tag: %v", err))
	}
	return c
}

// RegisterFlags adds one flag per key to fs, using the defaults as flag defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := NewConfigurationWithDefaults()
	fs.Int("threads", d.Threads, "worker threads, 0 uses the available parallelism")
	fs.Bool("pin-threads", d.PinThreads, "pin worker i to the i-th usable CPU")
	fs.Int("frames", d.Frames, "frames to simulate, 0 runs until interrupted")
	fs.Int("frame-rate", d.FrameRate, "target frames per second, 0 runs unpaced")
	fs.Int("entities", d.Entities, "entities integrated per frame")
	fs.Int("chunk-size", d.ChunkSize, "entities per parallel chunk")
	fs.Int("stats-window", d.StatsWindow, "frames kept for rolling statistics")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.String("log-format", d.LogFormat, "log format: json or console")
}

// Load merges defaults, FRAMEEXEC_* environment variables and the flags in fs,
// then validates the result. fs may be nil.
func Load(fs *pflag.FlagSet) (*Configuration, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := NewConfigurationWithDefaults()
	v.SetDefault("threads", d.Threads)
	v.SetDefault("pin-threads", d.PinThreads)
	v.SetDefault("frames", d.Frames)
	v.SetDefault("frame-rate", d.FrameRate)
	v.SetDefault("entities", d.Entities)
	v.SetDefault("chunk-size", d.ChunkSize)
	v.SetDefault("stats-window", d.StatsWindow)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	c := &Configuration{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c Configuration) Validate() error {
	if c.Threads < 0 {
		return fmt.Errorf("%w: threads must not be negative, got %d", ErrInvalidConfiguration, c.Threads)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalidConfiguration, c.Frames)
	}
	if c.FrameRate < 0 || c.FrameRate > MaxFrameRate {
		return fmt.Errorf("%w: frame-rate must be in [0, %d], got %d", ErrInvalidConfiguration, MaxFrameRate, c.FrameRate)
	}
	if c.Entities < 0 {
		return fmt.Errorf("%w: entities must not be negative, got %d", ErrInvalidConfiguration, c.Entities)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk-size must be positive, got %d", ErrInvalidConfiguration, c.ChunkSize)
	}
	if c.StatsWindow < 1 {
		return fmt.Errorf("%w: stats-window must be positive, got %d", ErrInvalidConfiguration, c.StatsWindow)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("%w: log-format %q must be 'json' or 'console'", ErrInvalidConfiguration, c.LogFormat)
	}
	return nil
}

// DebugMap returns the configuration as loggable key/value pairs.
func (c Configuration) DebugMap() map[string]any {
	return map[string]any{
		"threads":      c.Threads,
		"pin-threads":  c.PinThreads,
		"frames":       c.Frames,
		"frame-rate":   c.FrameRate,
		"entities":     c.Entities,
		"chunk-size":   c.ChunkSize,
		"stats-window": c.StatsWindow,
		"log-level":    c.LogLevel,
		"log-format":   c.LogFormat,
	}
}
