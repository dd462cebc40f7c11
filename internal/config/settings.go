package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/logging"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SHOPMODEL_LOGGING_LEVEL.
const EnvPrefix = "SHOPMODEL"

// Settings are the application-level options shared by the CLI, the server
// and the TUI. They never change model semantics, only defaults and plumbing.
type Settings struct {
	DefaultPreset string         `mapstructure:"default_preset"`
	OutputFormat  string         `mapstructure:"output_format"`
	OutputDir     string         `mapstructure:"output_dir"`
	Clamp         bool           `mapstructure:"clamp"`
	Logging       LoggingConfig  `mapstructure:"logging"`
	Server        ServerConfig   `mapstructure:"server"`
	Solver        SolverSettings `mapstructure:"solver"`
}

// LoggingConfig selects the zap logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputFile string `mapstructure:"output_file"`
}

// Options converts the config into logging options.
func (c LoggingConfig) Options() logging.Options {
	return logging.Options{Level: c.Level, Format: c.Format, OutputFile: c.OutputFile}
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SolverSettings bound the breakeven driver solver.
type SolverSettings struct {
	MaxIterations int     `mapstructure:"max_iterations"`
	Tolerance     float64 `mapstructure:"tolerance"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_preset", domain.DefaultPresetName)
	v.SetDefault("output_format", "console")
	v.SetDefault("output_dir", ".")
	v.SetDefault("clamp", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_file", "")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("solver.max_iterations", 200)
	v.SetDefault("solver.tolerance", 0.5)
}

// LoadSettings reads settings from defaults, an optional YAML file, a .env
// file in the working directory and SHOPMODEL_* environment variables, in
// increasing order of precedence. An explicit configFile must exist; without
// one, shopmodel.yaml is looked up in the working directory and
// $HOME/.config/shopmodel.
func LoadSettings(configFile string) (*Settings, error) {
	loadEnvFile(".env")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("shopmodel")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/shopmodel")
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	canonical, _ := domain.CanonicalPresetName(s.DefaultPreset)
	s.DefaultPreset = canonical

	return &s, nil
}

// DefaultSettings returns the built-in defaults without reading files or
// the environment.
func DefaultSettings() *Settings {
	v := viper.New()
	setDefaults(v)
	var s Settings
	_ = v.Unmarshal(&s)
	return &s
}

// Validate checks settings that would otherwise fail late.
func (s *Settings) Validate() error {
	if _, ok := domain.CanonicalPresetName(s.DefaultPreset); !ok {
		return fmt.Errorf("default_preset %q is not one of %v", s.DefaultPreset, domain.PresetNames())
	}
	if _, err := logging.ParseLevel(s.Logging.Level); err != nil {
		return err
	}
	switch strings.ToLower(s.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", s.Logging.Format)
	}
	if s.Solver.MaxIterations <= 0 {
		return fmt.Errorf("solver.max_iterations must be positive, got %d", s.Solver.MaxIterations)
	}
	if s.Solver.Tolerance <= 0 {
		return fmt.Errorf("solver.tolerance must be positive, got %g", s.Solver.Tolerance)
	}
	return nil
}

// Parser returns an InputParser configured from these settings.
func (s *Settings) Parser() *InputParser {
	return &InputParser{DefaultPreset: s.DefaultPreset, Clamp: s.Clamp}
}

// loadEnvFile loads path into the environment when it exists. Variables
// already set win over the file.
func loadEnvFile(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
}
