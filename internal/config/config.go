// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rovshanmuradov/simward/internal/curve"
	"github.com/rovshanmuradov/simward/internal/equilibrium"
	"github.com/rovshanmuradov/simward/internal/utils/logger"
)

// Scenario is one named parameter set. Keys of the parameter set sit next to
// the name in the file.
type Scenario struct {
	Name         string `mapstructure:"name"`
	curve.Params `mapstructure:",squash"`
}

type Config struct {
	Log       logger.Config `mapstructure:"log"`
	Workers   int           `mapstructure:"workers"`
	MaxRounds int           `mapstructure:"max_rounds"`
	ExportDir string        `mapstructure:"export_dir"`
	Scenarios []Scenario    `mapstructure:"scenarios"`
}

const (
	DefaultWorkers      = 4
	DefaultExportDir    = "exports"
	DefaultScenarioName = "default"
	EnvPrefix           = "SIMWARD"
)

var (
	ErrNoScenarios       = errors.New("no scenarios configured")
	ErrScenarioName      = errors.New("scenario name is empty")
	ErrDuplicateScenario = errors.New("duplicate scenario name")
	ErrScenarioNotFound  = errors.New("scenario not found")
)

// LoadScenarios reads the configuration file at path. An empty path yields
// the built-in defaults with a single default scenario. Missing parameter keys
// of a scenario fall back to curve.DefaultParams.
func LoadScenarios(path string) (*Config, error) {
	v := viper.New()

	logDefaults := logger.DefaultConfig()
	defaults := map[string]interface{}{
		"workers":         DefaultWorkers,
		"max_rounds":      equilibrium.DefaultMaxRounds,
		"export_dir":      DefaultExportDir,
		"log.file":        logDefaults.LogFile,
		"log.max_size":    logDefaults.MaxSize,
		"log.max_age":     logDefaults.MaxAge,
		"log.max_backups": logDefaults.MaxBackups,
		"log.compress":    logDefaults.Compress,
		"log.development": logDefaults.Development,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	// Элементы списка заранее заполняются значениями по умолчанию,
	// декодер перезаписывает только заданные ключи.
	if raw, ok := v.Get("scenarios").([]interface{}); ok {
		cfg.Scenarios = make([]Scenario, len(raw))
		for i := range cfg.Scenarios {
			cfg.Scenarios[i].Params = curve.DefaultParams()
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if len(cfg.Scenarios) == 0 {
		cfg.Scenarios = []Scenario{{Name: DefaultScenarioName, Params: curve.DefaultParams()}}
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.Workers < 0 {
		return errors.New("invalid workers count")
	}
	if cfg.MaxRounds < 0 {
		return errors.New("invalid max_rounds")
	}
	if len(cfg.Scenarios) == 0 {
		return ErrNoScenarios
	}

	seen := make(map[string]struct{}, len(cfg.Scenarios))
	for i, sc := range cfg.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenario #%d: %w", i, ErrScenarioName)
		}
		if _, dup := seen[sc.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateScenario, sc.Name)
		}
		seen[sc.Name] = struct{}{}

		if err := sc.Params.Resolved().Validate(); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}
	return nil
}

// Scenario returns the named scenario; an empty name selects the first one.
func (c *Config) Scenario(name string) (Scenario, error) {
	if len(c.Scenarios) == 0 {
		return Scenario{}, ErrNoScenarios
	}
	if name == "" {
		return c.Scenarios[0], nil
	}
	for _, sc := range c.Scenarios {
		if sc.Name == name {
			return sc, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %s", ErrScenarioNotFound, name)
}

// SimulatorOptions maps the config onto simulator options.
func (c *Config) SimulatorOptions() equilibrium.Options {
	opts := equilibrium.DefaultOptions()
	if c.MaxRounds > 0 {
		opts.MaxRounds = c.MaxRounds
	}
	return opts
}
