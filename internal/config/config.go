package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/core/validation"
)

// FileName is looked up in the working directory, then the home directory
const FileName = "scheduler_config.yaml"

// Closure is a recurring day the business is shut
type Closure struct {
	Name  string `yaml:"name" validate:"required"`
	RRule string `yaml:"rrule" validate:"required"`
}

type BusinessHours struct {
	Start model.ClockTime `yaml:"start"`
	End   model.ClockTime `yaml:"end" validate:"gtfield=Start"`
}

type Config struct {
	// DatabaseURL is overridden by the DATABASE_URL environment variable
	DatabaseURL string `yaml:"databaseURL"`
	HTTPAddr    string `yaml:"httpAddr" validate:"required"`

	BusinessHours     BusinessHours `yaml:"businessHours"`
	MaxDurationHours  float64       `yaml:"maxDurationHours" validate:"gt=0"`
	// Zero is not "no minimum": the engine reads it as unset and uses its default
	MinDurationHours  float64       `yaml:"minDurationHours" validate:"gt=0,ltefield=MaxDurationHours"`
	ValidationTimeout time.Duration `yaml:"validationTimeout" validate:"gt=0"`
	SlotLengthHours   float64       `yaml:"slotLengthHours" validate:"gt=0,lte=24"`
	MaxSuggestedSlots int           `yaml:"maxSuggestedSlots" validate:"gte=1"`
	BestTimesCount    int           `yaml:"bestTimesCount" validate:"gte=1"`

	Closures []Closure `yaml:"closures" validate:"dive"`
}

// Default returns the configuration used when no file sets a value
func Default() *Config {
	defaults := validation.DefaultOptions()
	return &Config{
		HTTPAddr:          ":8080",
		BusinessHours:     BusinessHours{Start: defaults.BusinessStart, End: defaults.BusinessEnd},
		MaxDurationHours:  defaults.MaxDurationHours,
		MinDurationHours:  defaults.MinDurationHours,
		ValidationTimeout: defaults.Timeout,
		SlotLengthHours:   defaults.SlotLength.Hours(),
		MaxSuggestedSlots: defaults.MaxSlots,
		BestTimesCount:    defaults.BestTimes,
	}
}

// Load finds the config file in the working directory or the home directory.
// Without a file the defaults are used.
func Load() (*Config, error) {
	if _, err := os.Stat(FileName); err == nil {
		return LoadFromPath(FileName)
	}

	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, FileName)
		if _, err := os.Stat(path); err == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	applyEnv(cfg)
	return cfg, Validate(cfg)
}

// LoadFromPath reads the config at path on top of the defaults
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
}

// Validate checks field constraints and that every closure rule parses
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, "config validation failed")
	}

	for i, closure := range cfg.Closures {
		if _, err := rrule.StrToROption(closure.RRule); err != nil {
			return errors.Wrapf(err, "invalid rrule in closure %d (%s)", i, closure.Name)
		}
	}
	return nil
}

// ValidationOptions maps the config onto the validation pipeline's options.
// Call Validate first: closures whose rule does not parse are skipped.
func (c *Config) ValidationOptions() validation.Options {
	opts := validation.DefaultOptions()
	opts.BusinessStart = c.BusinessHours.Start
	opts.BusinessEnd = c.BusinessHours.End
	opts.MaxDurationHours = c.MaxDurationHours
	opts.MinDurationHours = c.MinDurationHours
	opts.Timeout = c.ValidationTimeout
	opts.SlotLength = time.Duration(c.SlotLengthHours * float64(time.Hour))
	opts.MaxSlots = c.MaxSuggestedSlots
	opts.BestTimes = c.BestTimesCount

	for _, closure := range c.Closures {
		option, err := rrule.StrToROption(closure.RRule)
		if err != nil {
			continue
		}
		opts.Closures = append(opts.Closures, validation.Closure{Name: closure.Name, Rule: *option})
	}
	return opts
}
