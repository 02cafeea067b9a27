package settings

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Server: Server{
			Mode: "release",
			Host: "127.0.0.1",
			Port: 8080,
		},
		Logger: Logger{
			LogLevel:   "info",
			MaxBackups: 3,
			MaxAge:     7,
			MaxSize:    100,
		},
		Index: Index{
			Order:         32,
			CompactRatio:  0.25,
			MinTombstones: 1024,
			BloomCapacity: 1 << 16,
			BloomFPRate:   0.01,
		},
		Bench: Bench{
			Orders:     []int{4, 16, 64, 256, 1024},
			Elements:   10_000,
			MaxValue:   1_000_000,
			NumQueries: 100_000,
			Seed:       1,
		},
	}
}

// Load reads the YAML file at path over Default and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "failed to parse config %s", path)
		}
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field constraint of cfg.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if cfg.Index.BloomCapacity > 0 && cfg.Index.BloomFPRate == 0 {
		return errors.New("invalid config: index.bloom_fp_rate is required with index.bloom_capacity")
	}
	return nil
}

// ValidateBench checks the benchmark section on its own.
func ValidateBench(b Bench) error {
	return errors.Wrap(validate.Struct(b), "invalid bench config")
}
