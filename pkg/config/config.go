package config

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// DefaultFile is read from the working directory unless another file is passed to Loader
const DefaultFile = "devrun.toml"

// Config describes all configuration options
type Config struct {
	Dir      string `default:"." toml:"dir" env:"DIR" usage:"Directory containing the Gradle wrapper"`
	Search   bool   `default:"false" toml:"search" env:"SEARCH" usage:"Search parent directories for the Gradle wrapper"`
	Wrapper  string `toml:"wrapper" env:"WRAPPER" usage:"Path to the Gradle wrapper (default: ./gradlew or ./gradlew.bat)"`
	Commands string `toml:"commands" env:"COMMANDS" usage:"YAML file with additional commands"`
	Color    bool   `default:"true" toml:"color" env:"COLOR" usage:"Colorize output"`
	Log      struct {
		Level string `default:"warn" toml:"level" env:"LEVEL"`
		JSON  bool   `default:"false" toml:"json" env:"JSON" usage:"Output JSONND instead of pretty console messages"`
	} `toml:"log" env:"LOG"`
}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object. Flags are
// handled by the CLI, so only defaults, files and the environment are consulted.
// Files passed explicitly must exist; without files DefaultFile is read if present.
func Loader(files ...string) (*Config, *aconfig.Loader) {
	explicit := len(files) > 0
	if !explicit {
		files = []string{DefaultFile}
	}

	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:          "DEVRUN",
		AllowUnknownEnvs:   true,
		SkipFlags:          true,
		FailOnFileNotFound: explicit,
		Files:              files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load reads the configuration and validates it
func Load(files ...string) (*Config, error) {
	cfg, loader := Loader(files...)
	err := loader.Load()
	if err != nil {
		return nil, eris.Wrap(err, "failed to load configuration")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	if cfg.Dir == "" {
		return eris.New(`dir must not be empty`)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}
