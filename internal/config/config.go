package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// DataConfig locates the five input tables inside the data directory.
// XLSX variants of any file are accepted by the loader.
type DataConfig struct {
	Dir              string `yaml:"dir" envconfig:"DIR" validate:"required"`
	TrainFile        string `yaml:"train_file" envconfig:"TRAIN_FILE" default:"application_train.csv" validate:"required"`
	TestFile         string `yaml:"test_file" envconfig:"TEST_FILE" default:"application_test.csv" validate:"required"`
	BureauFile       string `yaml:"bureau_file" envconfig:"BUREAU_FILE" default:"bureau.csv" validate:"required"`
	PreviousFile     string `yaml:"previous_file" envconfig:"PREVIOUS_FILE" default:"previous_application.csv" validate:"required"`
	InstallmentsFile string `yaml:"installments_file" envconfig:"INSTALLMENTS_FILE" default:"installments_payments.csv" validate:"required"`
}

// OutputConfig controls persistence of the final feature tables.
type OutputConfig struct {
	// Dir defaults to <data dir>/output when empty.
	Dir             string `yaml:"dir" envconfig:"DIR"`
	Persist         bool   `yaml:"persist" envconfig:"PERSIST" default:"true"`
	TrainFile       string `yaml:"train_file" envconfig:"TRAIN_FILE" default:"features_train.csv" validate:"required"`
	TestFile        string `yaml:"test_file" envconfig:"TEST_FILE" default:"features_test.csv" validate:"required"`
	WriteAggregates bool   `yaml:"write_aggregates" envconfig:"WRITE_AGGREGATES" default:"true"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

// fileConfig mirrors Config for the YAML file. Booleans are pointers so an
// absent key is distinguishable from an explicit false.
type fileConfig struct {
	Data   DataConfig `yaml:"data"`
	Output struct {
		Dir             string `yaml:"dir"`
		Persist         *bool  `yaml:"persist"`
		TrainFile       string `yaml:"train_file"`
		TestFile        string `yaml:"test_file"`
		WriteAggregates *bool  `yaml:"write_aggregates"`
	} `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// Load builds the configuration from environment variables (prefix CRF) and
// an optional YAML config file. An explicitly set environment variable takes
// precedence over the file; file values override the struct defaults.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CRF", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		cfg.mergeFile(&file)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeFile merges file config into the env-populated config. Environment
// variables take precedence: a file value applies only when its variable was
// not explicitly set.
func (c *Config) mergeFile(file *fileConfig) {
	setString := func(dst *string, src, key string) {
		if src == "" {
			return
		}
		if _, fromEnv := os.LookupEnv(key); fromEnv {
			return
		}
		*dst = src
	}
	setBool := func(dst *bool, src *bool, key string) {
		if src == nil {
			return
		}
		if _, fromEnv := os.LookupEnv(key); fromEnv {
			return
		}
		*dst = *src
	}

	setString(&c.Data.Dir, file.Data.Dir, "CRF_DATA_DIR")
	setString(&c.Data.TrainFile, file.Data.TrainFile, "CRF_DATA_TRAIN_FILE")
	setString(&c.Data.TestFile, file.Data.TestFile, "CRF_DATA_TEST_FILE")
	setString(&c.Data.BureauFile, file.Data.BureauFile, "CRF_DATA_BUREAU_FILE")
	setString(&c.Data.PreviousFile, file.Data.PreviousFile, "CRF_DATA_PREVIOUS_FILE")
	setString(&c.Data.InstallmentsFile, file.Data.InstallmentsFile, "CRF_DATA_INSTALLMENTS_FILE")

	setString(&c.Output.Dir, file.Output.Dir, "CRF_OUTPUT_DIR")
	setBool(&c.Output.Persist, file.Output.Persist, "CRF_OUTPUT_PERSIST")
	setString(&c.Output.TrainFile, file.Output.TrainFile, "CRF_OUTPUT_TRAIN_FILE")
	setString(&c.Output.TestFile, file.Output.TestFile, "CRF_OUTPUT_TEST_FILE")
	setBool(&c.Output.WriteAggregates, file.Output.WriteAggregates, "CRF_OUTPUT_WRITE_AGGREGATES")

	setString(&c.Logging.Level, file.Logging.Level, "CRF_LOGGING_LEVEL")
	setString(&c.Logging.Format, file.Logging.Format, "CRF_LOGGING_FORMAT")
}

// applyDefaults fills values that depend on other fields.
func (c *Config) applyDefaults() {
	if c.Output.Dir == "" && c.Data.Dir != "" {
		c.Output.Dir = filepath.Join(c.Data.Dir, "output")
	}
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// InputPath resolves an input file name against the data directory.
func (c *Config) InputPath(file string) string {
	return filepath.Join(c.Data.Dir, file)
}

// OutputPath resolves an output file name against the output directory.
func (c *Config) OutputPath(file string) string {
	return filepath.Join(c.Output.Dir, file)
}
