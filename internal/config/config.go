// Package config loads the plate tool configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Layout  LayoutConfig  `yaml:"layout"`
	Auth    AuthConfig    `yaml:"auth"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

type LayoutConfig struct {
	Variant string `yaml:"variant"` // sequential | flagged
	Rows    int    `yaml:"rows"`    // 0 = variant default
	Cols    int    `yaml:"cols"`    // 0 = variant default
}

type AuthConfig struct {
	// Password is the shared secret, plain text or a bcrypt hash.
	// Empty disables the gate.
	Password    string `yaml:"password"`
	MaxAttempts int    `yaml:"max_attempts"`
}

type OutputConfig struct {
	Driver       string   `yaml:"driver"` // dir | s3
	Dir          string   `yaml:"dir"`
	CSVName      string   `yaml:"csv_name"`
	WorkbookName string   `yaml:"workbook_name"`
	GridName     string   `yaml:"grid_name"`
	S3           S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Variant: "sequential",
		},
		Auth: AuthConfig{
			MaxAttempts: 3,
		},
		Output: OutputConfig{
			Driver:       "dir",
			Dir:          ".",
			CSVName:      "updated_data.csv",
			WorkbookName: "9x12_table.xlsx",
			GridName:     "grid.csv",
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PLATE_PASSWORD"); v != "" {
		c.Auth.Password = v
	}
	if v := os.Getenv("PLATE_VARIANT"); v != "" {
		c.Layout.Variant = v
	}
	if v := os.Getenv("PLATE_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("PLATE_S3_BUCKET"); v != "" {
		c.Output.S3.Bucket = v
		c.Output.Driver = "s3"
	}
	if v := os.Getenv("PLATE_S3_REGION"); v != "" {
		c.Output.S3.Region = v
	}
	if v := os.Getenv("PLATE_S3_ENDPOINT"); v != "" {
		c.Output.S3.Endpoint = v
	}
	if v := os.Getenv("PLATE_S3_PREFIX"); v != "" {
		c.Output.S3.Prefix = v
	}
	if v := os.Getenv("PLATE_S3_PATH_STYLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Output.S3.PathStyle = b
		}
	}
	if v := os.Getenv("PLATE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	switch c.Output.Driver {
	case "dir":
	case "s3":
		if c.Output.S3.Bucket == "" {
			return fmt.Errorf("output.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown output driver '%s'", c.Output.Driver)
	}
	if c.Layout.Rows < 0 || c.Layout.Cols < 0 {
		return fmt.Errorf("layout rows and cols must not be negative")
	}
	if c.Auth.MaxAttempts < 1 {
		c.Auth.MaxAttempts = 1
	}
	return nil
}
