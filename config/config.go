package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/huesheets/hue-sheets/auth"
	"github.com/huesheets/hue-sheets/hue"
)

const (
	DefaultConfig  = "config/default.json"
	DefaultEnv     = ".env"
	DefaultSecrets = "./secrets/oauth_client.json"
)

type Config struct {
	Hue    Hue    `json:"hue" yaml:"hue" toml:"hue"`
	Sheets Sheets `json:"sheets" yaml:"sheets" toml:"sheets"`
	Google Google `json:"google" yaml:"google" toml:"google"`
}

type Hue struct {
	IP          string   `json:"ip" yaml:"ip" toml:"ip" env:"HUE_IP" env-required:"true"`
	AppUsername string   `json:"appUsername" yaml:"appUsername" toml:"appUsername" env:"HUE_APP_USERNAME" env-required:"true"`
	SensorType  string   `json:"sensorType" yaml:"sensorType" toml:"sensorType" env:"HUE_SENSOR_TYPE" env-default:"ZLLTemperature"`
	Timeout     Duration `json:"timeout" yaml:"timeout" toml:"timeout" env:"HUE_TIMEOUT" env-default:"30s"`
}

type Sheets struct {
	ID    string `json:"id" yaml:"id" toml:"id" env:"SHEETS_ID" env-required:"true"`
	Range string `json:"range" yaml:"range" toml:"range" env:"SHEETS_RANGE" env-required:"true"`
}

type Google struct {
	Secrets string `json:"secrets" yaml:"secrets" toml:"secrets" env:"GOOGLE_SECRETS" env-default:"./secrets/oauth_client.json"`
	Tokens  string `json:"tokens" yaml:"tokens" toml:"tokens" env:"GOOGLE_TOKENS"`
}

// Load reads the configuration from 'file' (JSON, YAML or TOML by extension) with
// environment overrides. A .env file in the working directory is loaded into the
// environment first, if present. A missing configuration file is not an error as
// long as the required values are supplied by the environment.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(DefaultEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading %v (%w)", DefaultEnv, err)
	}

	cfg := Config{}

	if _, err := os.Stat(file); err == nil {
		if err := cleanenv.ReadConfig(file, &cfg); err != nil {
			return nil, fmt.Errorf("error reading configuration from %v (%w)", file, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("incomplete configuration (%w)", err)
	}

	if cfg.Hue.SensorType == "" {
		cfg.Hue.SensorType = hue.ZLLTemperature
	}

	if cfg.Google.Secrets == "" {
		cfg.Google.Secrets = DefaultSecrets
	}

	if cfg.Google.Tokens == "" {
		tokens, err := auth.DefaultTokens(os.Getenv)
		if err != nil {
			return nil, err
		}

		cfg.Google.Tokens = tokens
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Hue.IP) == "" {
		return fmt.Errorf("hue.ip is a required configuration value")
	}

	if strings.TrimSpace(c.Hue.AppUsername) == "" {
		return fmt.Errorf("hue.appUsername is a required configuration value")
	}

	if strings.TrimSpace(c.Sheets.ID) == "" {
		return fmt.Errorf("sheets.id is a required configuration value")
	}

	if strings.TrimSpace(c.Sheets.Range) == "" {
		return fmt.Errorf("sheets.range is a required configuration value")
	}

	if _, err := c.SpreadsheetID(); err != nil {
		return err
	}

	return nil
}

// SpreadsheetID returns sheets.id, which may be either a bare spreadsheet ID or the
// spreadsheet URL.
func (c *Config) SpreadsheetID() (string, error) {
	id := strings.TrimSpace(c.Sheets.ID)

	if strings.HasPrefix(id, "https://") {
		match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(id)
		if len(match) < 2 || match[1] == "" {
			return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
		}

		return match[1], nil
	}

	return id, nil
}
