// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

// DisciplineConfig holds the card-to-suspension policy constants. The values
// are policy, not rules: leagues tune them without code changes.
type DisciplineConfig struct {
	// YellowCardThreshold is how many accumulated yellows in a scope trigger
	// one suspension episode.
	YellowCardThreshold int64 `yaml:"yellow_card_threshold"`
	// YellowCardGames is the length of a yellow-accumulation suspension.
	YellowCardGames int64 `yaml:"yellow_card_games"`
	// RedCardGames is the length of the suspension each red card earns.
	RedCardGames int64 `yaml:"red_card_games"`
}

type NotificationsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	AWSRegion string `yaml:"aws_region"`
	Sender    string `yaml:"sender"`
	// Credentials are loaded from environment, never from the file.
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type SchedulerConfig struct {
	ReportReminderCron string `yaml:"report_reminder_cron"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		Timezone    string `yaml:"timezone"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database      DatabaseConfig      `yaml:"database"`
	Discipline    DisciplineConfig    `yaml:"discipline"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Notifications.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Notifications.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Discipline.YellowCardThreshold == 0 {
		c.Discipline.YellowCardThreshold = 2
	}
	if c.Discipline.YellowCardGames == 0 {
		c.Discipline.YellowCardGames = 1
	}
	if c.Discipline.RedCardGames == 0 {
		c.Discipline.RedCardGames = 2
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "America/Sao_Paulo"
	}
	if c.Scheduler.ReportReminderCron == "" {
		c.Scheduler.ReportReminderCron = "0 * * * *"
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}
	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.Filename == "" {
		return fmt.Errorf("database filename is required for sqlite")
	}
	if c.Discipline.YellowCardThreshold < 1 {
		return fmt.Errorf("yellow card threshold must be at least 1")
	}
	if c.Discipline.YellowCardGames < 1 || c.Discipline.RedCardGames < 1 {
		return fmt.Errorf("suspension lengths must be at least 1 game")
	}
	if c.Notifications.Enabled {
		if c.Notifications.AWSRegion == "" || c.Notifications.Sender == "" {
			return fmt.Errorf("notifications require aws_region and sender")
		}
	}
	return nil
}
