package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	StorageDriverSQLite    = "sqlite"
	StorageDriverFirestore = "firestore"

	LoggingBackendConsole = "console"
	LoggingBackendGCP     = "gcp"
)

type Config struct {
	Discord     DiscordConfig
	Wordcab     WordcabConfig
	Summarize   SummarizeConfig
	Storage     StorageConfig
	Logging     LoggingConfig
	GoogleCloud GoogleCloudConfig `yaml:"google_cloud"`
	Queue       QueueConfig
	Metrics     MetricsConfig
}

type DiscordConfig struct {
	Token            string
	TestingGuildID   string        `yaml:"testing_guild_id"`
	DMRatePerSecond  float64       `yaml:"dm_rate_per_second"`
	LogoutPromptTime time.Duration `yaml:"logout_prompt_time"`
}

type WordcabConfig struct {
	APIURL         string        `yaml:"api_url"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	MaxWait        time.Duration `yaml:"max_wait"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SummaryType    string        `yaml:"summary_type"`
}

type SummarizeConfig struct {
	MaxChars        int      `yaml:"max_chars"`
	MinChars        int      `yaml:"min_chars"`
	DefaultLanguage string   `yaml:"default_language"`
	Languages       []string `yaml:"languages"`
}

type StorageConfig struct {
	Driver  string
	DataDir string `yaml:"data_dir"`
}

type LoggingConfig struct {
	Backend    string
	LogID      string `yaml:"log_id"`
	File       string
	Level      string
	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
}

type GoogleCloudConfig struct {
	ProjectID              string `yaml:"project_id"`
	ServiceAccountFilename string `yaml:"service_account_filename"`
}

type QueueConfig struct {
	Topic        string
	Subscription string
	LocalUsage   bool `yaml:"local_usage"`
}

type MetricsConfig struct {
	Address string
}

func Default() *Config {
	return &Config{
		Discord: DiscordConfig{
			DMRatePerSecond:  2,
			LogoutPromptTime: 30 * time.Second,
		},
		Wordcab: WordcabConfig{
			APIURL:         "https://wordcab.com/api/v1",
			PollInterval:   3 * time.Second,
			MaxWait:        30 * time.Minute,
			RequestTimeout: 30 * time.Second,
			SummaryType:    "conversational",
		},
		Summarize: SummarizeConfig{
			MaxChars:        4000,
			MinChars:        1000,
			DefaultLanguage: "en",
			Languages:       []string{"de", "en", "es", "fr", "it"},
		},
		Storage: StorageConfig{
			Driver:  StorageDriverSQLite,
			DataDir: ".",
		},
		Logging: LoggingConfig{
			Backend:    LoggingBackendConsole,
			LogID:      "tldr",
			File:       "discord.log",
			Level:      "info",
			MaxSizeMB:  32,
			MaxBackups: 5,
		},
	}
}

// ReadConfig loads filename over the defaults, then applies .env and environment overrides.
// A missing file is only an error when required is true.
func ReadConfig(filename string, required bool) (*Config, error) {
	cfg := Default()

	f, err := os.ReadFile(filename)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || required {
			return nil, err
		}
	} else {
		if err = yaml.Unmarshal(f, cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s, %w", filename, err)
		}
	}

	_ = godotenv.Load()
	cfg.applyEnvironment()

	return cfg, nil
}

func (c *Config) applyEnvironment() {
	if v := os.Getenv("DISCORD_TOKEN"); len(v) > 0 {
		c.Discord.Token = v
	}
	if v := os.Getenv("DATABASE_VOLUME"); len(v) > 0 {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("TESTING_GUILD_ID"); len(v) > 0 {
		c.Discord.TestingGuildID = v
	}
	if v := os.Getenv("WORDCAB_API_URL"); len(v) > 0 {
		c.Wordcab.APIURL = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); len(v) > 0 {
		c.GoogleCloud.ProjectID = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); len(v) > 0 {
		c.Metrics.Address = v
	}
}

func (c *Config) Validate() error {
	if len(strings.TrimSpace(c.Discord.Token)) == 0 {
		return errors.New("missing discord token, set DISCORD_TOKEN or discord.token")
	}

	switch c.Storage.Driver {
	case StorageDriverSQLite:
	case StorageDriverFirestore:
		if len(c.GoogleCloud.ProjectID) == 0 {
			return errors.New("firestore storage requires google_cloud.project_id")
		}
	default:
		return fmt.Errorf("unknown storage driver, %s", c.Storage.Driver)
	}

	switch c.Logging.Backend {
	case LoggingBackendConsole:
	case LoggingBackendGCP:
		if len(c.GoogleCloud.ProjectID) == 0 {
			return errors.New("gcp logging requires google_cloud.project_id")
		}
	default:
		return fmt.Errorf("unknown logging backend, %s", c.Logging.Backend)
	}

	if len(c.Logging.File) > 0 && (c.Logging.MaxSizeMB <= 0 || c.Logging.MaxBackups < 0) {
		return fmt.Errorf("invalid log rotation, max_size_mb %d, max_backups %d", c.Logging.MaxSizeMB, c.Logging.MaxBackups)
	}

	if c.Discord.LogoutPromptTime <= 0 {
		return fmt.Errorf("invalid discord.logout_prompt_time, %s", c.Discord.LogoutPromptTime)
	}

	if c.Wordcab.PollInterval <= 0 {
		return fmt.Errorf("invalid wordcab.poll_interval, %s", c.Wordcab.PollInterval)
	}

	if c.Wordcab.MaxWait <= 0 {
		return fmt.Errorf("invalid wordcab.max_wait, %s", c.Wordcab.MaxWait)
	}

	if c.Summarize.MinChars > c.Summarize.MaxChars {
		return fmt.Errorf("summarize.min_chars (%d) exceeds summarize.max_chars (%d)", c.Summarize.MinChars, c.Summarize.MaxChars)
	}

	return nil
}

func (c *Config) DatabasePath() string {
	return filepath.Join(c.Storage.DataDir, "bot-database.db")
}

func (c *Config) LogPath() string {
	if len(c.Logging.File) == 0 {
		return ""
	}
	if filepath.IsAbs(c.Logging.File) {
		return c.Logging.File
	}
	return filepath.Join(c.Storage.DataDir, c.Logging.File)
}

func (c *Config) MetricsDir() string {
	return filepath.Join(c.Storage.DataDir, "metrics")
}

func (c *Config) QueueEnabled() bool {
	return len(c.Queue.Topic) > 0 && len(c.GoogleCloud.ProjectID) > 0
}
