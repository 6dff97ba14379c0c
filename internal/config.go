package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the file-backed settings that sit underneath the command
// line flags, plus the persisted command history.
type Config struct {
	Device      string `mapstructure:"device"`
	Baud        int    `mapstructure:"baud"`
	FlashCmd    string `mapstructure:"flash_cmd"`
	WatchPath   string `mapstructure:"watch_path"`
	Timestamp   bool   `mapstructure:"timestamp"`
	ShowEscapes bool   `mapstructure:"show_escapes"`
	LogLimit    int    `mapstructure:"log_limit"`

	History []string `mapstructure:"-"`

	histFile string
}

// LoadConfig reads ~/.config/teaflash/config.toml and the persisted
// command history. A missing config file yields the defaults.
func LoadConfig() (Config, error) {
	dir, err := configDir()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	v.SetDefault("device", "")
	v.SetDefault("baud", 115200)
	v.SetDefault("flash_cmd", "")
	v.SetDefault("watch_path", "")
	v.SetDefault("timestamp", false)
	v.SetDefault("show_escapes", false)
	v.SetDefault("log_limit", 2000)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	cfg.histFile = filepath.Join(dir, "history")
	if raw, err := os.ReadFile(cfg.histFile); err == nil {
		for _, line := range strings.Split(string(raw), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				cfg.History = append(cfg.History, line)
			}
		}
	}

	return cfg, nil
}

// StoreHistory writes the command history back, one command per line.
func (c Config) StoreHistory(hist []string) error {
	if c.histFile == "" || len(hist) == 0 {
		return nil
	}
	return os.WriteFile(c.histFile, []byte(strings.Join(hist, "\n")+"\n"), 0o644)
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "teaflash")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
