package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything kudos needs to reach the reaction API and its
// shared data directory.
type Config struct {
	APIBind  string
	DataDir  string
	FreshFor time.Duration
	Items    []string
	User     string
	Token    string
}

const (
	defaultConfigPath = "~/.config/kudos/config.toml"
	defaultDataDir    = "~/.local/share/kudos"
	defaultAPIBind    = "127.0.0.1:8642"
	defaultFreshSecs  = 60
)

// Load locates and parses the kudos config, falling back to defaults when
// missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIBind:  defaultAPIBind,
		FreshFor: defaultFreshSecs * time.Second,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.DataDir = mustExpand(defaultDataDir)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBind   string   `toml:"api_bind"`
		DataDir   string   `toml:"data_dir"`
		FreshSecs int      `toml:"fresh_secs"`
		Items     []string `toml:"items"`
		Session   struct {
			User  string `toml:"user"`
			Token string `toml:"token"`
		} `toml:"session"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBind = strings.TrimSpace(raw.APIBind)
	if cfg.APIBind == "" {
		cfg.APIBind = defaultAPIBind
	}

	cfg.DataDir = strings.TrimSpace(raw.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	cfg.DataDir = mustExpand(cfg.DataDir)

	if raw.FreshSecs > 0 {
		cfg.FreshFor = time.Duration(raw.FreshSecs) * time.Second
	}

	for _, item := range raw.Items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			cfg.Items = append(cfg.Items, trimmed)
		}
	}

	cfg.User = strings.TrimSpace(raw.Session.User)
	cfg.Token = strings.TrimSpace(raw.Session.Token)

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
