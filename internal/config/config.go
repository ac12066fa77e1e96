// Package config loads and saves user settings from the standard config
// directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// AppConfig holds user-configurable settings persisted to disk.
type AppConfig struct {
	GridSize   float64 `yaml:"grid_size"`
	SnapToGrid bool    `yaml:"snap_to_grid"`
	StorageDir string  `yaml:"storage_dir"`
	ServerURL  string  `yaml:"server_url"`
}

func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "stickpad", "config.yaml"), nil
}

func defaultStorageDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "stickpad"), nil
}

// Load reads the config file; returns defaults if the file does not exist.
func Load() (AppConfig, error) {
	path, err := configFilePath()
	if err != nil {
		return AppConfig{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaults()
	}
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := defaults()
	if err != nil {
		return AppConfig{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.GridSize <= 0 {
		cfg.GridSize = 20
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir, err = defaultStorageDir()
		if err != nil {
			return AppConfig{}, err
		}
	}
	return cfg, nil
}

// Save writes the config to disk, creating the config directory if needed.
func Save(cfg AppConfig) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func defaults() (AppConfig, error) {
	dir, err := defaultStorageDir()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		GridSize:   20,
		SnapToGrid: false,
		StorageDir: dir,
	}, nil
}
