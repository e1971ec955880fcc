package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"togglbar/internal/settings"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	APIKey              string `yaml:"api_key"`
	TargetDailyHours    int    `yaml:"target_daily_hours"`
	TargetWeeklyHours   int    `yaml:"target_weekly_hours"`
	PomodoroSizeMinutes int    `yaml:"pomodoro_size_minutes"`
	LaunchAtLogin       bool   `yaml:"launch_at_login"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (settings.Settings, error) {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings.Default(), err
	}
	return LoadSettingsFile(configPath)
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, current settings.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, current)
}

// LoadSettingsFile reads user preferences from the given path.
func LoadSettingsFile(configPath string) (settings.Settings, error) {
	current := settings.Default()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return current, nil
		}
		return current, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return current, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&current, fileData)
	return current, nil
}

// SaveSettingsFile writes user preferences to the given path. The file is
// created private since it carries the API key.
func SaveSettingsFile(configPath string, current settings.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		APIKey:              current.APIKey,
		TargetDailyHours:    current.TargetDailyHours,
		TargetWeeklyHours:   current.TargetWeeklyHours,
		PomodoroSizeMinutes: current.PomodoroSizeMinutes,
		LaunchAtLogin:       current.LaunchAtLogin,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(current *settings.Settings, fileData yamlSettings) {
	current.APIKey = fileData.APIKey
	if fileData.TargetDailyHours > 0 {
		current.TargetDailyHours = fileData.TargetDailyHours
	}
	if fileData.TargetWeeklyHours > 0 {
		current.TargetWeeklyHours = fileData.TargetWeeklyHours
	}
	if fileData.PomodoroSizeMinutes > 0 {
		current.PomodoroSizeMinutes = fileData.PomodoroSizeMinutes
	}
	current.LaunchAtLogin = fileData.LaunchAtLogin
}
