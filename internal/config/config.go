package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/agisilaos/tod/internal/app/tasks"
)

const (
	appName           = "tod"
	defaultConfigFile = "config.json"
	projectConfigFile = ".tod.json"
	EnvPrefix         = "TOD"

	DefaultTimeoutSeconds   = 10
	DefaultMaxCommentLength = 500
)

type Config struct {
	BaseURL          string        `mapstructure:"base_url" json:"base_url" yaml:"base_url,omitempty"`
	TimeoutSeconds   int           `mapstructure:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
	Timezone         string        `mapstructure:"timezone" json:"timezone" yaml:"timezone,omitempty"`
	DefaultProfile   string        `mapstructure:"default_profile" json:"default_profile" yaml:"default_profile,omitempty"`
	DisableLinks     bool          `mapstructure:"disable_links" json:"disable_links" yaml:"disable_links"`
	MaxCommentLength int           `mapstructure:"max_comment_length" json:"max_comment_length" yaml:"max_comment_length"`
	SortValue        tasks.Weights `mapstructure:"sort_value" json:"sort_value" yaml:"sort_value"`
	NextTaskID       string        `mapstructure:"next_task_id" json:"next_task_id" yaml:"next_task_id,omitempty"`
	Completed        Completed     `mapstructure:"completed" json:"completed" yaml:"completed,omitempty"`
}

type Completed struct {
	Date  string `mapstructure:"date" json:"date" yaml:"date,omitempty"`
	Count int    `mapstructure:"count" json:"count" yaml:"count,omitempty"`
}

func (c Config) Weights() tasks.Weights {
	return c.SortValue
}

type LoadOptions struct {
	UserPath    string
	ProjectPath string
	Overrides map[string]any
}

func DefaultUserConfigPath() (string, error) {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appName, defaultConfigFile), nil
}

func DefaultProjectConfigPath(cwd string) string {
	return filepath.Join(cwd, projectConfigFile)
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	setDefaults(v)
	for _, path := range []string{opts.UserPath, opts.ProjectPath} {
		if err := mergeFile(v, path); err != nil {
			return Config{}, err
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range opts.Overrides {
		v.Set(key, value)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "")
	v.SetDefault("timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("timezone", "")
	v.SetDefault("default_profile", "")
	v.SetDefault("disable_links", false)
	v.SetDefault("max_comment_length", DefaultMaxCommentLength)
	v.SetDefault("next_task_id", "")
	v.SetDefault("completed.date", "")
	v.SetDefault("completed.count", 0)
	for key, value := range WeightSettings(tasks.DefaultWeights()) {
		v.SetDefault("sort_value."+key, value)
	}
}

func WeightSettings(w tasks.Weights) map[string]any {
	return map[string]any{
		"no_due_date":     w.NoDueDate,
		"today":           w.Today,
		"overdue":         w.Overdue,
		"now":             w.Now,
		"not_recurring":   w.NotRecurring,
		"priority_none":   w.PriorityNone,
		"priority_low":    w.PriorityLow,
		"priority_medium": w.PriorityMedium,
		"priority_high":   w.PriorityHigh,
		"deadline_days":   w.DeadlineDays,
		"deadline_value":  w.DeadlineValue,
	}
}

func mergeFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type Store struct {
	Path string
}

func (s Store) read() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("json")
	if err := mergeFile(v, s.Path); err != nil {
		return nil, err
	}
	return v, nil
}

func (s Store) Get(key string) (any, error) {
	v, err := s.read()
	if err != nil {
		return nil, err
	}
	return v.Get(key), nil
}

func (s Store) Set(values map[string]any) error {
	v, err := s.read()
	if err != nil {
		return err
	}
	for key, value := range values {
		v.Set(key, value)
	}
	return writeJSON(s.Path, v.AllSettings())
}

func (s Store) SetTimezone(name string) error {
	return s.Set(map[string]any{"timezone": name})
}

func (s Store) ResetWeights() error {
	return s.Set(map[string]any{"sort_value": WeightSettings(tasks.DefaultWeights())})
}

func (s Store) RememberNextTask(id string) error {
	return s.Set(map[string]any{"next_task_id": id})
}

func (s Store) RecordCompletion(taskID, today string) (Completed, error) {
	v, err := s.read()
	if err != nil {
		return Completed{}, err
	}
	done := Completed{Date: today, Count: 1}
	if v.GetString("completed.date") == today {
		done.Count = v.GetInt("completed.count") + 1
	}
	v.Set("completed", map[string]any{"date": done.Date, "count": done.Count})
	if taskID != "" && v.GetString("next_task_id") == taskID {
		v.Set("next_task_id", "")
	}
	return done, writeJSON(s.Path, v.AllSettings())
}

func EnsureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o700)
}

func writeJSON(path string, settings map[string]any) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
