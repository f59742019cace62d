package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		CountriesTTL   string `yaml:"countries_ttl"`
		LeaderboardKey string `yaml:"leaderboard_key"`
	} `yaml:"quiz"`
}

// DefaultLeaderboardKey names the durable leaderboard record when the config
// leaves it unset.
const DefaultLeaderboardKey = "quiz:leaderboard"

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LeaderboardKey returns the configured record key or the default.
func (c Config) LeaderboardKey() string {
	if c.Quiz.LeaderboardKey != "" {
		return c.Quiz.LeaderboardKey
	}
	return DefaultLeaderboardKey
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
