package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/HavvokLab/solis-cloud/setting"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	EnvPrefix     = "SOLIS"
	EnvConfigPath = "SOLIS_CONFIG"
)

var (
	once   sync.Once
	config *Config
)

// envKeys are bound explicitly so they resolve without a config file.
var envKeys = []string{
	"soliscloud.key_id",
	"soliscloud.key_secret",
	"soliscloud.base_url",
	"database.path",
	"log.level",
	"exporter.listen_address",
}

// GetConfig loads the process configuration once, from $SOLIS_CONFIG or
// config.yaml in the working directory or ./config.
func GetConfig() *Config {
	once.Do(func() {
		cfg, err := Load(os.Getenv(EnvConfigPath))
		if err != nil {
			log.Panic().Err(err).Msg("failed to load config")
		}
		config = cfg
	})

	return config
}

func Default() Config {
	return Config{
		SolisCloud: SolisCloudConfig{
			BaseURL:       setting.SolisDefaultBaseURL,
			RetryCount:    setting.SolisRetryCount,
			RetryInterval: setting.SolisRetryInterval,
			Timeout:       setting.SolisTimeout,
			PageSize:      setting.SolisPageSize,
		},
		Database: DatabaseConfig{Path: "database.db"},
		Log:      LogConfig{Level: "info"},
		Crontab: CrontabConfig{
			CollectTime:  setting.CrontabCollectTime,
			AlarmTime:    setting.CrontabAlarmTime,
			ScheduleTime: setting.CrontabScheduleTime,
		},
		Exporter: ExporterConfig{
			ListenAddress: ":9464",
			MetricsPath:   "/metrics",
		},
	}
}

// Load reads path (or searches for config.yaml when path is empty), applies
// SOLIS_* environment overrides and fills unset values from Default.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := mergo.Merge(&cfg, Default()); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	return &cfg, nil
}
