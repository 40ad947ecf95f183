package config

import "time"

type Config struct {
	SolisCloud SolisCloudConfig `mapstructure:"soliscloud"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	SnmpList   []SnmpConfig     `mapstructure:"snmp_list"`
	Crontab    CrontabConfig    `mapstructure:"crontab"`
	Exporter   ExporterConfig   `mapstructure:"exporter"`
	Schedules  []ScheduleConfig `mapstructure:"schedules"`
}

type SolisCloudConfig struct {
	KeyID         string        `mapstructure:"key_id"`
	KeySecret     string        `mapstructure:"key_secret"`
	BaseURL       string        `mapstructure:"base_url"`
	RetryCount    int           `mapstructure:"retry_count"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	PageSize      int           `mapstructure:"page_size"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type SnmpConfig struct {
	AgentHost  string `mapstructure:"agent_host"`
	TargetHost string `mapstructure:"target_host"`
	TargetPort int    `mapstructure:"target_port"`
}

type CrontabConfig struct {
	CollectTime  string `mapstructure:"collect_time"`
	AlarmTime    string `mapstructure:"alarm_time"`
	ScheduleTime string `mapstructure:"schedule_time"`
}

type ExporterConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
	MetricsPath   string `mapstructure:"metrics_path"`
}

// ScheduleConfig is the charge/discharge schedule an inverter should carry,
// written in the 18-field SolisCloud value format.
type ScheduleConfig struct {
	InverterSN string `mapstructure:"inverter_sn"`
	Value      string `mapstructure:"value"`
}
