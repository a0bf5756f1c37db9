package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 服务配置，来源：config.yaml + SYNDICATION_* 环境变量
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Processor ProcessorConfig `mapstructure:"processor"`
	Platforms PlatformsConfig `mapstructure:"platforms"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Tracing   TracingConfig   `mapstructure:"tracing"`

	// PublicBaseURL 求职者侧站点根地址，用于拼装 apply URL
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite, postgres
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ProcessorConfig struct {
	BatchSize int           `mapstructure:"batch_size"`
	Cron      string        `mapstructure:"cron"` // 为空则不启用定时触发
	LockKey   string        `mapstructure:"lock_key"`
	LockTTL   time.Duration `mapstructure:"lock_ttl"`
}

type PlatformsConfig struct {
	Indeed   BoardConfig `mapstructure:"indeed"`
	LinkedIn BoardConfig `mapstructure:"linkedin"`
}

type BoardConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// AccessToken 全局兜底凭证；组织级凭证存数据库
	AccessToken string  `mapstructure:"access_token"`
	RatePerSec  float64 `mapstructure:"rate_per_sec"`
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// Load 读取配置；配置文件缺失时仅用默认值 + 环境变量
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("SYNDICATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "syndication.db")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("processor.batch_size", 20)
	v.SetDefault("processor.lock_key", "syndication:processor:lock")
	v.SetDefault("processor.lock_ttl", 2*time.Minute)
	v.SetDefault("platforms.indeed.rate_per_sec", 5)
	v.SetDefault("platforms.linkedin.rate_per_sec", 5)
	v.SetDefault("tracing.service_name", "canopy-syndication")
	v.SetDefault("public_base_url", "https://jobs.canopy.example")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
