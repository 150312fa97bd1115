package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Database DatabaseConfig `mapstructure:"database"` // PostgreSQL配置
	Feed     FeedConfig     `mapstructure:"feed"`     // 开奖源配置
	Schedule ScheduleConfig `mapstructure:"schedule"` // 每日播报调度配置
	Telegram TelegramConfig `mapstructure:"telegram"` // Telegram 通知配置（可选）
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// DatabaseConfig PostgreSQL数据库配置
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// FeedConfig 开奖源配置
type FeedConfig struct {
	BaseURL         string   `mapstructure:"base_url"`         // API基础地址
	Timeout         int      `mapstructure:"timeout"`          // 请求超时（秒）
	RetryCount      int      `mapstructure:"retry_count"`      // 重试次数
	Proxy           string   `mapstructure:"proxy"`            // 代理地址
	Slots           []string `mapstructure:"slots"`            // 每日开奖时段列表，如 09:00
	CooldownSeconds int      `mapstructure:"cooldown_seconds"` // 拉取冷却窗口（秒）
}

// Cooldown 冷却窗口，未配置时默认 60 秒
func (f *FeedConfig) Cooldown() time.Duration {
	if f.CooldownSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(f.CooldownSeconds) * time.Second
}

// ScheduleConfig 每日播报调度配置
type ScheduleConfig struct {
	PublishTime string `mapstructure:"publish_time"` // 每日发布时刻 HH:MM（早于首个时段）
	Timezone    string `mapstructure:"timezone"`     // 本地时区，如 America/Caracas
}

// TelegramConfig Telegram 通知配置
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"` // 是否开启
	Token   string `mapstructure:"token"`   // Bot Token（建议通过 .env 注入）
	ChatID  int64  `mapstructure:"chat_id"` // 播报频道/群ID
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)

	if len(cfg.Feed.Slots) == 0 {
		cfg.Feed.Slots = []string{"09:00", "12:00", "16:00", "19:00"}
	}
	if cfg.Schedule.PublishTime == "" {
		cfg.Schedule.PublishTime = "07:30"
	}
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("FEED_PROXY"); v != "" {
		cfg.Feed.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
}
