package config

import (
	"fmt"
	"strings"

	"github.com/petshop-next/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	UserJWT   JWTConfig       `mapstructure:"user_jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Email     EmailConfig     `mapstructure:"email"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Shop      ShopConfig      `mapstructure:"shop"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig 用户令牌配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// EmailConfig SMTP 配置
type EmailConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	From          string `mapstructure:"from"`
	FromName      string `mapstructure:"from_name"`
	UseTLS        bool   `mapstructure:"use_tls"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	NotifyAddress string `mapstructure:"notify_address"` // 退货申请等后台通知收件人，为空时使用 From
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// RateLimitRuleConfig 单条限流规则，任一值非正时不限流
type RateLimitRuleConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// RateLimitConfig 接口限流配置，依赖 Redis
type RateLimitConfig struct {
	Login      RateLimitRuleConfig `mapstructure:"login"`
	Newsletter RateLimitRuleConfig `mapstructure:"newsletter"`
	Checkout   RateLimitRuleConfig `mapstructure:"checkout"`
}

// ShopConfig 店铺定价与结算配置
type ShopConfig struct {
	Currency     string           `mapstructure:"currency"`
	ShippingCost string           `mapstructure:"shipping_cost"`
	TaxRate      string           `mapstructure:"tax_rate"`
	EnforceStock bool             `mapstructure:"enforce_stock"`
	Checkout     CheckoutConfig   `mapstructure:"checkout"`
	Newsletter   NewsletterConfig `mapstructure:"newsletter"`
}

// CheckoutConfig 结算事务配置
type CheckoutConfig struct {
	MaxCommitAttempts int `mapstructure:"max_commit_attempts"`
	StageTTLSeconds   int `mapstructure:"stage_ttl_seconds"`
}

// NewsletterConfig 订阅欢迎码配置
type NewsletterConfig struct {
	WelcomeCode      string `mapstructure:"welcome_code"`
	WelcomePercent   int    `mapstructure:"welcome_percent"`
	WelcomeValidDays int    `mapstructure:"welcome_valid_days"`
	WelcomeMaxUses   int    `mapstructure:"welcome_max_uses"`
}

// ShippingCostDecimal 解析运费，非法值回退到 0
func (c ShopConfig) ShippingCostDecimal() decimal.Decimal {
	return parseDecimalOr(c.ShippingCost, decimal.Zero)
}

// TaxRateDecimal 解析税率，非法值回退到 0
func (c ShopConfig) TaxRateDecimal() decimal.Decimal {
	return parseDecimalOr(c.TaxRate, decimal.Zero)
}

func parseDecimalOr(raw string, fallback decimal.Decimal) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil || d.IsNegative() {
		logger.Warnw("config_invalid_decimal", "value", raw, "error", err)
		return fallback
	}
	return d
}

// SetDefaults 注册全部默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/petshop.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("user_jwt.secret", "user-change-me-in-production")
	v.SetDefault("user_jwt.expire_hours", 24)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "ps")
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
		"bulk":     2,
	})
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.host", "")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from", "")
	v.SetDefault("email.from_name", "PetShop")
	v.SetDefault("email.use_tls", true)
	v.SetDefault("email.use_ssl", false)
	v.SetDefault("email.notify_address", "")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("rate_limit.login.window_seconds", 300)
	v.SetDefault("rate_limit.login.max_requests", 10)
	v.SetDefault("rate_limit.newsletter.window_seconds", 3600)
	v.SetDefault("rate_limit.newsletter.max_requests", 5)
	v.SetDefault("rate_limit.checkout.window_seconds", 60)
	v.SetDefault("rate_limit.checkout.max_requests", 10)
	v.SetDefault("shop.currency", "RUB")
	v.SetDefault("shop.shipping_cost", "300.00")
	v.SetDefault("shop.tax_rate", "0.05")
	v.SetDefault("shop.enforce_stock", true)
	v.SetDefault("shop.checkout.max_commit_attempts", 3)
	v.SetDefault("shop.checkout.stage_ttl_seconds", 1800)
	v.SetDefault("shop.newsletter.welcome_code", "WELCOME30")
	v.SetDefault("shop.newsletter.welcome_percent", 30)
	v.SetDefault("shop.newsletter.welcome_valid_days", 30)
	v.SetDefault("shop.newsletter.welcome_max_uses", 1)
}

// Load 从 config.yml 加载配置
func Load() *Config {
	v := viper.GetViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")   // 从 cmd/server 运行
	v.AddConfigPath("./etc") // etc 文件夹

	SetDefaults(v)

	// 环境变量覆盖，例如 shop.shipping_cost -> SHOP_SHIPPING_COST
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	cfg, err := Decode(v)
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

// Decode 将 viper 实例解析为 Config
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Shop.Checkout.MaxCommitAttempts <= 0 {
		cfg.Shop.Checkout.MaxCommitAttempts = 1
	}
	return &cfg, nil
}
