package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Feeds    []FeedSource   `mapstructure:"feeds"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite, postgres
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogLevel     string `mapstructure:"log_level"` // silent, error, warn, info
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, console
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// IngestConfig 订阅源抓取参数
type IngestConfig struct {
	InitialDelay     time.Duration `mapstructure:"initial_delay"`
	Interval         time.Duration `mapstructure:"interval"` // 0 表示只在启动后跑一次
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	MaxItemsPerFeed  int           `mapstructure:"max_items_per_feed"`
	UserAgent        string        `mapstructure:"user_agent"`
	PlaceholderImage string        `mapstructure:"placeholder_image"`
	LockTTL          time.Duration `mapstructure:"lock_ttl"`
	TriggerRate      float64       `mapstructure:"trigger_rate"` // 手动触发每秒允许次数
	TriggerBurst     int           `mapstructure:"trigger_burst"`
}

// FeedSource 一个外部订阅源
type FeedSource struct {
	Name    string   `mapstructure:"name"`
	URL     string   `mapstructure:"url"`
	LogoURL string   `mapstructure:"logo_url"`
	Tags    []string `mapstructure:"tags"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// Load 读取 config.yaml（可选）+ 环境变量（TAYAR_ 前缀）
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("TAYAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.Feeds) == 0 {
		cfg.Feeds = DefaultFeedSources()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.handler_timeout", 30*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:tayar?mode=memory&cache=shared")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("ingest.initial_delay", 5*time.Second)
	v.SetDefault("ingest.interval", time.Duration(0))
	v.SetDefault("ingest.fetch_timeout", 10*time.Second)
	v.SetDefault("ingest.max_items_per_feed", 10)
	v.SetDefault("ingest.user_agent", "Tayar RSS Reader/1.0")
	v.SetDefault("ingest.placeholder_image", "https://images.unsplash.com/photo-1555066931-4365d14bab8c")
	v.SetDefault("ingest.lock_ttl", 5*time.Minute)
	v.SetDefault("ingest.trigger_rate", 0.2)
	v.SetDefault("ingest.trigger_burst", 2)

	v.SetDefault("seed.enabled", true)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "tayar")
	v.SetDefault("tracing.insecure", true)
}

// Validate 检查无法靠默认值兜底的字段
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q (expected sqlite or postgres)", c.Database.Driver)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	for i, f := range c.Feeds {
		if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.URL) == "" {
			return fmt.Errorf("feeds[%d]: name and url are required", i)
		}
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return errors.New("tracing.endpoint is required when tracing is enabled")
	}
	return nil
}

// DefaultFeedSources 默认抓取的技术博客
func DefaultFeedSources() []FeedSource {
	return []FeedSource{
		{Name: "CSS-Tricks", URL: "https://css-tricks.com/feed/", LogoURL: "https://css-tricks.com/favicon.ico", Tags: []string{"css", "webdev", "frontend"}},
		{Name: "freeCodeCamp", URL: "https://www.freecodecamp.org/news/rss/", LogoURL: "https://www.freecodecamp.org/favicon-32x32.png", Tags: []string{"webdev", "tutorial", "programming"}},
		{Name: "Dev.to", URL: "https://dev.to/feed/", LogoURL: "https://dev.to/favicon.ico", Tags: []string{"webdev", "programming", "development"}},
		{Name: "The GitHub Blog", URL: "https://github.blog/feed/", LogoURL: "https://github.githubassets.com/favicons/favicon.png", Tags: []string{"github", "opensource", "development"}},
		{Name: "Smashing Magazine", URL: "https://www.smashingmagazine.com/feed/", LogoURL: "https://www.smashingmagazine.com/images/favicon/favicon.png", Tags: []string{"design", "webdev", "ux"}},
		{Name: "JavaScript Weekly", URL: "https://cprss.s3.amazonaws.com/javascriptweekly.com.xml", LogoURL: "https://javascriptweekly.com/favicon.png", Tags: []string{"javascript", "webdev", "frontend"}},
	}
}
