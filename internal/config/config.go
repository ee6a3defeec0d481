package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the browser-like User-Agent string sent with all HTTP
// requests and handed to ffmpeg as its outbound user agent override.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/86.0.4240.198 Safari/537.36"

type Config struct {
	APIDomain       string `mapstructure:"api_domain"`        // API envelope host, e.g. "https://api.bilibili.com"
	SiteDomain      string `mapstructure:"site_domain"`       // canonical site, used for referer headers
	ShortLinkDomain string `mapstructure:"short_link_domain"` // short-link host expanded before parsing
	UserAgent       string `mapstructure:"user_agent"`
	ClientTimeout   string `mapstructure:"client_timeout"` // Go duration string like "10s"
	CredentialsFile string `mapstructure:"credentials_file"`
	LoginHelper     string `mapstructure:"login_helper"` // external interactive login executable
	FFmpegPath      string `mapstructure:"ffmpeg_path"`
	LogLevel        string `mapstructure:"log_level"`
	Cache           struct {
		Provider      string `mapstructure:"provider"` // "memory" or "redis"
		Size          int    `mapstructure:"size"`     // maximum entries per cache
		TTL           string `mapstructure:"ttl"`      // Go duration string
		RedisAddress  string `mapstructure:"redis_address"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
	} `mapstructure:"cache"`
	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"metrics"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	globalConfig = config
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("BILICLIP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetDefault("api_domain", "https://api.bilibili.com")
	viper.SetDefault("site_domain", "https://www.bilibili.com")
	viper.SetDefault("short_link_domain", "b23.tv")
	viper.SetDefault("client_timeout", "10s")
	viper.SetDefault("credentials_file", "cookies.json")
	viper.SetDefault("login_helper", "biliup")
	viper.SetDefault("ffmpeg_path", "ffmpeg")
	viper.SetDefault("cache.provider", "memory")
	viper.SetDefault("cache.size", 4096)
	viper.SetDefault("cache.ttl", "168h")
	viper.SetDefault("metrics.address", "localhost")
	viper.SetDefault("metrics.port", 9090)

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}
