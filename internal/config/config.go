package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API       *APIConfig          `mapstructure:"api"`
	Gin       *GinConfig          `mapstructure:"gin"`
	Postgres  *PostgresConfig     `mapstructure:"postgres"`
	Redis     *RedisConfig        `mapstructure:"redis"`
	Scheduler *SchedulerConfig    `mapstructure:"scheduler"`
	I18n      *I18nConfig         `mapstructure:"i18n"`
	Roles     map[string][]string `mapstructure:"roles"`

	// Creation is re-read whenever the config file changes.
	Creation *CreationSource `mapstructure:"-"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

// RedisConfig enables event publishing when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

func (c *RedisConfig) Enabled() bool {
	return c != nil && c.Addr != ""
}

type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Spec    string `mapstructure:"spec"`
}

type I18nConfig struct {
	DefaultLocale string `mapstructure:"default_locale"`
}

// Load reads the YAML file at path, then applies APP_ prefixed environment
// overrides such as APP_POSTGRES_HOST.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("app")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}
	conf.Roles = v.GetStringMapStringSlice("roles")

	creation, err := NewCreationSource(v)
	if err != nil {
		return nil, err
	}
	conf.Creation = creation

	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		if err := creation.Reload(); err != nil {
			zap.L().Warn("keeping previous creation settings", zap.String("file", e.Name), zap.Error(err))
			return
		}
		zap.L().Info("creation settings reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("redis.channel", "gametables.events")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.spec", "@every 1m")
	v.SetDefault("i18n.default_locale", "en")
	v.SetDefault("creation.frontend_enabled", true)
	v.SetDefault("creation.allowed_content", []string{"tables", "campaigns"})
	v.SetDefault("creation.access_level", "registered")
}
