package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	Port         int    `mapstructure:"port"`
	Mode         string `mapstructure:"mode"`
	TemplateGlob string `mapstructure:"template_glob"`
	StaticDir    string `mapstructure:"static_dir"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"` // sqlite or mysql
	DSN     string `mapstructure:"dsn"`
	LogMode bool   `mapstructure:"log_mode"`
}

type SessionConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpireHours   int    `mapstructure:"expire_hours"`
	RememberHours int    `mapstructure:"remember_hours"`
	CookieSecure  bool   `mapstructure:"cookie_secure"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
}

// Load reads configuration from the given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in the current working
// directory. Loaded once at startup; the result is passed explicitly to the
// components that need it.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	setDefaults(v)

	// environment overrides, e.g. JT_SERVER_PORT=9000
	v.SetEnvPrefix("JT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.Session.Secret == "" {
		return nil, fmt.Errorf("session.secret must be set")
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.template_glob", "web/templates/*.html")
	v.SetDefault("server.static_dir", "./web/static")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/job_tracker.db")
	v.SetDefault("session.expire_hours", 24)
	v.SetDefault("session.remember_hours", 24*14)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("log.level", "info")
}
