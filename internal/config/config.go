package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

type LineConfig struct {
	ChannelSecret string
	ChannelToken  string
}

type MapsConfig struct {
	APIKey string
}

type OCRConfig struct {
	Languages []string
}

type PostalConfig struct {
	ZipcodeXLSXPath string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Line        LineConfig
	Maps        MapsConfig
	OCR         OCRConfig
	Postal      PostalConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Line: LineConfig{
			ChannelSecret: v.GetString("LINE_CHANNEL_SECRET"),
			ChannelToken:  v.GetString("LINE_CHANNEL_ACCESS_TOKEN"),
		},
		Maps: MapsConfig{
			APIKey: v.GetString("GOOGLE_MAPS_API_KEY"),
		},
		OCR: OCRConfig{
			Languages: v.GetStringSlice("OCR_LANGUAGES"),
		},
		Postal: PostalConfig{
			ZipcodeXLSXPath: v.GetString("ZIPCODE_XLSX_PATH"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if len(cfg.OCR.Languages) == 0 {
		cfg.OCR.Languages = []string{"chi_tra", "eng"}
	}
	if cfg.Postal.ZipcodeXLSXPath == "" {
		cfg.Postal.ZipcodeXLSXPath = "data/zipcodes.xlsx"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}
