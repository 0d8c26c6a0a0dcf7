package config

import (
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/stocksync/stocksync/internal/db"
	"github.com/stocksync/stocksync/internal/recon"
)

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	Port           int
	AllowedOrigins []string
}

// Config aggregates everything the server binary needs.
type Config struct {
	Database      db.Config
	Engine        recon.Config
	MinConfidence float64
	Server        ServerConfig
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:      db.DefaultConfig(),
		Engine:        recon.DefaultConfig(),
		MinConfidence: 0.6,
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

// Load reads config.yaml from the given path with environment overrides
// (prefix SYNC, e.g. SYNC_DATABASE_HOST).
func Load(configPath string, log zerolog.Logger) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("SYNC")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		log.Info().Msg("no config.yaml found, using defaults and env vars")
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("loaded configuration")
	}

	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}

	if v.IsSet("engine.auto_create_items") {
		cfg.Engine.AutoCreateItems = v.GetBool("engine.auto_create_items")
	}
	if v.IsSet("engine.update_existing_items") {
		cfg.Engine.UpdateExistingItems = v.GetBool("engine.update_existing_items")
	}
	if v.IsSet("engine.allow_negative_stock") {
		cfg.Engine.AllowNegativeStock = v.GetBool("engine.allow_negative_stock")
	}
	if v.IsSet("engine.require_company_match") {
		cfg.Engine.RequireCompanyMatch = v.GetBool("engine.require_company_match")
	}
	if v.IsSet("engine.default_min_stock_level") {
		cfg.Engine.DefaultMinStockLevel = v.GetInt64("engine.default_min_stock_level")
	}
	if v.IsSet("engine.min_confidence") {
		cfg.MinConfidence = v.GetFloat64("engine.min_confidence")
	}

	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}

	return cfg, nil
}
