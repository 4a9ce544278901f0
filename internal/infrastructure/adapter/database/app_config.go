package database

import (
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/config"
)

// FromAppConfig builds the ledger database configuration from the loaded
// application configuration. The SQL log level follows the application
// logger when not set explicitly.
func FromAppConfig(conf *config.Config) *Config {
	db := conf.Database
	out := &Config{
		Driver:          db.Driver,
		Host:            db.Host,
		Port:            db.Port,
		Username:        db.Username,
		Password:        db.Password,
		Database:        db.Name,
		SSLMode:         db.SSLMode,
		SQLitePath:      db.SQLitePath,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime,
		ConnMaxIdleTime: db.ConnMaxIdleTime,
		QueryTimeout:    db.QueryTimeout,
		LogLevel:        db.LogLevel,
		RetryAttempts:   db.RetryAttempts,
		RetryDelay:      db.RetryDelay,
		AutoMigrate:     db.AutoMigrate,
	}
	if out.LogLevel == "" {
		out.LogLevel = conf.Logger.Level
	}
	return out
}
