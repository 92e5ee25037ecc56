package config

import "time"

type Config struct {
	App        AppConfig        `env-prefix:"APP_"`
	Database   DatabaseConfig   `env-prefix:"DB_"`
	Migrations MigrationsConfig `env-prefix:"MIGRATIONS_"`
}

type AppConfig struct {
	LogLevel string `env:"LOG_LEVEL" env-default:"info" env-description:"log level: debug, info, warn, error"`
	Pretty   bool   `env:"PRETTY" env-default:"false" env-description:"human readable console logs"`
}

type DatabaseConfig struct {
	Port          string `env:"PORT" env-default:"5432"`
	Host          string `env:"HOST" env-default:"localhost"`
	Name          string `env:"NAME" env-default:"postgres"`
	User          string `env:"USER" env-default:"user"`
	Password      string `env:"PASSWORD" env-required:"true"`
	SSLMode       string `env:"SSL_MODE" env-default:"disable"`
	RetryAttempts uint   `env:"RETRY_ATTEMPTS" env-default:"5" env-description:"ping attempts before giving up"`
}

type MigrationsConfig struct {
	Table   string        `env:"TABLE" env-default:"goose_db_version" env-description:"applied migrations ledger table"`
	Lock    bool          `env:"LOCK" env-default:"true" env-description:"serialize runs with a postgres advisory lock"`
	Timeout time.Duration `env:"TIMEOUT" env-default:"5m"`
}

// Addr returns host:port of the database server.
func (c DatabaseConfig) Addr() string {
	return c.Host + ":" + c.Port
}
