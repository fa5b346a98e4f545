package config

import (
	"os"
	"path/filepath"

	"cfb-pickem-go/database"
	"cfb-pickem-go/logging"
	"cfb-pickem-go/models"
	"cfb-pickem-go/services"
)

// ToDatabaseConfig converts Config to database.Config
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		Username: c.Database.Username,
		Password: c.Database.Password,
		Database: c.Database.Database,
		Timeout:  c.Database.Timeout,
	}
}

// ToLoggingConfig converts Config to logging.Config
func (c *Config) ToLoggingConfig() logging.Config {
	cfg := logging.Config{
		Level:       c.Logging.Level,
		Output:      os.Stdout,
		Prefix:      c.Logging.Prefix,
		EnableColor: c.Logging.EnableColor,
	}
	if c.Logging.EnableFile {
		cfg.FilePath = filepath.Join(c.Logging.LogDir, "cfb-pickem.log")
	}
	return cfg
}

// ToCFBDConfig converts Config to services.CFBDConfig
func (c *Config) ToCFBDConfig() services.CFBDConfig {
	return services.CFBDConfig{
		BaseURL: c.CFBD.BaseURL,
		APIKey:  c.CFBD.APIKey,
		Timeout: c.CFBD.Timeout,
	}
}

// ToLockPolicy returns the kickoff lock policy for pick submission
func (c *Config) ToLockPolicy() models.LockPolicy {
	return models.LockPolicy{Disabled: c.App.DisableGameLocking}
}
