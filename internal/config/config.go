package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration. The values are taken from the system's environment
// variables.
//
// Usage example on the command line:
// > PORT=4000 DBDRIVER=mysql DBHOST=localhost DBUSER=dirk DBPWD=bullo92 contacts serve
type Config struct {
	Port       int    `envconfig:"PORT" default:"4000"`
	DBDriver   string `envconfig:"DBDRIVER" default:"file"`
	DBHost     string `envconfig:"DBHOST" default:"localhost"`
	DBUser     string `envconfig:"DBUSER"`
	DBPassword string `envconfig:"DBPWD"`
	DBName     string `envconfig:"DBNAME" default:"test"`
	DBFile     string `envconfig:"DBFILE" default:"db.json"`
	GinLogging string `envconfig:"GIN_LOGGING" default:"on"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	APIURL     string `envconfig:"API_URL" default:"http://localhost:4000"`
	PageSize   int    `envconfig:"PAGE_SIZE" default:"10"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be expressed with struct tags.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "sqlite", "file":
	default:
		return fmt.Errorf("unsupported DBDRIVER %q", c.DBDriver)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}

// RequestLogging returns false when HTTP request logging was turned off.
func (c *Config) RequestLogging() bool {
	return !strings.EqualFold(c.GinLogging, "off")
}

// MySQLDSN builds the data source name for the MySQL driver.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", c.DBUser, c.DBPassword, c.DBHost, c.DBName)
}
