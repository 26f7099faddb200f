// Package dbopts provides options for the relational database client.
package dbopts

import (
	"fmt"
	"time"

	"github.com/kart-io/support-desk/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Options contains relational database configuration.
// SQLite uses Path; Postgres and MySQL use Host/Port/Username/Password/Database.
type Options struct {
	// Driver selects the database backend (sqlite, postgres, mysql).
	Driver string `json:"driver" mapstructure:"driver"`

	// Path is the SQLite database file path.
	Path string `json:"path" mapstructure:"path"`

	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`

	MaxIdleConnections    int           `json:"max-idle-connections" mapstructure:"max-idle-connections"`
	MaxOpenConnections    int           `json:"max-open-connections" mapstructure:"max-open-connections"`
	MaxConnectionLifeTime time.Duration `json:"max-connection-life-time" mapstructure:"max-connection-life-time"`

	// LogLevel controls gorm logging (1=Silent, 2=Error, 3=Warn, 4=Info).
	LogLevel int `json:"log-level" mapstructure:"log-level"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Driver:                DriverSQLite,
		Path:                  "data/support-desk.db",
		Host:                  "127.0.0.1",
		Port:                  5432,
		MaxIdleConnections:    10,
		MaxOpenConnections:    100,
		MaxConnectionLifeTime: 10 * time.Second,
		LogLevel:              1,
	}
}

// AddFlags adds flags for database options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Driver, options.Join(prefixes...)+"db.driver", o.Driver, "Database driver (sqlite, postgres, mysql).")
	fs.StringVar(&o.Path, options.Join(prefixes...)+"db.path", o.Path, "SQLite database file path.")
	fs.StringVar(&o.Host, options.Join(prefixes...)+"db.host", o.Host, "Database host.")
	fs.IntVar(&o.Port, options.Join(prefixes...)+"db.port", o.Port, "Database port.")
	fs.StringVar(&o.Username, options.Join(prefixes...)+"db.username", o.Username, "Database username.")
	fs.StringVar(&o.Password, options.Join(prefixes...)+"db.password", o.Password, "Database password.")
	fs.StringVar(&o.Database, options.Join(prefixes...)+"db.database", o.Database, "Database name.")
	fs.IntVar(&o.MaxIdleConnections, options.Join(prefixes...)+"db.max-idle-connections", o.MaxIdleConnections, "Maximum idle connections.")
	fs.IntVar(&o.MaxOpenConnections, options.Join(prefixes...)+"db.max-open-connections", o.MaxOpenConnections, "Maximum open connections.")
	fs.DurationVar(&o.MaxConnectionLifeTime, options.Join(prefixes...)+"db.max-connection-life-time", o.MaxConnectionLifeTime, "Maximum connection life time.")
	fs.IntVar(&o.LogLevel, options.Join(prefixes...)+"db.log-level", o.LogLevel, "Database log level (1=Silent, 2=Error, 3=Warn, 4=Info).")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	switch o.Driver {
	case DriverSQLite:
		if o.Path == "" {
			errs = append(errs, fmt.Errorf("db.path is required for sqlite driver"))
		}
	case DriverPostgres, DriverMySQL:
		if o.Host == "" {
			errs = append(errs, fmt.Errorf("db.host is required for %s driver", o.Driver))
		}
		if o.Database == "" {
			errs = append(errs, fmt.Errorf("db.database is required for %s driver", o.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported db.driver: %s", o.Driver))
	}
	return errs
}
