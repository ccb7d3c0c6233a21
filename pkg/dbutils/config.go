package dbutils

import (
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

const (
	// DefaultDriver is the database/sql driver used when Config.Driver is empty.
	DefaultDriver = "mysql"
	// DefaultPort is the MySQL port used when Config.Port is zero.
	DefaultPort = 3306
	// DefaultCharset is the connection character set used when Config.Charset is empty.
	DefaultCharset = "utf8"
)

// Config holds the connection parameters of a Handle.
type Config struct {
	Host     string
	User     string
	Password string
	Database string
	Port     int
	Charset  string

	// Driver names a registered database/sql driver. Defaults to mysql.
	Driver string
	// DSN overrides the data source name built from the fields above.
	// Required for drivers other than mysql.
	DSN string
}

func (c Config) withDefaults() Config {
	if c.Driver == "" {
		c.Driver = DefaultDriver
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Charset == "" {
		c.Charset = DefaultCharset
	}
	return c
}

// DataSourceName returns the DSN passed to sql.Open.
func (c Config) DataSourceName() (string, error) {
	c = c.withDefaults()
	if c.DSN != "" {
		return c.DSN, nil
	}
	if c.Driver != DefaultDriver {
		return "", fmt.Errorf("dsn is required for driver %q", c.Driver)
	}

	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Database
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": c.Charset}
	return mc.FormatDSN(), nil
}
