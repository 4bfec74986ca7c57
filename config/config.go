// Package config holds the process wide settings of smol, read from the
// environment with the SMOL_ prefix.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Version of smol
const Version = "0.1.0"

// NameSpace is the envconfig prefix
const NameSpace = "smol"

// Config ...
type Config struct {
	MaxSize     uint          `envconfig:"MAX_SIZE" default:"2048"` // longest edge after resize
	Quality     int           `envconfig:"QUALITY" default:"85"`    // jpeg quality 1-100
	Filter      string        `envconfig:"FILTER" default:"lanczos3"`
	Workers     int           `envconfig:"WORKERS" default:"0"` // 0 means runtime.NumCPU()
	Pattern     string        `envconfig:"PATTERN" default:"*.jpg"`
	SubDir      string        `envconfig:"SUBDIR" default:"smol"`
	Tick        time.Duration `envconfig:"TICK" default:"500ms"`
	Listen      string        `envconfig:"LISTEN" default:":8970"`
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WhiteList   []string      `envconfig:"WHITE_LIST"` // ip or cidr allowed to start batches, empty for all
	APIKey      string        `envconfig:"API_KEY"`
	SentryDSN   string        `envconfig:"SENTRY_DSN"`
	Develop     bool          `envconfig:"DEVELOP"`
}

// Current is the loaded config
var Current = new(Config)

func init() {
	envconfig.MustProcess(NameSpace, Current)
}

// Load reads the environment into a fresh Config and makes it Current
func Load() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process(NameSpace, c); err != nil {
		return nil, err
	}
	Current = c
	return c, nil
}

// InDevelop ...
func InDevelop() bool {
	return Current.Develop
}

// Usage prints the supported environment variables
func Usage() error {
	return envconfig.Usage(NameSpace, new(Config))
}
