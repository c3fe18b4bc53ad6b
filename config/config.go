// Package config resolves procmon settings from defaults, an optional TOML
// file, PROCMON_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"procmon/process"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every key for environment overrides
	EnvPrefix = "PROCMON"

	// FileName is the config file searched for when none is given
	FileName = "procmon"

	SourceProcfs = "procfs"
	SourcePsutil = "psutil"
)

// Keys shared by viper, flags and the TOML file
const (
	KeyInterval = "interval"
	KeySort     = "sort"
	KeyOrder    = "order"
	KeySearch   = "search"
	KeySource   = "source"
	KeyProcRoot = "proc_root"
	KeyPasswd   = "passwd"
	KeyColor    = "color"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the resolved configuration
type Config struct {
	Interval time.Duration
	Sort     process.Column
	Order    process.SortOrder
	Search   string
	Source   string
	ProcRoot string
	Passwd   string
	Color    bool
}

// file mirrors Config in its on-disk form
type file struct {
	Interval string `toml:"interval" comment:"Time between refreshes"`
	Sort     string `toml:"sort" comment:"Name, ID, CPU, Memory, ParentID, State, StartTime, User or Command"`
	Order    string `toml:"order" comment:"asc or desc"`
	Search   string `toml:"search" comment:"Initial filter, e.g. \"@user root, @name ssh\""`
	Source   string `toml:"source" comment:"procfs or psutil"`
	ProcRoot string `toml:"proc_root" comment:"procfs mount point"`
	Passwd   string `toml:"passwd" comment:"User database for uid lookups"`
	Color    bool   `toml:"color" comment:"Color process states"`
}

func defaults() file {
	return file{
		Interval: "3s",
		Sort:     process.ColumnName.String(),
		Order:    process.Ascending.String(),
		Source:   SourceProcfs,
		ProcRoot: "/proc",
		Passwd:   "/etc/passwd",
		Color:    true,
	}
}

// SetDefaults registers the default of every key on v
func SetDefaults(v *viper.Viper) {
	d := defaults()
	v.SetDefault(KeyInterval, d.Interval)
	v.SetDefault(KeySort, d.Sort)
	v.SetDefault(KeyOrder, d.Order)
	v.SetDefault(KeySearch, d.Search)
	v.SetDefault(KeySource, d.Source)
	v.SetDefault(KeyProcRoot, d.ProcRoot)
	v.SetDefault(KeyPasswd, d.Passwd)
	v.SetDefault(KeyColor, d.Color)
}

// Load reads path, or searches the user config directory and the working
// directory for procmon.toml when path is empty. A missing searched file is
// not an error, a missing explicit file is.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, FileName))
		}
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return Resolve(v)
}

// Resolve converts the values held by v into a validated Config
func Resolve(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Interval: v.GetDuration(KeyInterval),
		Search:   v.GetString(KeySearch),
		Source:   v.GetString(KeySource),
		ProcRoot: v.GetString(KeyProcRoot),
		Passwd:   v.GetString(KeyPasswd),
		Color:    v.GetBool(KeyColor),
	}

	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval %q must be a positive duration", ErrInvalid, v.GetString(KeyInterval))
	}

	var err error
	if cfg.Sort, err = process.ParseColumn(v.GetString(KeySort)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if cfg.Order, err = process.ParseSortOrder(v.GetString(KeyOrder)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	switch cfg.Source {
	case SourceProcfs, SourcePsutil:
	default:
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalid, cfg.Source)
	}

	return cfg, nil
}

// WriteDefault writes the default configuration as TOML
func WriteDefault(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(defaults()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
