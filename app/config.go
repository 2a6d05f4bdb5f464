package app

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Config is the environment configuration, usually loaded from a TOML file.
type Config struct {
	// ChainID is mixed into every signature.
	ChainID string `toml:"ChainID"`
	// DataDir is where the state is persisted. Empty value keeps the state
	// in memory.
	DataDir string `toml:"DataDir"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"LogLevel"`
	// MetricsNamespace prefixes all exported metric names.
	MetricsNamespace string `toml:"MetricsNamespace"`
}

// DefaultConfig returns the configuration used for values not present in
// the configuration file.
func DefaultConfig() Config {
	return Config{
		ChainID:          "custody-local",
		LogLevel:         "info",
		MetricsNamespace: "custody",
	}
}

// LoadConfig reads the configuration file at path. Keys not present in the
// file keep their default value. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	meta, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return conf, errors.Wrapf(errors.ErrInvalidInput, "config %s: %s", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return conf, errors.Wrapf(errors.ErrInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return conf, conf.Validate()
}

// WriteConfig stores the configuration at path.
func WriteConfig(path string, conf Config) error {
	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(conf); err != nil {
		return errors.Wrap(errors.ErrEncoding, err.Error())
	}
	return nil
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	if !custody.IsValidChainID(c.ChainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", c.ChainID)
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "log level: %s", err)
	}
	if c.MetricsNamespace == "" {
		return errors.Wrap(errors.ErrInvalidInput, "metrics namespace required")
	}
	return nil
}

// NewLogger returns a logger writing to w that filters out entries below
// the configured level.
func (c Config) NewLogger(w io.Writer) (log.Logger, error) {
	allow, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "log level: %s", err)
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	return log.NewFilter(logger, allow), nil
}
