package histdata

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/histdata/internal/types"
	"github.com/rxtech-lab/histdata/pkg/errors"
)

// ContractConfig holds the instrument defaults that identify what to fetch.
type ContractConfig struct {
	SecurityType types.SecurityType `yaml:"security_type" validate:"required,oneof=STK CASH FUT"`
	Exchange     string             `yaml:"exchange"`
	Currency     string             `yaml:"currency"`
	// FutureMonth is the last trade date or contract month (YYYYMM or
	// YYYYMMDD). Required together with FutureExchange when SecurityType
	// is FUT.
	FutureMonth    string `yaml:"future_month"`
	FutureExchange string `yaml:"future_exchange"`
}

// Config is the immutable run configuration constructed once at startup and
// passed into every component. No component reads ambient global state.
type Config struct {
	Contract   ContractConfig `yaml:"contract"`
	WhatToShow string         `yaml:"what_to_show" validate:"required,oneof=TRADES MIDPOINT BID ASK ADJUSTED_LAST"`
	// DefaultDuration is the fallback span when the request window carries
	// no explicit dates, in the provider grammar.
	DefaultDuration string `yaml:"default_duration" validate:"required"`
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Contract: ContractConfig{
			SecurityType: types.SecurityStock,
			Exchange:     "SMART",
			Currency:     "USD",
		},
		WhatToShow:      "TRADES",
		DefaultDuration: "1 Y",
	}
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks struct tags plus the future-contract rule: FUT requests
// must name a contract month and exchange.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if _, err := ParseDuration(c.DefaultDuration); err != nil {
		return err
	}

	if c.Contract.SecurityType == types.SecurityFuture &&
		(c.Contract.FutureMonth == "" || c.Contract.FutureExchange == "") {
		return errors.New(errors.ErrCodeInvalidConfiguration,
			"futures require future_month and future_exchange to be set")
	}

	return nil
}
