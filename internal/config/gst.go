package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// GSTConfig carries the regulatory constants the billing engine applies.
// Jurisdictional changes (threshold revisions, new slabs) are a config edit,
// not a code change.
type GSTConfig struct {
	// EwayThreshold is the invoice grand total (INR) at or above which an
	// e-Way bill becomes mandatory.
	EwayThreshold float64 `mapstructure:"ewayThreshold"`

	// Validity accrues one day per RegularKmPerDay of transport distance,
	// or per ODCKmPerDay for over-dimensional cargo.
	RegularKmPerDay int `mapstructure:"regularKmPerDay"`
	ODCKmPerDay     int `mapstructure:"odcKmPerDay"`

	// Rates are the permitted GST slabs, in percent.
	Rates []float64 `mapstructure:"rates"`

	// CreditWarningRatio is the balance/limit ratio at which a credit
	// customer is flagged before the limit is actually breached.
	CreditWarningRatio float64 `mapstructure:"creditWarningRatio"`
}

func DefaultGSTConfig() GSTConfig {
	return GSTConfig{
		EwayThreshold:      50000,
		RegularKmPerDay:    100,
		ODCKmPerDay:        20,
		Rates:              []float64{0, 5, 12, 18, 28},
		CreditWarningRatio: 0.80,
	}
}

// GSTConfigHolder hot-reloads GST constants from gst.yml when present.
type GSTConfigHolder struct {
	current atomic.Value // holds GSTConfig
}

func NewGSTConfigHolder() (*GSTConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("gst")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/gstbill/config")
	v.AddConfigPath("/etc/gstbill")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GSTBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultGSTConfig()
	v.SetDefault("gst.ewayThreshold", defaults.EwayThreshold)
	v.SetDefault("gst.regularKmPerDay", defaults.RegularKmPerDay)
	v.SetDefault("gst.odcKmPerDay", defaults.ODCKmPerDay)
	v.SetDefault("gst.rates", defaults.Rates)
	v.SetDefault("gst.creditWarningRatio", defaults.CreditWarningRatio)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg GSTConfig
	if err := v.UnmarshalKey("gst", &cfg); err != nil {
		return nil, err
	}
	if err := validateGSTConfig(cfg); err != nil {
		return nil, err
	}

	holder := &GSTConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated GSTConfig
		if err := v.UnmarshalKey("gst", &updated); err != nil {
			log.Printf("[gst-config] reload failed: %v", err)
			return
		}
		if err := validateGSTConfig(updated); err != nil {
			log.Printf("[gst-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[gst-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *GSTConfigHolder) Get() GSTConfig {
	return h.current.Load().(GSTConfig)
}

// NewStaticGSTConfigHolder returns a holder pinned to cfg. Used by tests and
// callers that do not want file watching.
func NewStaticGSTConfigHolder(cfg GSTConfig) *GSTConfigHolder {
	holder := &GSTConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateGSTConfig(cfg GSTConfig) error {
	if cfg.EwayThreshold <= 0 {
		return errors.New("gst.ewayThreshold must be positive")
	}
	if cfg.RegularKmPerDay <= 0 || cfg.ODCKmPerDay <= 0 {
		return errors.New("gst validity km/day rates must be positive")
	}
	if len(cfg.Rates) == 0 {
		return errors.New("gst.rates cannot be empty")
	}
	if cfg.CreditWarningRatio <= 0 || cfg.CreditWarningRatio > 1 {
		return errors.New("gst.creditWarningRatio must be in (0, 1]")
	}
	return nil
}
