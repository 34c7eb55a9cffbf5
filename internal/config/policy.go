package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InventoryPolicy carries operator-tunable inventory rules. It lives in a
// config file rather than the database so operations can change it without
// a release.
type InventoryPolicy struct {
	DefaultUnit      string
	DefaultThreshold int64
	MaxNoteLength    int
	MaxNameLength    int
}

func DefaultInventoryPolicy() InventoryPolicy {
	return InventoryPolicy{
		DefaultUnit:      "pcs",
		DefaultThreshold: 5,
		MaxNoteLength:    200,
		MaxNameLength:    100,
	}
}

type PolicyHolder struct {
	current atomic.Value // holds InventoryPolicy
}

func NewPolicyHolder() (*PolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("inventory")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/tavolo/config") // Volume-mounted config
	v.AddConfigPath("/etc/tavolo")            // System config
	v.AddConfigPath(".")                      // Current directory (dev mode)

	v.SetEnvPrefix("TAVOLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults are registered before reading so a partial config file only
	// overrides the keys it names.
	defaults := DefaultInventoryPolicy()
	v.SetDefault("inventory.defaultUnit", defaults.DefaultUnit)
	v.SetDefault("inventory.defaultThreshold", defaults.DefaultThreshold)
	v.SetDefault("inventory.maxNoteLength", defaults.MaxNoteLength)
	v.SetDefault("inventory.maxNameLength", defaults.MaxNameLength)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	policy := readInventoryPolicy(v)
	if err := validateInventoryPolicy(policy); err != nil {
		return nil, err
	}

	holder := &PolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated := readInventoryPolicy(v)
		if err := validateInventoryPolicy(updated); err != nil {
			zap.L().Warn("invalid inventory policy ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		zap.L().Info("inventory policy reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *PolicyHolder) Get() InventoryPolicy {
	return h.current.Load().(InventoryPolicy)
}

// NewStaticPolicyHolder returns a holder fixed at the given policy. Used by
// tests and by callers that do not want file watching.
func NewStaticPolicyHolder(policy InventoryPolicy) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(policy)
	return holder
}

// readInventoryPolicy reads per key so unset keys fall back to the
// registered defaults even when the config file names only some of them.
func readInventoryPolicy(v *viper.Viper) InventoryPolicy {
	return InventoryPolicy{
		DefaultUnit:      v.GetString("inventory.defaultUnit"),
		DefaultThreshold: v.GetInt64("inventory.defaultThreshold"),
		MaxNoteLength:    v.GetInt("inventory.maxNoteLength"),
		MaxNameLength:    v.GetInt("inventory.maxNameLength"),
	}
}

func validateInventoryPolicy(policy InventoryPolicy) error {
	if strings.TrimSpace(policy.DefaultUnit) == "" {
		return errors.New("inventory.defaultUnit cannot be empty")
	}
	if policy.DefaultThreshold < 0 {
		return errors.New("inventory.defaultThreshold cannot be negative")
	}
	if policy.MaxNoteLength <= 0 {
		return errors.New("inventory.maxNoteLength must be positive")
	}
	if policy.MaxNameLength <= 0 {
		return errors.New("inventory.maxNameLength must be positive")
	}
	return nil
}
