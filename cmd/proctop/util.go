package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loykin/proctop/internal/config"
)

// loadConfig merges defaults, the optional file, PROCTOP_* env and the
// flags the user actually set.
func loadConfig(cmd *cobra.Command, flags *GlobalFlags) (*config.Config, error) {
	v := config.NewViper()
	if err := bindFlags(cmd, v); err != nil {
		return nil, err
	}
	if flags.NoColor {
		v.Set("monitor.color", false)
		v.Set("log.color", false)
	}
	cfg, err := config.Load(v, flags.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
