package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// CustomHooks returns a viper decoder option running the supplied domain hooks ahead of the
// standard duration and comma-separated slice conversions.
// Supplying our own DecodeHook replaces viper's defaults, so those are re-added here.
func CustomHooks(hooks ...mapstructure.DecodeHookFunc) viper.DecoderConfigOption {
	all := make([]mapstructure.DecodeHookFunc, 0, len(hooks)+2)
	all = append(all, hooks...)
	all = append(all,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(all...))
}
