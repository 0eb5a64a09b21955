package common

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/armadaproject/bootstats/internal/common/logging"
)

const envPrefix = "BOOT"

// ConfigureLogging installs the default text logger on stdout. Applications replace it once their configuration
// has been loaded.
func ConfigureLogging() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: logging.RFC3339Milli})
	log.SetOutput(os.Stdout)
}

// ConfigureCommandLineLogging makes the standard logger print bare messages, for commands whose output is data.
func ConfigureCommandLineLogging() {
	log.SetFormatter(&logging.CommandLineFormatter{})
	log.SetOutput(os.Stdout)
}

// LoadConfig reads config.yaml from defaultPath (if present), merges every file in overrideConfigs on top of it,
// applies BOOT_* environment variables and unmarshals the result into config.
// A missing default config file is not an error; a missing override file is.
func LoadConfig(v *viper.Viper, config interface{}, defaultPath string, overrideConfigs []string, opts ...viper.DecoderConfigOption) error {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrapf(err, "error reading base config from %s", defaultPath)
		}
		log.Debugf("No base config found in %s, using defaults", defaultPath)
	} else {
		log.Infof("Read base config from %s", v.ConfigFileUsed())
	}

	for _, overrideConfig := range overrideConfigs {
		v.SetConfigFile(overrideConfig)
		if err := v.MergeInConfig(); err != nil {
			return errors.Wrapf(err, "error reading config from %s", overrideConfig)
		}
		log.Infof("Read config from %s", v.ConfigFileUsed())
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.Unmarshal(config, opts...); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
