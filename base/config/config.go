package config

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/marketcore/base/log"
)

var osArgs = func() []string { return os.Args[1:] }

// Load reads the yaml config named by --config, falling back to
// defaultPath. Environment variables override keys with "." replaced by
// "_", so MONGO_URI overrides mongo.uri.
func Load(defaultPath string) {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	path := fs.String("config", defaultPath, "path to the yaml config")
	fs.ParseErrorsWhitelist.UnknownFlags = true
	if err := fs.Parse(osArgs()); err != nil {
		panic(err)
	}
	if err := ReadFile(*path); err != nil {
		panic(err)
	}

	log.Init(viper.GetBool("debug"), viper.GetString("app_name"))
	if viper.GetBool("debug") {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func ReadFile(path string) error {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return viper.ReadInConfig()
}
