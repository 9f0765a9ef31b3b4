// Command loadplan plans crate layouts from the command line, without the
// HTTP service: crates come from a CSV export, the truck from flags or a
// config file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "loadplan",
	Short:         "Plan how crates are arranged inside a truck bed",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: loadplan.yaml in the working directory)")
}

// initConfig layers a config file under the flags: flag > config > default.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("loadplan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetDefault("truck.length", 10.0)
	viper.SetDefault("truck.width", 2.5)
	viper.SetDefault("truck.height", 2.6)
	viper.SetDefault("truck.unit", "m")
	viper.SetDefault("truck.max_load", 0.0)

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and flags cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "read config: %v\n", err)
			os.Exit(1)
		}
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
