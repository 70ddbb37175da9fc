package cmd

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "cdaas",
	Short: "Watch git repositories, build and push their images, deploy them to Kubernetes",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		if viper.GetBool("verbose") {
			log.Logger = log.Logger.Level(zerolog.DebugLevel)
		} else {
			log.Logger = log.Logger.Level(zerolog.InfoLevel)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("data-dir", "./data", "Directory holding the cdaas database")
	rootCmd.PersistentFlags().String("manifest-dir", "./manifests", "Directory for exported repository manifests")
	rootCmd.PersistentFlags().Duration("tool-timeout", 0, "Timeout per external tool invocation (0 disables)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("data-dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("manifest-dir", rootCmd.PersistentFlags().Lookup("manifest-dir"))
	viper.BindPFlag("tool-timeout", rootCmd.PersistentFlags().Lookup("tool-timeout"))
}

// Flags can also be set through the environment, e.g. CDAAS_DATA_DIR.
func initConfig() {
	viper.SetEnvPrefix("cdaas")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
