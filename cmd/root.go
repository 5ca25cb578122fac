package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var RootCmd = &cobra.Command{
	Use:   "jobboard",
	Short: "Python job board API and scraper",
	Long:  `Serve a CRUD API over scraped job postings, and seed it from the fake-jobs board.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initViper)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/jobboard.yaml)")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "Set for verbose logging.")
}

func initViper() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName("jobboard")
	}

	viper.SetEnvPrefix("jobboard")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
