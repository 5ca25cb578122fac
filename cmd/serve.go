package cmd

import (
	"strings"

	"github.com/ajvb/jobboard/api"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the job board API",
	Long:  `start the job board API with the backing store of your choice, and run until interrupted`,
	Run: func(cmd *cobra.Command, args []string) {
		var parsedPort string
		port := viper.GetString("port")
		if port != "" {
			if strings.Contains(port, ":") {
				parsedPort = port
			} else {
				parsedPort = ":" + port
			}
		} else {
			parsedPort = ":8000"
		}

		var connectionString string
		if viper.GetString("interface") != "" {
			connectionString = viper.GetString("interface") + parsedPort
		} else {
			connectionString = parsedPort
		}

		db := openJobDB()
		defer db.Close()

		log.Infof("Starting server on port %s", connectionString)
		srv := api.MakeServer(connectionString, db, viper.GetBool("profile"))
		log.Fatal(srv.ListenAndServe())
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", ":8000", "Port for the API to run on.")
	serveCmd.Flags().StringP("interface", "i", "", "Interface to listen on, default is all.")
	serveCmd.Flags().Bool("profile", false, "Activate pprof handlers")
	addJobDBFlags(serveCmd)
}
