package cmd

import (
	"github.com/ajvb/jobboard/seed"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "fill an empty job store from the listing page",
	Long:  `scrape the listing page and insert the python jobs found, unless the store already holds jobs`,
	Run: func(cmd *cobra.Command, args []string) {
		db := openJobDB()
		defer db.Close()

		res, err := seed.Run(newScraper(), db)
		if err != nil {
			log.Errorf("An error occurred: %s", err)
			return
		}
		log.Debugf("Seed scraped %d jobs, inserted %d", res.Scraped, len(res.InsertedIDs))
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)
	addScrapeFlags(seedCmd)
	addJobDBFlags(seedCmd)
}
