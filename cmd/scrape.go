package cmd

import (
	"encoding/json"
	"os"

	"github.com/ajvb/jobboard/scraper"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "print the jobs a seed would insert",
	Long:  `scrape the listing page and print the python jobs found as JSON, without touching any store`,
	Run: func(cmd *cobra.Command, args []string) {
		jobs, err := newScraper().Scrape()
		if err != nil {
			log.Fatalf("Error scraping %s: %s", viper.GetString("scrape-url"), err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jobs); err != nil {
			log.Fatal(err)
		}
	},
}

func newScraper() *scraper.Scraper {
	return scraper.New(viper.GetString("scrape-url"), scraper.WithTimeout(viper.GetDuration("scrape-timeout")))
}

func addScrapeFlags(cmd *cobra.Command) {
	cmd.Flags().String("scrape-url", scraper.DefaultURL, "Listing page to scrape jobs from.")
	cmd.Flags().Duration("scrape-timeout", 0, "Timeout for fetching the listing page, 0 means none.")
}

func init() {
	RootCmd.AddCommand(scrapeCmd)
	addScrapeFlags(scrapeCmd)
}
