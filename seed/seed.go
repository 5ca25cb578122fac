// Package seed fills an empty job store from a scrape source.
package seed

import (
	"github.com/ajvb/jobboard/job"

	log "github.com/sirupsen/logrus"
)

// Source produces candidate jobs. *scraper.Scraper satisfies it.
type Source interface {
	Scrape() ([]job.Fields, error)
}

type Result struct {
	Scraped     int
	Skipped     bool
	InsertedIDs []string
}

// Run scrapes src and inserts the candidates only when db holds no jobs yet.
// A populated store is left untouched.
func Run(src Source, db job.JobDB) (*Result, error) {
	candidates, err := src.Scrape()
	if err != nil {
		return nil, err
	}
	res := &Result{Scraped: len(candidates), InsertedIDs: []string{}}

	n, err := db.Count()
	if err != nil {
		return nil, err
	}
	if n != 0 {
		log.Infof("Job store already has data (%d jobs), skipping seeding.", n)
		res.Skipped = true
		return res, nil
	}

	if len(candidates) == 0 {
		log.Info("Scrape returned no jobs, nothing to seed.")
		return res, nil
	}

	ids, err := db.InsertMany(candidates)
	if err != nil {
		return nil, err
	}
	res.InsertedIDs = ids
	log.Infof("Jobs inserted: %v", ids)
	return res, nil
}
