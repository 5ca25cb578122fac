// Package scraper pulls python job postings out of the fake-jobs listing page.
package scraper

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ajvb/jobboard/job"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// DefaultURL is the listing page scraped when no other url is configured.
const DefaultURL = "https://realpython.github.io/fake-jobs/"

var (
	ErrNoResultsContainer = errors.New("page has no #ResultsContainer element")
)

// MissingElementError is returned when a matched card lacks one of the
// elements a job is built from.
type MissingElementError struct {
	Selector string
	Card     int
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("job card %d has no %s element", e.Card, e.Selector)
}

type Scraper struct {
	url    string
	client *http.Client
}

type Option func(*Scraper)

func WithClient(c *http.Client) Option {
	return func(s *Scraper) {
		s.client = c
	}
}

// WithTimeout bounds the whole fetch. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.client = &http.Client{Timeout: d}
	}
}

func New(url string, opts ...Option) *Scraper {
	s := &Scraper{
		url:    url,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape fetches the listing page once and extracts its python jobs.
func (s *Scraper) Scrape() ([]job.Fields, error) {
	log.Debugf("Scraping %s", s.url)

	resp, err := s.client.Get(s.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", s.url, resp.Status)
	}

	return Extract(resp.Body)
}

// Extract parses a listing page. Every h2 under #ResultsContainer whose text
// mentions python marks a card; the card is the heading's third ancestor.
func Extract(r io.Reader) ([]job.Fields, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	results := doc.Find("#ResultsContainer").First()
	if results.Length() == 0 {
		return nil, ErrNoResultsContainer
	}

	headings := results.Find("h2").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(s.Text()), "python")
	})

	jobs := make([]job.Fields, 0, headings.Length())
	var extractErr error
	headings.EachWithBreak(func(i int, h2 *goquery.Selection) bool {
		card := h2.Parent().Parent().Parent()

		text := make(map[string]string, 3)
		for _, selector := range []string{"h2.title", "h3.company", "p.location"} {
			el := card.Find(selector).First()
			if el.Length() == 0 {
				extractErr = &MissingElementError{Selector: selector, Card: i}
				return false
			}
			text[selector] = strings.TrimSpace(el.Text())
		}

		jobs = append(jobs, job.Fields{
			Title:    text["h2.title"],
			Company:  text["h3.company"],
			Location: text["p.location"],
		})
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}

	log.Debugf("Extracted %d python jobs", len(jobs))
	return jobs, nil
}
