package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"wallgrab/pkg/inventory"
	"wallgrab/pkg/logger"
	"wallgrab/pkg/models"
	"wallgrab/pkg/scraper"
)

// Downloads runs a batch of downloads and streams their outcomes
type Downloads interface {
	Run(ctx context.Context, candidates []models.Candidate) <-chan models.Outcome
}

// Reporter announces run events
type Reporter interface {
	ReportOutcome(ctx context.Context, o models.Outcome)
	ReportError(ctx context.Context, err error)
}

// Summary describes a finished run
type Summary struct {
	Scraped     int
	Known       int
	Unsupported int
	Duplicates  int
	Downloaded  int
	Failed      int
	Duration    time.Duration
}

// Runner wires the stages of one run together
type Runner struct {
	listingURL string
	source     scraper.Source
	inventory  inventory.Source
	downloads  Downloads
	reporter   Reporter
	logger     logger.Logger
}

// NewRunner creates a runner that scrapes listingURL
func NewRunner(
	listingURL string,
	source scraper.Source,
	inv inventory.Source,
	downloads Downloads,
	reporter Reporter,
	log logger.Logger,
) *Runner {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Runner{
		listingURL: listingURL,
		source:     source,
		inventory:  inv,
		downloads:  downloads,
		reporter:   reporter,
		logger:     log,
	}
}

// Run scrapes the listing and loads the inventory concurrently, downloads the
// new images and reports each outcome as it settles. A scrape or inventory
// failure is reported once through ReportError and returned; nothing is
// downloaded in that case.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var summary Summary

	candidates, inv, err := r.gather(ctx)
	if err != nil {
		r.logger.WithError(err).Error("Run aborted")
		// The abort is announced even when ctx was cancelled by a signal.
		r.reporter.ReportError(context.WithoutCancel(ctx), err)
		summary.Duration = time.Since(start)
		return summary, err
	}

	sel := Select(candidates, inv)
	summary.Scraped = len(candidates)
	summary.Known = sel.Known
	summary.Unsupported = sel.Unsupported
	summary.Duplicates = len(sel.Duplicates)

	for _, dup := range sel.Duplicates {
		r.logger.WarnWithFields("Duplicate image name in listing, keeping the first", map[string]interface{}{
			"name": dup.Name,
			"url":  dup.URL,
		})
	}

	r.logger.InfoWithFields("Candidates selected", map[string]interface{}{
		"scraped":     summary.Scraped,
		"known":       summary.Known,
		"unsupported": summary.Unsupported,
		"selected":    len(sel.Selected),
	})

	if len(sel.Selected) > 0 {
		for o := range r.downloads.Run(ctx, sel.Selected) {
			if o.Success {
				summary.Downloaded++
			} else {
				summary.Failed++
			}
			r.reporter.ReportOutcome(ctx, o)
		}
	}

	summary.Duration = time.Since(start)
	r.logger.InfoWithFields("Run finished", map[string]interface{}{
		"downloaded": summary.Downloaded,
		"failed":     summary.Failed,
		"duration":   summary.Duration,
	})
	return summary, nil
}

// gather runs the scrape and the inventory query concurrently; the first
// failure cancels the other.
func (r *Runner) gather(ctx context.Context) ([]models.Candidate, models.Inventory, error) {
	var (
		candidates []models.Candidate
		inv        models.Inventory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = r.source.FetchCandidates(gctx, r.listingURL)
		return err
	})
	g.Go(func() error {
		var err error
		inv, err = r.inventory.FetchNames(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, models.Inventory{}, err
	}
	return candidates, inv, nil
}
