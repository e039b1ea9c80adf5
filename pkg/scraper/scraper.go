package scraper

import (
	"context"
	"strings"

	"wallgrab/pkg/config"
	"wallgrab/pkg/errors"
	"wallgrab/pkg/logger"
	"wallgrab/pkg/models"
)

// Scraper renders a listing page and extracts candidate images from it
type Scraper struct {
	renderer Renderer
	logger   logger.Logger
}

// New creates a Scraper using the renderer selected in cfg
func New(cfg config.ListingConfig, log logger.Logger) (*Scraper, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	renderer, err := NewRenderer(cfg, log)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeConfig, err, "listing renderer")
	}
	return NewWithRenderer(renderer, log), nil
}

// NewWithRenderer creates a Scraper around an existing renderer
func NewWithRenderer(renderer Renderer, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scraper{renderer: renderer, logger: log}
}

// FetchCandidates loads url once and returns the unfiltered-by-inventory candidates.
// There is no retry; any failure is returned as a scrape error.
func (s *Scraper) FetchCandidates(ctx context.Context, url string) ([]models.Candidate, error) {
	s.logger.DebugWithFields("Rendering listing", map[string]interface{}{
		"url": url,
	})

	html, err := s.renderer.Render(ctx, url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeScrape, err, "render listing")
	}

	candidates, posts, err := extract(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeScrape, err, "parse listing")
	}

	logger.LogScrapeResult(s.logger, url, posts, len(candidates))
	return candidates, nil
}
