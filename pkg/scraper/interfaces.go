package scraper

import (
	"context"

	"wallgrab/pkg/models"
)

// Source produces the candidate images found on one load of a listing page
type Source interface {
	FetchCandidates(ctx context.Context, url string) ([]models.Candidate, error)
}

// Renderer returns the HTML of a page after it has been loaded
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}
