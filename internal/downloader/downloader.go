package downloader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"wallgrab/pkg/config"
	"wallgrab/pkg/errors"
	"wallgrab/pkg/logger"
	"wallgrab/pkg/models"
)

// ImageStore persists a downloaded image body
type ImageStore interface {
	Save(r io.Reader, name, ext string) (int64, error)
}

// Fetcher downloads a single candidate. It never fails; errors are carried in the Outcome.
type Fetcher interface {
	Download(ctx context.Context, c models.Candidate) models.Outcome
}

// Downloader streams candidate images over HTTPS into an ImageStore
type Downloader struct {
	client *resty.Client
	store  ImageStore
	logger logger.Logger
}

// New creates a Downloader using the download configuration
func New(cfg config.DownloadConfig, store ImageStore, log logger.Logger) *Downloader {
	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	return NewWithClient(client, store, log)
}

// NewWithClient creates a Downloader around an existing resty client
func NewWithClient(client *resty.Client, store ImageStore, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Downloader{client: client, store: store, logger: log}
}

// Download fetches c.URL and saves it as {c.Name}.{c.Ext}
func (d *Downloader) Download(ctx context.Context, c models.Candidate) models.Outcome {
	start := time.Now()

	err := d.fetch(ctx, c)
	logger.LogDownload(d.logger.WithField("duration", time.Since(start)), c.Name, c.URL, err == nil, err)

	if err != nil {
		return models.Failed(c.Name, err)
	}
	return models.Succeeded(c.Name)
}

func (d *Downloader) fetch(ctx context.Context, c models.Candidate) error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeDownload, err, "invalid image url")
	}
	if u.Scheme != "https" {
		return errors.New(errors.ErrorTypeDownload, fmt.Sprintf("refusing non-https url %q", c.URL))
	}

	res, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(c.URL)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeDownload, err, "request image")
	}

	body := res.RawBody()
	if body != nil {
		defer body.Close()
	}

	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return errors.New(errors.ErrorTypeDownload,
			fmt.Sprintf("unexpected status %d", res.StatusCode())).WithCode(res.StatusCode())
	}
	if body == nil {
		return errors.New(errors.ErrorTypeDownload, "empty response")
	}

	written, err := d.store.Save(body, c.Name, c.Ext)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeDownload, err, "save image")
	}

	d.logger.DebugWithFields("Image saved", map[string]interface{}{
		"name":  c.Name,
		"ext":   c.Ext,
		"bytes": written,
	})
	return nil
}
