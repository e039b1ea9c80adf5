package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"
	"wallgrab/pkg/config"
	"wallgrab/pkg/logger"
)

// BrowserRenderer loads pages in headless Chrome so client-side markup is present
type BrowserRenderer struct {
	userAgent   string
	timeout     time.Duration
	settleDelay time.Duration
	allocOpts   []chromedp.ExecAllocatorOption
}

// NewBrowserRenderer creates a renderer from the listing configuration
func NewBrowserRenderer(cfg config.ListingConfig) *BrowserRenderer {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	return &BrowserRenderer{
		userAgent:   cfg.UserAgent,
		timeout:     cfg.Timeout,
		settleDelay: cfg.SettleDelay,
		allocOpts:   opts,
	}
}

// Render navigates to url, waits for the body and the settle delay, and
// returns the document's outer HTML. The browser is closed before returning.
func (b *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// The settle delay stands in for a network-idle signal; the timeout
	// bounds pages that never go quiet.
	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(b.settleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("browser render %s: %w", url, err)
	}
	return html, nil
}

// HTTPRenderer fetches server-rendered pages without a browser
type HTTPRenderer struct {
	client *resty.Client
	log    logger.Logger
}

// NewHTTPRenderer creates a renderer backed by resty
func NewHTTPRenderer(cfg config.ListingConfig, log logger.Logger) *HTTPRenderer {
	if log == nil {
		log = logger.GetLogger()
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("Accept", "text/html,application/xhtml+xml")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &HTTPRenderer{client: client, log: log}
}

// NewHTTPRendererWithClient wraps an existing resty client
func NewHTTPRendererWithClient(client *resty.Client, log logger.Logger) *HTTPRenderer {
	if log == nil {
		log = logger.GetLogger()
	}
	return &HTTPRenderer{client: client, log: log}
}

// Render GETs url and returns the body. Any non-2xx status is an error.
func (h *HTTPRenderer) Render(ctx context.Context, url string) (string, error) {
	res, err := h.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}

	logger.LogRequest(h.log, "GET", url, res.StatusCode(), res.Time())

	if res.IsError() {
		return "", fmt.Errorf("fetch %s: unexpected status %d", url, res.StatusCode())
	}
	return res.String(), nil
}

// NewRenderer picks the renderer named in the listing configuration
func NewRenderer(cfg config.ListingConfig, log logger.Logger) (Renderer, error) {
	switch cfg.Renderer {
	case config.RendererBrowser:
		return NewBrowserRenderer(cfg), nil
	case config.RendererHTTP:
		return NewHTTPRenderer(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", cfg.Renderer)
	}
}
