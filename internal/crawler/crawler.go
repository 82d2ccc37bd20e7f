// Package crawler scrapes structured assessment records from the public
// product catalog listing. It is a one-shot batch job: its output artifact is
// the catalog store's input, not a live dependency of the engine.
package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/talentsift/assessrec/internal/catalog"
	"github.com/talentsift/assessrec/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBaseURL   = "https://www.shl.com"
	catalogPath      = "/solutions/products/product-catalog/"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// The listing pages 12 rows at a time.
	pageStep = 12

	defaultDelay       = 1500 * time.Millisecond
	defaultConcurrency = 4
)

// Config holds the crawler settings.
type Config struct {
	BaseURL     string        `mapstructure:"base-url"`
	UserAgent   string        `mapstructure:"user-agent"`
	Delay       time.Duration `mapstructure:"delay"`
	Concurrency int           `mapstructure:"concurrency"`
	Output      string        `mapstructure:"output"`
}

// Client crawls the catalog listing and assessment detail pages.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	BaseURL    string

	delay       time.Duration
	concurrency int
	logger      *zap.Logger
}

// New creates a crawler Client from the given config.
func New(cfg *Config, logger *zap.Logger) *Client {
	if cfg == nil {
		cfg = &Config{}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	delay := cfg.Delay
	if delay < 0 {
		delay = defaultDelay
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Client{
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		UserAgent:   userAgent,
		BaseURL:     baseURL,
		delay:       delay,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Crawl walks every listing page, then fetches each assessment's detail page
// with bounded concurrency. Detail failures degrade to the unknown sentinels;
// a listing failure past the first page ends the walk with what was already
// collected.
func (c *Client) Crawl(ctx context.Context) ([]*catalog.Assessment, error) {
	rows, err := c.collectRows(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.Info("listing walk finished", zap.Int("assessments", len(rows)))

	records := make([]*catalog.Assessment, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, row := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			pageURL, err := c.absoluteURL(row.Href)
			if err != nil {
				c.logger.Warn("skipping unparseable assessment url",
					zap.String("href", row.Href), zap.Error(err))
				pageURL = row.Href
			}

			d := c.fetchDetails(gctx, pageURL)

			types := make([]string, 0, len(row.Letters))
			for _, letter := range row.Letters {
				types = append(types, catalog.TestTypeLabel(letter))
			}

			records[i] = &catalog.Assessment{
				ID:              row.ID,
				Name:            row.Name,
				URL:             pageURL,
				Duration:        d.Duration,
				Description:     d.Description,
				RemoteSupport:   row.Remote,
				AdaptiveSupport: row.Adaptive,
				TestType:        types,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

func (c *Client) collectRows(ctx context.Context) ([]listingRow, error) {
	var rows []listingRow
	seen := make(map[string]bool)

	start := 0
	firstPage := true
	page := 1

	for {
		pageURL := c.listingURL(start, firstPage)
		c.logger.Info("scraping listing page", zap.Int("page", page), zap.String("url", pageURL))

		doc, err := c.fetchDocument(ctx, pageURL)
		if err != nil {
			if firstPage {
				return nil, fmt.Errorf("fetch first listing page: %w", err)
			}
			c.logger.Warn("listing page failed, stopping walk",
				zap.Int("page", page), zap.Error(err))
			break
		}

		pageRows, hasNext := parseListing(doc, firstPage)
		c.logger.Debug("parsed listing page",
			zap.Int("page", page), zap.Int("rows", len(pageRows)))

		for _, row := range pageRows {
			if row.ID == "" || seen[row.ID] {
				continue
			}
			seen[row.ID] = true
			rows = append(rows, row)
		}

		if !hasNext || len(pageRows) == 0 {
			break
		}

		firstPage = false
		start += pageStep
		page++

		if err := utils.WaitFor(ctx, c.delay); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

// fetchDetails scrapes one assessment page, returning the sentinel values on
// any failure.
func (c *Client) fetchDetails(ctx context.Context, pageURL string) details {
	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		c.logger.Warn("detail page failed",
			zap.String("url", pageURL), zap.Error(err))
		return details{Duration: catalog.DurationUnknown, Description: catalog.NotAvailable}
	}

	return parseDetails(doc)
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	c.logger.Debug("make request", zap.String("url", pageURL))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	return html.Parse(resp.Body)
}

func (c *Client) listingURL(start int, firstPage bool) string {
	q := url.Values{}
	if start > 0 {
		q.Set("start", strconv.Itoa(start))
	}
	if !firstPage {
		q.Set("type", "1")
	}

	pageURL := c.BaseURL + catalogPath
	if encoded := q.Encode(); encoded != "" {
		pageURL += "?" + encoded
	}
	return pageURL
}

func (c *Client) absoluteURL(href string) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
