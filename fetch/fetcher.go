// Package fetch downloads the published price list when it changes. The
// etag of the last imported document is kept in the database so an
// unchanged list costs one request and no download.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"olccprices/database"
)

// Config controls one fetch run
type Config struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
	Force     bool // download even when the etag is unchanged
}

// Result describes the outcome of a fetch
type Result struct {
	URL       string    `json:"url"`  // URL the document was downloaded from
	ETag      string    `json:"etag"` // etag of the downloaded document
	Path      string    `json:"path"` // local file, empty when skipped
	Skipped   bool      `json:"skipped"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Fetcher retrieves the current price list document
type Fetcher struct {
	config *Config
	client *http.Client
	db     *database.PricesDB
}

// NewFetcher creates a fetcher with sane defaults for missing settings
func NewFetcher(db *database.PricesDB, config *Config) *Fetcher {
	if config == nil {
		config = &Config{}
	}
	if config.UserAgent == "" {
		config.UserAgent = "olccprices/1.0"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Fetcher{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		db:     db,
	}
}

// Fetch retrieves the price list, following an HTML landing page to the
// first spreadsheet link when needed. When the document's etag matches
// the last recorded import and Force is unset, the body is never read.
func (f *Fetcher) Fetch(ctx context.Context) (*Result, error) {
	previous, err := f.db.LatestImportRecord(f.config.URL)
	if err != nil {
		return nil, err
	}

	var knownETag string
	if previous != nil && !f.config.Force {
		knownETag = previous.ETag
	}

	finalURL := f.config.URL
	resp, err := f.get(ctx, finalURL, knownETag)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK && isHTMLResponse(resp) {
		linkURL, derr := DiscoverSpreadsheetLink(resp.Body, resp.Header.Get("Content-Type"), finalURL)
		resp.Body.Close()
		if derr != nil {
			return nil, fmt.Errorf("no price list link found at %s: %w", finalURL, derr)
		}

		finalURL = linkURL
		resp, err = f.get(ctx, finalURL, knownETag)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &Result{URL: finalURL, ETag: knownETag, Skipped: true, FetchedAt: time.Now()}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, finalURL)
	}

	etag := resp.Header.Get("ETag")
	if knownETag != "" && etag == knownETag {
		return &Result{URL: finalURL, ETag: etag, Skipped: true, FetchedAt: time.Now()}, nil
	}

	filePath, err := f.saveBody(resp.Body, finalURL)
	if err != nil {
		return nil, err
	}

	return &Result{URL: finalURL, ETag: etag, Path: filePath, FetchedAt: time.Now()}, nil
}

// RecordImport stores a completed import of the fetched document so the
// next run can skip it while it stays unchanged. The record is keyed by
// the configured URL, which is what Fetch looks up.
func (f *Fetcher) RecordImport(runID string, result *Result) error {
	return f.db.CreateImportRecord(&database.ImportRecord{
		RunID: runID,
		URL:   f.config.URL,
		ETag:  result.ETag,
	})
}

func (f *Fetcher) get(ctx context.Context, rawURL, knownETag string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.config.UserAgent)
	if knownETag != "" {
		req.Header.Set("If-None-Match", knownETag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// saveBody writes the document to a temp file, keeping the URL's
// extension so the import side can pick the right reader
func (f *Fetcher) saveBody(body io.Reader, rawURL string) (string, error) {
	ext := ".xls"
	if parsed, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(parsed.Path); e != "" {
			ext = e
		}
	}

	file, err := os.CreateTemp("", "olccprices-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to save price list: %w", err)
	}

	return file.Name(), nil
}

func isHTMLResponse(resp *http.Response) bool {
	return strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "text/html")
}

// DiscoverSpreadsheetLink finds the first spreadsheet link on an HTML
// page, resolving it against the page URL
func DiscoverSpreadsheetLink(body io.Reader, contentType, baseURL string) (string, error) {
	reader, err := charset.NewReader(body, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to decode page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	var linkURL string
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		if linkURL != "" {
			return
		}

		href, exists := s.Attr("href")
		if !exists {
			return
		}

		hrefLower := strings.ToLower(href)
		if strings.Contains(hrefLower, ".xls") || strings.Contains(hrefLower, ".csv") {
			parsed, err := url.Parse(href)
			if err != nil {
				return
			}
			linkURL = base.ResolveReference(parsed).String()
		}
	})

	if linkURL == "" {
		return "", fmt.Errorf("no spreadsheet links on page")
	}
	return linkURL, nil
}
