package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ppiankov/claimcheck/internal/util"
	"github.com/ppiankov/claimcheck/internal/worker"
)

var (
	// ErrDisallowed is returned when robots.txt forbids fetching a page
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// ErrUnsupportedContent is returned for pages that are not HTML or plain text
	ErrUnsupportedContent = errors.New("unsupported content type")
)

// PageFetcherConfig configures a PageFetcher
type PageFetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	Robots    *util.RobotsChecker // nil skips robots.txt checks
	Limiter   *worker.Limiter     // nil disables per-host pacing
	Proxy     func(*http.Request) (*url.URL, error)
}

// PageFetcher downloads result pages and reduces them to visible text
type PageFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
}

// Page is the readable content of one fetched result page
type Page struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Title       string
	Text        string
}

// NewPageFetcher creates a new PageFetcher
func NewPageFetcher(config PageFetcherConfig) *PageFetcher {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxBytes := config.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if config.Proxy != nil {
		transport.Proxy = config.Proxy
	}

	return &PageFetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: config.UserAgent,
		maxBytes:  maxBytes,
		robots:    config.Robots,
		limiter:   config.Limiter,
	}
}

// Fetch retrieves rawURL and extracts its visible text
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, ErrDisallowed
		}
		crawlDelay = delay
	}

	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	page := &Page{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	mediaType := "text/html"
	if page.ContentType != "" {
		if mt, _, err := mime.ParseMediaType(page.ContentType); err == nil {
			mediaType = mt
		}
	}

	body := io.LimitReader(resp.Body, f.maxBytes)

	switch mediaType {
	case "text/html", "application/xhtml+xml":
		title, text, err := VisibleText(body)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		page.Title = title
		page.Text = text
	case "text/plain":
		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		page.Text = collapseSpace(string(raw))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, mediaType)
	}

	return page, nil
}

// VisibleText returns the document title and the text a reader would see,
// skipping scripts, styles and navigation chrome.
func VisibleText(r io.Reader) (string, string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}

	var title string
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "svg", "template", "nav", "footer":
				return
			case "title":
				if title == "" && n.FirstChild != nil {
					title = collapseSpace(n.FirstChild.Data)
				}
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return title, collapseSpace(buf.String()), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
