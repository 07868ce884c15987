// Package fetch provides a resilient HTTP page fetcher for link enrichment
package fetch

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"

	perr "bookmarkd/internal/platform/errors"
	"bookmarkd/internal/platform/logger"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	maxBodyBytes     = 2 << 20
	maxTextRunes     = 8000
)

// user agents rotated per request, some sites refuse unadorned clients
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
}

// shortener hosts that get expanded before classification and fetching
var shortenerHosts = []string{"t.co", "bit.ly", "tinyurl.com", "goo.gl"}

// Page is the extracted content of one fetched URL
type Page struct {
	URL         string
	FinalURL    string
	Title       string
	Description string
	Text        string
}

// Options configures the Client
type Options struct {
	Timeout   time.Duration
	MaxRetry  int
	RetryBase time.Duration
}

// Client fetches and extracts web pages with retries and a failure
// taxonomy the retry policy upstream understands
type Client struct {
	http  *http.Client
	opts  Options
	cur   atomic.Int32
	log   logger.Logger
	sleep func(time.Duration)
}

// New creates a Client with sane defaults
func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetry <= 0 {
		o.MaxRetry = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("fetch"),
		sleep: time.Sleep,
	}
}

func (c *Client) userAgent() string {
	n := int(c.cur.Add(1))
	return userAgents[n%len(userAgents)]
}

var shortLinkRe = func() *regexp.Regexp {
	quoted := make([]string, len(shortenerHosts))
	for i, h := range shortenerHosts {
		quoted[i] = regexp.QuoteMeta(h)
	}
	return regexp.MustCompile(`https?://(?:` + strings.Join(quoted, "|") + `)/[\w/-]+`)
}()

// ShortLinks extracts known shortener URLs from free text
func ShortLinks(text string) []string {
	return shortLinkRe.FindAllString(text, -1)
}

// IsShortLink reports whether the URL points at a known shortener
func IsShortLink(url string) bool {
	for _, h := range shortenerHosts {
		if strings.Contains(url, h+"/") {
			return true
		}
	}
	return false
}

// Resolve expands a short link by following redirects and returning the
// final URL. Non shortener URLs come back unchanged without a request.
func (c *Client) Resolve(ctx context.Context, url string) (string, error) {
	if !IsShortLink(url) {
		return url, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "resolve request %s", url)
	}
	req.Header.Set("User-Agent", c.userAgent())
	resp, err := c.http.Do(req)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeTransient, "resolve %s", url)
	}
	_ = resp.Body.Close()
	return resp.Request.URL.String(), nil
}

// Fetch retrieves the URL and extracts title, description, and body text.
// Status codes map onto the failure taxonomy so the caller's retry policy
// can tell a dead link from a flaky upstream.
func (c *Client) Fetch(ctx context.Context, url string) (Page, error) {
	final, err := c.Resolve(ctx, url)
	if err != nil {
		return Page{}, err
	}

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return Page{}, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, final, nil)
		if err != nil {
			return Page{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "fetch request %s", final)
		}
		req.Header.Set("User-Agent", c.userAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			if attempts >= c.opts.MaxRetry {
				return Page{}, perr.Wrapf(err, perr.ErrorCodeTransient, "fetch %s", final)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("url", final).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", time.Since(start)).
			Msg("fetch response")

		switch {
		case resp.StatusCode == http.StatusOK:
			page, err := extract(resp.Body, url, final)
			_ = resp.Body.Close()
			return page, err
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
			_ = drain(resp.Body)
			return Page{}, perr.ContentGonef("fetch %s status %d", final, resp.StatusCode)
		case resp.StatusCode == http.StatusTooManyRequests:
			_ = drain(resp.Body)
			if attempts >= c.opts.MaxRetry {
				return Page{}, perr.RateLimitedf("fetch %s rate limited", final)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Msg("rate limited backing off")
			c.sleep(back)
			attempts++
			continue
		case resp.StatusCode >= 500:
			_ = drain(resp.Body)
			if attempts >= c.opts.MaxRetry {
				return Page{}, perr.Transientf("fetch %s status %d", final, resp.StatusCode)
			}
			c.sleep(c.backoff(attempts))
			attempts++
			continue
		default:
			_ = drain(resp.Body)
			return Page{}, perr.Malformedf("fetch %s unexpected status %d", final, resp.StatusCode)
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

func drain(body io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBodyBytes))
	return body.Close()
}

// extract pulls title, meta description, and readable text from the HTML
func extract(body io.Reader, url, final string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return Page{}, perr.Wrapf(err, perr.ErrorCodeMalformed, "parse %s", final)
	}

	page := Page{URL: url, FinalURL: final}
	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && og != "" {
		page.Title = og
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		page.Description = strings.TrimSpace(desc)
	}

	doc.Find("script, style, nav, footer, header, aside").Remove()
	sel := doc.Find("article")
	if sel.Length() == 0 {
		sel = doc.Find("main")
	}
	if sel.Length() == 0 {
		sel = doc.Find("body")
	}
	text := strings.Join(strings.Fields(sel.Text()), " ")
	if runes := []rune(text); len(runes) > maxTextRunes {
		text = string(runes[:maxTextRunes])
	}
	page.Text = text
	return page, nil
}
