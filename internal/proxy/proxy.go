// Package proxy fetches arbitrary third-party pages server-side and rewrites
// them so they can be framed and annotated: framing-blocking headers are
// dropped, relative URLs are re-rooted with a <base> tag, and the overlay
// script plus its runtime config are injected before the page is returned.
package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Realistic browser UA so upstream sites serve their normal markup.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Upstream response headers copied through to the client. Everything else,
// notably X-Frame-Options and Content-Security-Policy, is dropped so the
// page can be framed.
var headerSafelist = []string{"Content-Type", "Cache-Control", "Last-Modified", "Etag"}

// Result is a proxied response ready to be written to the client.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type Service struct {
	client     *http.Client
	enableDrag bool
}

func NewService(timeout time.Duration, enableDrag bool) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		client:     &http.Client{Timeout: timeout},
		enableDrag: enableDrag,
	}
}

// WithClient swaps the HTTP client. Tests use it to install a spy transport.
func (s *Service) WithClient(c *http.Client) *Service {
	s.client = c
	return s
}

// Render validates target, fetches it, and returns the rewritten response.
// Upstream error pages proxy through with their own status so the annotator
// can pin comments on error states too. Error classes the caller maps to
// HTTP: ErrInvalidURL (400), ErrBlockedAddress (403), anything else from the
// fetch itself (502).
func (s *Service) Render(ctx context.Context, target, projectID, serverURL string) (*Result, error) {
	u, err := ValidateTarget(target)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy: fetching %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("proxy: reading %s: %w", u.Host, err)
	}

	out := &Result{StatusCode: resp.StatusCode, Header: http.Header{}}
	for _, h := range headerSafelist {
		if v := resp.Header.Get(h); v != "" {
			out.Header.Set(h, v)
		}
	}
	out.Header.Set("Access-Control-Allow-Origin", "*")

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		// Binary-safe passthrough for everything that isn't a page.
		out.Body = body
		return out, nil
	}

	rewritten, err := InjectOverlay(body, OverlayConfig{
		TargetURL:  u.String(),
		ProjectID:  projectID,
		ServerURL:  serverURL,
		EnableDrag: s.enableDrag,
	})
	if err != nil {
		return nil, fmt.Errorf("proxy: rewriting %s: %w", u.Host, err)
	}
	out.Body = rewritten
	return out, nil
}
