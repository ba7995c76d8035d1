package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

const (
	DefaultTimeout      = 15 * time.Second
	DefaultMinBodyChars = 500
	DefaultMaxBodyBytes = 10 << 20
)

// DefaultBlockMarkers are lowercase substrings that identify CAPTCHA or
// bot-block interstitials.
var DefaultBlockMarkers = []string{"captcha", "blocked", "access denied"}

// Fetcher retrieves raw HTML through an ordered relay table. It tries relays
// one at a time and returns the first acceptable body. It holds no mutable
// state and is safe for concurrent use.
type Fetcher struct {
	HTTPClient *http.Client
	UserAgent  string
	// Relays defaults to DefaultRelays when nil.
	Relays []Relay
	// Timeout bounds each relay attempt. Zero means DefaultTimeout.
	Timeout time.Duration
	// MinBodyChars rejects shorter decoded bodies. Zero means DefaultMinBodyChars.
	MinBodyChars int
	// BlockMarkers defaults to DefaultBlockMarkers when nil.
	BlockMarkers []string
	// MaxBodyBytes caps how much of a response is read. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
}

// Fetch returns the HTML of target from the first relay that yields a
// plausible page. When all relays fail the error is an *ExhaustedError.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	relays := f.Relays
	if relays == nil {
		relays = DefaultRelays
	}
	exhausted := &ExhaustedError{}
	for _, r := range Enabled(relays) {
		body, err := f.tryRelay(ctx, r, target)
		if err == nil {
			log.Debug().Str("relay", r.Name).Str("url", target).Int("chars", utf8.RuneCountInString(body)).Msg("relay succeeded")
			return body, nil
		}
		var ae *AttemptError
		if !errors.As(err, &ae) {
			ae = &AttemptError{Relay: r.Name, Reason: ReasonTransport, Err: err}
		}
		log.Warn().Str("relay", r.Name).Str("url", target).Str("reason", string(ae.Reason)).Msg(ae.describe())
		exhausted.Attempts = append(exhausted.Attempts, ae)
	}
	return "", exhausted
}

func (f *Fetcher) tryRelay(ctx context.Context, r Relay, target string) (string, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Wrap(target), nil)
	if err != nil {
		return "", &AttemptError{Relay: r.Name, Reason: ReasonTransport, Err: fmt.Errorf("new request: %w", err)}
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient().Do(req)
	if err != nil {
		return "", &AttemptError{Relay: r.Name, Reason: classify(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &AttemptError{Relay: r.Name, Reason: ReasonHTTPStatus, Status: resp.StatusCode}
	}

	body, err := f.readBody(resp)
	if err != nil {
		return "", &AttemptError{Relay: r.Name, Reason: classify(err), Err: fmt.Errorf("read body: %w", err)}
	}

	minChars := f.MinBodyChars
	if minChars <= 0 {
		minChars = DefaultMinBodyChars
	}
	if n := utf8.RuneCountInString(body); n < minChars {
		return "", &AttemptError{Relay: r.Name, Reason: ReasonTooShort, Chars: n}
	}
	if marker := findBlockMarker(body, f.markers()); marker != "" {
		return "", &AttemptError{Relay: r.Name, Reason: ReasonBotBlock, Marker: marker}
	}
	return body, nil
}

// readBody reads at most MaxBodyBytes and decodes it to UTF-8 using the
// charset announced by the response or sniffed from the content.
func (f *Fetcher) readBody(resp *http.Response) (string, error) {
	limit := f.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", err
	}
	rd, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return string(raw), nil
	}
	decoded, err := io.ReadAll(rd)
	if err != nil {
		return string(raw), nil
	}
	return string(decoded), nil
}

func (f *Fetcher) markers() []string {
	if f.BlockMarkers == nil {
		return DefaultBlockMarkers
	}
	return f.BlockMarkers
}

func (f *Fetcher) httpClient() *http.Client {
	if f.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *f.HTTPClient
		base.CheckRedirect = f.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: f.checkRedirectFunc()}
}

func (f *Fetcher) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := f.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func findBlockMarker(body string, markers []string) string {
	lower := strings.ToLower(body)
	for _, m := range markers {
		if m == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(m)) {
			return m
		}
	}
	return ""
}

func classify(err error) Reason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ReasonTimeout
	}
	return ReasonTransport
}

func isHTTPScheme(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
