package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hyperifyio/smartscrape/internal/relay"
	"github.com/hyperifyio/smartscrape/internal/scrape"
)

var storyPage = `<!DOCTYPE html><html><head>
<title>Relay Story | Example News</title>
<meta name="description" content="A story served through a relay.">
</head><body>
<nav>Home | About | Contact</nav>
<article>
<h1>Relay Story</h1>
<p>` + strings.Repeat("The relay returned this paragraph intact. ", 6) + `</p>
<ul><li>first point</li><li>second point</li></ul>
<p>` + strings.Repeat("A second paragraph keeps the article well above the limits. ", 5) + `</p>
</article>
<footer>Copyright</footer>
</body></html>`

// newRelayServer serves storyPage for any target except hosts containing
// "broken", which get a 502.
func newRelayServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("url"), "broken") {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(storyPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(srv *httptest.Server, urls ...string) Config {
	return Config{
		URLs:   urls,
		Relays: []relay.Relay{{Name: "local", Template: srv.URL + "/raw?url={url}"}},
	}
}

func runApp(t *testing.T, cfg Config) (string, error) {
	t.Helper()
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()
	var out bytes.Buffer
	a.stdout = &out
	err = a.Run(context.Background())
	return out.String(), err
}

func TestRun_JSONSingleURL(t *testing.T) {
	srv := newRelayServer(t)
	out, err := runApp(t, testConfig(srv, "https://example.com/story"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var got scrape.Article
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("expected a single JSON object: %v\n%s", err, out)
	}
	if got.Title != "Relay Story" || got.MetaDescription != "A story served through a relay." {
		t.Fatalf("unexpected metadata: %+v", got)
	}
	if len(got.ContentBlocks) == 0 || got.Error != "" {
		t.Fatalf("expected content blocks, got %+v", got)
	}
	if strings.Contains(got.PlainText, "Copyright") || strings.Contains(got.PlainText, "Home | About") {
		t.Fatalf("boilerplate leaked into text: %q", got.PlainText)
	}
}

func TestRun_MixedResultsArray(t *testing.T) {
	srv := newRelayServer(t)
	out, err := runApp(t, testConfig(srv, "https://example.com/story", "ftp://example.com/file", "https://broken.example/x"))
	if err != nil {
		t.Fatalf("one success should not fail the run: %v", err)
	}
	var got []Result
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("expected a JSON array: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].Error != "" {
		t.Fatalf("first record should succeed: %q", got[0].Error)
	}
	if got[1].Error != scrape.ErrInvalidURL {
		t.Fatalf("second record error=%q", got[1].Error)
	}
	if !strings.HasPrefix(got[2].Error, "All proxies failed:") || !strings.Contains(got[2].Error, "local: HTTP 502") {
		t.Fatalf("third record error=%q", got[2].Error)
	}
}

func TestRun_AllFailed(t *testing.T) {
	srv := newRelayServer(t)
	out, err := runApp(t, testConfig(srv, "not a url", "https://broken.example/y"))
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("expected ErrAllFailed, got %v", err)
	}
	if !strings.Contains(out, "Invalid URL format") {
		t.Fatalf("error records must still be written:\n%s", out)
	}
}

func TestRun_MarkdownToFileAndPDF(t *testing.T) {
	srv := newRelayServer(t)
	dir := t.TempDir()
	cfg := testConfig(srv, "https://example.com/a", "https://example.com/b")
	cfg.Format = FormatMarkdown
	cfg.OutputPath = filepath.Join(dir, "out", "story.md")
	cfg.PDFPath = filepath.Join(dir, "story.pdf")
	if _, err := runApp(t, cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	md, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.Count(string(md), "Source: <https://example.com/") != 2 || !strings.Contains(string(md), "\n---\n") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
	for _, name := range []string{"story-1.pdf", "story-2.pdf"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil || !bytes.HasPrefix(b, []byte("%PDF-")) {
			t.Fatalf("expected pdf %s, err=%v", name, err)
		}
	}
}

func TestRun_NotesFormat(t *testing.T) {
	srv := newRelayServer(t)
	cfg := testConfig(srv, "https://example.com/story")
	cfg.Format = FormatNotes
	out, err := runApp(t, cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var doc struct {
		SourceURL string `json:"sourceUrl"`
		Blocks    []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid notes json: %v", err)
	}
	var bullets int
	for _, b := range doc.Blocks {
		if b.ID == "" {
			t.Fatalf("note block without id")
		}
		if b.Type == "bulletListItem" {
			bullets++
		}
	}
	if bullets != 2 {
		t.Fatalf("expected 2 bullet items, got %d", bullets)
	}
}

func TestRun_TextWithSummary(t *testing.T) {
	srv := newRelayServer(t)
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"stub","choices":[{"index":0,"message":{"role":"assistant","content":"A relay delivered a story."},"finish_reason":"stop"}]}`))
	}))
	defer llm.Close()

	cfg := testConfig(srv, "https://example.com/story")
	cfg.Format = FormatText
	cfg.Summarize = true
	cfg.LLMBaseURL = llm.URL + "/v1"
	cfg.LLMModel = "stub"
	out, err := runApp(t, cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out, "Relay Story\nhttps://example.com/story\n\n") {
		t.Fatalf("unexpected text output:\n%s", out)
	}
	if !strings.Contains(out, "Summary: A relay delivered a story.") {
		t.Fatalf("expected summary in output:\n%s", out)
	}
}

func TestRun_CancelledWritesCollectedRecords(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) > 1 {
			cancel()
			http.Error(w, "gone", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(storyPage))
	}))
	defer srv.Close()

	a, err := New(context.Background(), testConfig(srv, "https://example.com/a", "https://example.com/b", "https://example.com/c"))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()
	var out bytes.Buffer
	a.stdout = &out

	if err := a.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	var got []Result
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("expected collected records as JSON array: %v\n%s", err, out.String())
	}
	if len(got) != 2 || got[0].Error != "" || got[1].Error == "" {
		t.Fatalf("unexpected records: %+v", got)
	}
	if n := atomic.LoadInt32(&requests); n != 2 {
		t.Fatalf("third url should not be fetched, saw %d requests", n)
	}
}

func TestClose_ReleasesRelayClient(t *testing.T) {
	srv := newRelayServer(t)
	a, err := New(context.Background(), testConfig(srv, "https://example.com/a"))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if a.httpClient == nil || a.scraper.Fetcher.(*relay.Fetcher).HTTPClient != a.httpClient {
		t.Fatalf("expected the relay fetcher to share the app http client")
	}
	a.stdout = &bytes.Buffer{}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	a.Close()
	a.Close()
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error without urls")
	}
}

func TestIndexedPath(t *testing.T) {
	if got := indexedPath("/tmp/out.pdf", 2); got != "/tmp/out-2.pdf" {
		t.Fatalf("got %q", got)
	}
	if got := indexedPath("out", 1); got != "out-1" {
		t.Fatalf("got %q", got)
	}
}
