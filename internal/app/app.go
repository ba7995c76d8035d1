package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/smartscrape/internal/export"
	"github.com/hyperifyio/smartscrape/internal/noteblock"
	"github.com/hyperifyio/smartscrape/internal/relay"
	"github.com/hyperifyio/smartscrape/internal/scrape"
	"github.com/hyperifyio/smartscrape/internal/strip"
	"github.com/hyperifyio/smartscrape/internal/summarize"
)

// ErrAllFailed is returned by Run when every requested URL produced an error
// record. The records are still written.
var ErrAllFailed = errors.New("all urls failed")

type App struct {
	cfg        Config
	scraper    *scrape.Scraper
	summarizer *summarize.Summarizer
	httpClient *http.Client
	stdout     io.Writer
}

// Result is one output record: the article plus an optional summary.
type Result struct {
	scrape.Article
	Summary string `json:"summary,omitempty"`
}

// noteDocument is the record written for the notes format.
type noteDocument struct {
	SourceURL string            `json:"sourceUrl"`
	Title     string            `json:"title"`
	Error     string            `json:"error,omitempty"`
	Summary   string            `json:"summary,omitempty"`
	Blocks    []noteblock.Block `json:"blocks"`
}

// New builds an App from cfg. Unset fields are defaulted and the result is
// validated.
func New(ctx context.Context, cfg Config) (*App, error) {
	cfg = cfg.WithDefaults()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	httpClient := newRelayHTTPClient()
	fetcher := &relay.Fetcher{
		HTTPClient:   httpClient,
		UserAgent:    cfg.UserAgent,
		Relays:       cfg.Relays,
		Timeout:      cfg.RelayTimeout,
		MinBodyChars: cfg.MinBodyChars,
	}
	a := &App{
		cfg: cfg,
		scraper: &scrape.Scraper{
			Fetcher: fetcher,
			Stripper: strip.Stripper{
				Patterns:          cfg.Patterns,
				MinContainerChars: cfg.MinContainerChars,
				NoiseKeywords:     cfg.NoiseKeywords,
			},
			Policy: cfg.Policy,
		},
		httpClient: httpClient,
		stdout:     os.Stdout,
	}
	if cfg.Summarize {
		a.summarizer = &summarize.Summarizer{
			Client:       summarize.NewOpenAIProvider(cfg.LLMAPIKey, cfg.LLMBaseURL),
			Model:        cfg.LLMModel,
			SystemPrompt: cfg.SummaryPrompt,
		}
	}
	log.Debug().
		Int("urls", len(cfg.URLs)).
		Int("relays", len(relay.Enabled(cfg.Relays))).
		Str("format", cfg.Format).
		Str("order", string(cfg.Policy.Order)).
		Bool("summarize", cfg.Summarize).
		Msg("app configured")
	return a, nil
}

// Close releases idle relay connections.
func (a *App) Close() {
	a.httpClient.CloseIdleConnections()
}

// Run scrapes every configured URL in order, writes the formatted records
// and any PDFs, and returns ErrAllFailed when no URL succeeded. When ctx is
// cancelled the records collected so far are still written and ctx.Err() is
// returned.
func (a *App) Run(ctx context.Context) error {
	results := make([]Result, 0, len(a.cfg.URLs))
	failed := 0
	var cancelled error
	for _, u := range a.cfg.URLs {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		res := Result{Article: a.scraper.Scrape(ctx, strings.TrimSpace(u))}
		if res.Failed() {
			failed++
		} else if a.summarizer != nil {
			summary, err := a.summarizer.Summarize(ctx, res.Article)
			if err != nil {
				log.Warn().Err(err).Str("url", res.SourceURL).Msg("summary failed")
			} else {
				res.Summary = summary
			}
		}
		results = append(results, res)
	}
	if cancelled != nil && len(results) == 0 {
		return cancelled
	}

	body, err := render(a.cfg.Format, results)
	if err != nil {
		return err
	}
	if err := a.writeOutput(body); err != nil {
		return err
	}
	if a.cfg.PDFPath != "" {
		if err := writePDFs(a.cfg.PDFPath, results); err != nil {
			return err
		}
	}

	if cancelled != nil {
		log.Warn().Int("written", len(results)).Int("requested", len(a.cfg.URLs)).Msg("run cancelled")
		return cancelled
	}
	log.Info().Int("urls", len(results)).Int("failed", failed).Msg("scrape run complete")
	if failed == len(results) {
		return ErrAllFailed
	}
	return nil
}

func (a *App) writeOutput(body []byte) error {
	if a.cfg.OutputPath == "" || a.cfg.OutputPath == "-" {
		_, err := a.stdout.Write(body)
		return err
	}
	if dir := filepath.Dir(a.cfg.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(a.cfg.OutputPath, body, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", a.cfg.OutputPath).Msg("wrote output")
	return nil
}

// render formats results. JSON-based formats emit a single object for one
// URL and an array otherwise.
func render(format string, results []Result) ([]byte, error) {
	switch format {
	case FormatJSON:
		if len(results) == 1 {
			return export.JSON(results[0])
		}
		return export.JSON(results)
	case FormatNotes:
		docs := make([]noteDocument, 0, len(results))
		for _, r := range results {
			docs = append(docs, noteDocument{
				SourceURL: r.SourceURL,
				Title:     r.Title,
				Error:     r.Error,
				Summary:   r.Summary,
				Blocks:    noteblock.FromBlocks(r.ContentBlocks),
			})
		}
		if len(docs) == 1 {
			return export.JSON(docs[0])
		}
		return export.JSON(docs)
	case FormatMarkdown:
		parts := make([]string, 0, len(results))
		for _, r := range results {
			md := export.Markdown(r.Article)
			if r.Summary != "" {
				md += "\n## Summary\n\n" + r.Summary + "\n"
			}
			parts = append(parts, md)
		}
		return []byte(strings.Join(parts, "\n---\n\n")), nil
	case FormatText:
		parts := make([]string, 0, len(results))
		for _, r := range results {
			txt := export.Text(r.Article)
			if r.Summary != "" {
				txt += "\nSummary: " + r.Summary + "\n"
			}
			parts = append(parts, txt)
		}
		return []byte(strings.Join(parts, "\n---\n\n")), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// writePDFs writes one PDF per successful result. With several URLs the
// index is added before the extension: out.pdf becomes out-1.pdf, out-2.pdf.
func writePDFs(path string, results []Result) error {
	for i, r := range results {
		if r.Failed() {
			continue
		}
		target := path
		if len(results) > 1 {
			target = indexedPath(path, i+1)
		}
		var buf bytes.Buffer
		if err := export.PDF(r.Article, &buf); err != nil {
			return err
		}
		if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("pdf", target).Str("url", r.SourceURL).Msg("wrote pdf")
	}
	return nil
}

func indexedPath(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), n, ext)
}
