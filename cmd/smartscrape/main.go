package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/smartscrape/internal/app"
	"github.com/hyperifyio/smartscrape/internal/blocks"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, showVersion, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Error().Err(err).Msg("invalid arguments")
		os.Exit(2)
	}
	if showVersion {
		fmt.Println(app.VersionString())
		return
	}
	closeLog := setupLogging(cfg.Verbose, cfg.LogFile)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, app.ErrAllFailed) {
			log.Warn().Msg("no url could be scraped")
		} else {
			log.Error().Err(err).Msg("run failed")
		}
		stop()
		closeLog()
		os.Exit(1)
	}
}

// parseFlags builds the configuration with precedence flags > env > file >
// defaults. Dotenv files are loaded before env is consulted.
func parseFlags(fs *flag.FlagSet, args []string) (app.Config, bool, error) {
	var (
		urlList     string
		format      string
		outputPath  string
		pdfPath     string
		configPath  string
		envFile     string
		timeout     time.Duration
		userAgent   string
		order       string
		summarize   bool
		llmBaseURL  string
		llmModel    string
		llmKey      string
		verbose     bool
		logFile     string
		showVersion bool
	)

	fs.StringVar(&urlList, "url", "", "Comma-separated URLs to scrape (positional arguments are appended)")
	fs.StringVar(&format, "format", "", "Output format: json, markdown, text or notes")
	fs.StringVar(&outputPath, "output", "", "Write output to this file instead of stdout")
	fs.StringVar(&pdfPath, "pdf", "", "Also write a PDF rendition to this path")
	fs.StringVar(&configPath, "config", os.Getenv("SCRAPE_CONFIG"), "Path to YAML or JSON config file")
	fs.StringVar(&envFile, "env", ".env", "Path to dotenv file loaded before reading the environment")
	fs.DurationVar(&timeout, "timeout", 0, "Per-relay timeout (default 15s)")
	fs.StringVar(&userAgent, "ua", "", "User-Agent sent to relays")
	fs.StringVar(&order, "order", "", "Block order: passes or document")
	fs.BoolVar(&summarize, "summarize", false, "Ask the LLM for a short summary of each article")
	fs.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	fs.StringVar(&llmModel, "llm.model", "", "Model name for summaries")
	fs.StringVar(&llmKey, "llm.key", "", "API key for OpenAI-compatible server")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	fs.StringVar(&logFile, "log.file", "", "Also write JSON logs to this rotating file")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, err
	}
	if showVersion {
		return app.Config{}, true, nil
	}

	if err := app.LoadEnvFiles(envFile); err != nil {
		return app.Config{}, false, fmt.Errorf("load env: %w", err)
	}

	cfg := app.Config{
		URLs:         splitList(urlList),
		Format:       strings.ToLower(strings.TrimSpace(format)),
		OutputPath:   outputPath,
		PDFPath:      pdfPath,
		UserAgent:    userAgent,
		RelayTimeout: timeout,
		Summarize:    summarize,
		LLMBaseURL:   llmBaseURL,
		LLMModel:     llmModel,
		LLMAPIKey:    llmKey,
		Verbose:      verbose,
		LogFile:      logFile,
	}
	cfg.URLs = append(cfg.URLs, fs.Args()...)
	if s := strings.ToLower(strings.TrimSpace(order)); s != "" {
		cfg.Policy.Order = blocks.Order(s)
	}

	app.ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, false, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	return cfg, false, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
