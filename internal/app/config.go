package app

import (
	"time"

	"github.com/hyperifyio/smartscrape/internal/blocks"
	"github.com/hyperifyio/smartscrape/internal/relay"
	"github.com/hyperifyio/smartscrape/internal/strip"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatNotes    = "notes"
)

const (
	defaultFormat    = FormatJSON
	defaultUserAgent = "smartscrape/1.0 (+https://github.com/hyperifyio/smartscrape)"
)

// Config holds runtime configuration for the application. Zero values mean
// "unset" until WithDefaults fills them.
type Config struct {
	URLs       []string
	Format     string
	OutputPath string
	PDFPath    string

	// Fetching
	UserAgent    string
	RelayTimeout time.Duration
	Relays       []relay.Relay
	MinBodyChars int

	// Extraction
	Patterns          []strip.Pattern
	NoiseKeywords     []string
	MinContainerChars int
	Policy            blocks.Policy

	// Summaries
	Summarize     bool
	LLMBaseURL    string
	LLMModel      string
	LLMAPIKey     string
	SummaryPrompt string

	Verbose bool
	// LogFile, when set, receives JSON logs with size-based rotation.
	LogFile string
}

// WithDefaults returns cfg with every unset field given its default.
func (cfg Config) WithDefaults() Config {
	if cfg.Format == "" {
		cfg.Format = defaultFormat
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.RelayTimeout == 0 {
		cfg.RelayTimeout = relay.DefaultTimeout
	}
	if cfg.Relays == nil {
		cfg.Relays = append([]relay.Relay{}, relay.DefaultRelays...)
	}
	if cfg.MinBodyChars == 0 {
		cfg.MinBodyChars = relay.DefaultMinBodyChars
	}
	if cfg.Patterns == nil {
		cfg.Patterns = append([]strip.Pattern{}, strip.DefaultPatterns...)
	}
	if cfg.NoiseKeywords == nil {
		cfg.NoiseKeywords = append([]string{}, strip.DefaultNoiseKeywords...)
	}
	if cfg.MinContainerChars == 0 {
		cfg.MinContainerChars = strip.DefaultMinContainerChars
	}
	cfg.Policy = cfg.Policy.WithDefaults()
	return cfg
}
