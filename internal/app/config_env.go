package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hyperifyio/smartscrape/internal/blocks"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("SCRAPE_USER_AGENT")
	}
	if cfg.Format == "" {
		cfg.Format = strings.ToLower(strings.TrimSpace(os.Getenv("SCRAPE_FORMAT")))
	}
	if cfg.RelayTimeout == 0 {
		if s := os.Getenv("SCRAPE_RELAY_TIMEOUT"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.RelayTimeout = d
			}
		}
	}
	if cfg.Policy.Order == "" {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv("SCRAPE_ORDER"))); s != "" {
			cfg.Policy.Order = blocks.Order(s)
		}
	}
	setInt := func(dst *int, envKey string) {
		if *dst != 0 {
			return
		}
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(envKey))); err == nil && n > 0 {
			*dst = n
		}
	}
	setInt(&cfg.Policy.MinParagraphChars, "SCRAPE_MIN_PARAGRAPH_CHARS")
	setInt(&cfg.MinBodyChars, "SCRAPE_MIN_BODY_CHARS")

	if cfg.LogFile == "" {
		cfg.LogFile = os.Getenv("SCRAPE_LOG_FILE")
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Summarize, "SUMMARIZE")
	setBool(&cfg.Verbose, "VERBOSE")
}
