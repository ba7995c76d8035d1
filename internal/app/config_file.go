package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/smartscrape/internal/blocks"
	"github.com/hyperifyio/smartscrape/internal/relay"
	"github.com/hyperifyio/smartscrape/internal/strip"
)

// FileConfig represents the single-file configuration schema. The relay and
// pattern tables live here so they can be reordered or disabled without code
// changes.
type FileConfig struct {
	Output string `yaml:"output" json:"output"`
	Format string `yaml:"format" json:"format"`
	PDF    string `yaml:"pdf" json:"pdf"`

	Fetch struct {
		UserAgent    string        `yaml:"userAgent" json:"userAgent"`
		Timeout      time.Duration `yaml:"timeout" json:"timeout"`
		MinBodyChars int           `yaml:"minBodyChars" json:"minBodyChars"`
		Relays       []relay.Relay `yaml:"relays" json:"relays"`
	} `yaml:"fetch" json:"fetch"`

	Extract struct {
		MinContainerChars int             `yaml:"minContainerChars" json:"minContainerChars"`
		Patterns          []strip.Pattern `yaml:"patterns" json:"patterns"`
		NoiseKeywords     []string        `yaml:"noiseKeywords" json:"noiseKeywords"`
		Policy            blocks.Policy   `yaml:"policy" json:"policy"`
	} `yaml:"extract" json:"extract"`

	LLM struct {
		BaseURL      string `yaml:"base" json:"base"`
		Model        string `yaml:"model" json:"model"`
		APIKey       string `yaml:"key" json:"key"`
		Summarize    bool   `yaml:"summarize" json:"summarize"`
		SystemPrompt string `yaml:"systemPrompt" json:"systemPrompt"`
	} `yaml:"llm" json:"llm"`

	Verbose bool   `yaml:"verbose" json:"verbose"`
	LogFile string `yaml:"logFile" json:"logFile"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for any fields that are
// still unset. Flags and env are applied first so they keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.Format == "" && fc.Format != "" {
		cfg.Format = strings.ToLower(fc.Format)
	}
	if cfg.PDFPath == "" && fc.PDF != "" {
		cfg.PDFPath = fc.PDF
	}

	if cfg.UserAgent == "" && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.RelayTimeout == 0 && fc.Fetch.Timeout > 0 {
		cfg.RelayTimeout = fc.Fetch.Timeout
	}
	if cfg.MinBodyChars == 0 && fc.Fetch.MinBodyChars > 0 {
		cfg.MinBodyChars = fc.Fetch.MinBodyChars
	}
	if cfg.Relays == nil && len(fc.Fetch.Relays) > 0 {
		cfg.Relays = append([]relay.Relay{}, fc.Fetch.Relays...)
	}

	if cfg.MinContainerChars == 0 && fc.Extract.MinContainerChars > 0 {
		cfg.MinContainerChars = fc.Extract.MinContainerChars
	}
	if cfg.Patterns == nil && len(fc.Extract.Patterns) > 0 {
		cfg.Patterns = append([]strip.Pattern{}, fc.Extract.Patterns...)
	}
	if cfg.NoiseKeywords == nil && len(fc.Extract.NoiseKeywords) > 0 {
		cfg.NoiseKeywords = append([]string{}, fc.Extract.NoiseKeywords...)
	}
	p := fc.Extract.Policy
	if cfg.Policy.MinHeadingChars == 0 && p.MinHeadingChars > 0 {
		cfg.Policy.MinHeadingChars = p.MinHeadingChars
	}
	if cfg.Policy.MinParagraphChars == 0 && p.MinParagraphChars > 0 {
		cfg.Policy.MinParagraphChars = p.MinParagraphChars
	}
	if cfg.Policy.MinItemChars == 0 && p.MinItemChars > 0 {
		cfg.Policy.MinItemChars = p.MinItemChars
	}
	if cfg.Policy.MinQuoteChars == 0 && p.MinQuoteChars > 0 {
		cfg.Policy.MinQuoteChars = p.MinQuoteChars
	}
	if cfg.Policy.Order == "" && p.Order != "" {
		cfg.Policy.Order = p.Order
	}

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.SummaryPrompt == "" && fc.LLM.SystemPrompt != "" {
		cfg.SummaryPrompt = fc.LLM.SystemPrompt
	}
	if !cfg.Summarize && fc.LLM.Summarize {
		cfg.Summarize = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	if cfg.LogFile == "" && fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
}

// ValidateConfig performs schema validation on a defaulted config.
func ValidateConfig(cfg Config) error {
	if len(cfg.URLs) == 0 {
		return errors.New("config: at least one url is required")
	}
	switch cfg.Format {
	case FormatJSON, FormatMarkdown, FormatText, FormatNotes:
	default:
		return fmt.Errorf("config: unknown format %q", cfg.Format)
	}
	if cfg.RelayTimeout < 0 {
		return errors.New("config: relay timeout must not be negative")
	}
	if cfg.MinBodyChars < 0 || cfg.MinContainerChars < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	p := cfg.Policy
	if p.MinHeadingChars < 0 || p.MinParagraphChars < 0 || p.MinItemChars < 0 || p.MinQuoteChars < 0 {
		return errors.New("config: negative block thresholds are not allowed")
	}
	if p.Order != blocks.PassOrder && p.Order != blocks.DocumentOrder {
		return fmt.Errorf("config: unknown block order %q", p.Order)
	}
	if len(relay.Enabled(cfg.Relays)) == 0 {
		return errors.New("config: no enabled relays")
	}
	for _, r := range cfg.Relays {
		if strings.TrimSpace(r.Name) == "" {
			return errors.New("config: relay name is required")
		}
		if !r.HasPlaceholder() {
			return fmt.Errorf("config: relay %q template must contain {url} or {rawurl}", r.Name)
		}
	}
	for _, p := range cfg.Patterns {
		if p.Tag == "" && p.Class == "" && p.ID == "" {
			return fmt.Errorf("config: pattern %q needs a tag, class or id", p.Name)
		}
	}
	if cfg.Summarize && strings.TrimSpace(cfg.LLMModel) == "" {
		return errors.New("config: llm.model is required for summaries (or set LLM_MODEL)")
	}
	return nil
}
