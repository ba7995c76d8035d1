package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupLogging_WritesFile(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "smartscrape.log")
	closeLog := setupLogging(true, path)
	log.Debug().Str("relay", "local").Msg("debug line")
	closeLog()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"relay":"local"`) || !strings.Contains(string(b), `"message":"debug line"`) {
		t.Fatalf("unexpected log contents: %s", b)
	}
}
