package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hyperifyio/smartscrape/internal/relay"
)

// relaycheck tries a URL through every default relay individually and prints
// the outcome of each, which helps spot relays that have gone bad.
func main() {
	target := "https://example.com/"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}
	client := &http.Client{}
	for _, r := range relay.DefaultRelays {
		f := &relay.Fetcher{HTTPClient: client, UserAgent: "relaycheck/1.0", Relays: []relay.Relay{r}, Timeout: 15 * time.Second}
		start := time.Now()
		body, err := f.Fetch(context.Background(), target)
		took := time.Since(start).Round(time.Millisecond)
		if err != nil {
			fmt.Printf("%-12s FAIL %8s  %v\n", r.Name, took, err)
			continue
		}
		fmt.Printf("%-12s OK   %8s  %d bytes\n", r.Name, took, len(body))
	}
}
