package relay

import (
	"net/url"
	"strings"
)

// Relay is a third-party service that fetches a target URL server side and
// returns its body. Template must contain "{url}" (replaced with the
// query-escaped target) or "{rawurl}" (replaced with the target as-is).
type Relay struct {
	Name     string `yaml:"name" json:"name"`
	Template string `yaml:"template" json:"template"`
	Disabled bool   `yaml:"disabled" json:"disabled"`
}

// DefaultRelays is the relay table used when none is configured. Order is
// significant: relays are tried first to last.
var DefaultRelays = []Relay{
	{Name: "allorigins", Template: "https://api.allorigins.win/raw?url={url}"},
	{Name: "corsproxy", Template: "https://corsproxy.io/?{url}"},
	{Name: "codetabs", Template: "https://api.codetabs.com/v1/proxy?quest={url}"},
	{Name: "thingproxy", Template: "https://thingproxy.freeboard.io/fetch/{rawurl}"},
}

// Wrap builds the relay request URL for target.
func (r Relay) Wrap(target string) string {
	out := strings.ReplaceAll(r.Template, "{url}", url.QueryEscape(target))
	return strings.ReplaceAll(out, "{rawurl}", target)
}

// HasPlaceholder reports whether the template references the target URL.
func (r Relay) HasPlaceholder() bool {
	return strings.Contains(r.Template, "{url}") || strings.Contains(r.Template, "{rawurl}")
}

// Enabled returns the relays of list that are not disabled, preserving order.
func Enabled(list []Relay) []Relay {
	out := make([]Relay, 0, len(list))
	for _, r := range list {
		if r.Disabled {
			continue
		}
		out = append(out, r)
	}
	return out
}
