package relay

import (
	"errors"
	"fmt"
	"strings"
)

// Reason classifies why a single relay attempt failed.
type Reason string

const (
	ReasonTimeout    Reason = "timeout"
	ReasonTransport  Reason = "transport"
	ReasonHTTPStatus Reason = "http-status"
	ReasonTooShort   Reason = "too-short"
	ReasonBotBlock   Reason = "bot-block"
)

// ErrAllRelaysFailed matches any *ExhaustedError via errors.Is.
var ErrAllRelaysFailed = errors.New("all relays failed")

// AttemptError records the failure of one relay.
type AttemptError struct {
	Relay  string
	Reason Reason
	// Status is the HTTP status for ReasonHTTPStatus, else zero.
	Status int
	// Chars is the decoded body length for ReasonTooShort.
	Chars int
	// Marker is the matched block signature for ReasonBotBlock.
	Marker string
	Err    error
}

func (e *AttemptError) Error() string {
	return e.Relay + ": " + e.describe()
}

func (e *AttemptError) Unwrap() error { return e.Err }

func (e *AttemptError) describe() string {
	switch e.Reason {
	case ReasonTimeout:
		return "timeout"
	case ReasonHTTPStatus:
		return fmt.Sprintf("HTTP %d", e.Status)
	case ReasonTooShort:
		return fmt.Sprintf("response too short (%d chars)", e.Chars)
	case ReasonBotBlock:
		return fmt.Sprintf("blocked or captcha page (%q)", e.Marker)
	default:
		if e.Err != nil {
			return "network error: " + e.Err.Error()
		}
		return "network error"
	}
}

// ExhaustedError is returned when every enabled relay failed.
type ExhaustedError struct {
	Attempts []*AttemptError
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "All proxies failed: no relays configured"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return "All proxies failed: " + strings.Join(parts, "; ")
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrAllRelaysFailed }
