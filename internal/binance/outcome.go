package binance

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// Fallback backoff hints when the exchange omits Retry-After. Request
// weight resets per minute; a 418 means the IP is already banned and needs
// far longer.
const (
	defaultRetryAfter    = time.Minute
	defaultBanRetryAfter = 30 * time.Minute
)

// RateLimits carries the usage headers the exchange reports on every
// response, for caller-side throttling decisions.
type RateLimits struct {
	UsedWeight int
	OrderCount int
}

func parseRateLimits(h http.Header) RateLimits {
	var rl RateLimits
	if v := h.Get("X-MBX-USED-WEIGHT-1M"); v != "" {
		rl.UsedWeight, _ = strconv.Atoi(v)
	}
	if v := h.Get("X-MBX-ORDER-COUNT-1M"); v != "" {
		rl.OrderCount, _ = strconv.Atoi(v)
	}
	return rl
}

// ConfigurationError means a local parameter is known-bad before any
// network call. Fix the parameter and retry.
type ConfigurationError struct {
	Param  string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Param, e.Detail)
}

// PolicyError means a caller-side deployment policy was violated, e.g. a
// mutating call for a symbol outside the single allowed trading pair.
type PolicyError struct {
	Op     string
	Detail string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("policy: %s: %s", e.Op, e.Detail)
}

// RejectedError carries the exchange's error payload verbatim. Never
// retried by this layer.
type RejectedError struct {
	Status int
	Code   int64
	Msg    string
	Limits RateLimits
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("exchange rejected (HTTP %d, code %d): %s", e.Status, e.Code, e.Msg)
}

// RateLimitError means the exchange is throttling this key or IP. Banned
// distinguishes the 418 ban signal from an ordinary 429; conflating them
// would keep hammering a banned IP.
type RateLimitError struct {
	Status     int
	Banned     bool
	RetryAfter time.Duration
	Limits     RateLimits
}

func (e *RateLimitError) Error() string {
	if e.Banned {
		return fmt.Sprintf("rate limited (HTTP %d): IP ban signal, back off %s and reduce request rate", e.Status, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited (HTTP %d): back off %s", e.Status, e.RetryAfter)
}

// TransientError wraps a transport failure. Retry is a caller decision and
// is only safe for non-mutating calls without idempotency tracking.
type TransientError struct {
	cause error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %v", e.cause)
}

func (e *TransientError) Unwrap() error { return e.cause }

type errorPayload struct {
	Code int64  `json:"code"`
	Msg  string `json:"msg"`
}

// interpret maps HTTP status plus the exchange error payload to a typed
// error. A nil return means a 2xx response whose body the caller decodes.
func interpret(status int, header http.Header, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	limits := parseRateLimits(header)

	switch status {
	case http.StatusTooManyRequests, http.StatusTeapot:
		banned := status == http.StatusTeapot
		retryAfter := defaultRetryAfter
		if banned {
			retryAfter = defaultBanRetryAfter
		}
		if v := header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{Status: status, Banned: banned, RetryAfter: retryAfter, Limits: limits}
	}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Msg == "" {
		payload.Msg = string(body)
	}
	return &RejectedError{Status: status, Code: payload.Code, Msg: payload.Msg, Limits: limits}
}
