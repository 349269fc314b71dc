package binance

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretSuccess(t *testing.T) {
	require.NoError(t, interpret(200, http.Header{}, []byte(`{"orderId":1}`)))
	require.NoError(t, interpret(201, http.Header{}, nil))
}

func TestInterpretRejected(t *testing.T) {
	h := http.Header{}
	h.Set("X-MBX-USED-WEIGHT-1M", "42")

	err := interpret(400, h, []byte(`{"code":-1111,"msg":"Precision is over the maximum defined for this asset."}`))
	var rej *RejectedError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, 400, rej.Status)
	assert.Equal(t, int64(-1111), rej.Code)
	assert.Equal(t, "Precision is over the maximum defined for this asset.", rej.Msg)
	assert.Equal(t, 42, rej.Limits.UsedWeight)
}

func TestInterpretRejectedUnparseableBody(t *testing.T) {
	err := interpret(500, http.Header{}, []byte("<html>gateway error</html>"))
	var rej *RejectedError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, int64(0), rej.Code)
	assert.Contains(t, rej.Msg, "gateway error")
}

func TestInterpretRateLimited(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "7")

	err := interpret(429, h, nil)
	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.False(t, rl.Banned)
	assert.Equal(t, 7*time.Second, rl.RetryAfter)
}

func TestInterpretBanSignalNeverConflatedWith429(t *testing.T) {
	err429 := interpret(429, http.Header{}, nil)
	err418 := interpret(418, http.Header{}, nil)

	var rl429, rl418 *RateLimitError
	require.True(t, errors.As(err429, &rl429))
	require.True(t, errors.As(err418, &rl418))

	assert.False(t, rl429.Banned)
	assert.True(t, rl418.Banned)
	// The ban signal must carry a strictly longer backoff hint.
	assert.Greater(t, rl418.RetryAfter, rl429.RetryAfter)
}

func TestParseRateLimits(t *testing.T) {
	h := http.Header{}
	h.Set("X-MBX-USED-WEIGHT-1M", "123")
	h.Set("X-MBX-ORDER-COUNT-1M", "9")

	rl := parseRateLimits(h)
	assert.Equal(t, 123, rl.UsedWeight)
	assert.Equal(t, 9, rl.OrderCount)

	assert.Equal(t, RateLimits{}, parseRateLimits(http.Header{}))
}
