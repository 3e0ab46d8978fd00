package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerovia/airline-reservation/internal/config"
)

func TestCacheEntryRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Custom": {"a", "b"}}
	body := []byte(`{"flights":[]}`)

	payload, err := encodeEntry(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodeEntry(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestDecodeEntryRejectsTruncated(t *testing.T) {
	_, _, _, ok := decodeEntry([]byte{0, 0, 0})
	assert.False(t, ok)

	// header length pointing past the payload
	bad, err := encodeEntry(200, http.Header{}, nil)
	require.NoError(t, err)
	bad[7] = 0xFF
	_, _, _, ok = decodeEntry(bad)
	assert.False(t, ok)
}

func TestCacheKeyDependsOnQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	mk := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/flights")
		return cacheKey(cfg, c)
	}

	a := mk("/v1/flights?departure_city=Lisbon")
	b := mk("/v1/flights?departure_city=Madrid")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, mk("/v1/flights?departure_city=Lisbon"), "same query must produce the same key")
}
