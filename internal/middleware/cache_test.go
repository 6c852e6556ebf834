package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/film-catalogue/internal/config"
)

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"films":[],"count":0}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestCachePayloadRejectsTruncated(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, make([]byte, 8)} {
		_, _, _, ok := decodePayload(bs)
		if len(bs) == 8 {
			// A minimal valid payload: zero-length headers, empty body.
			assert.True(t, ok)
			continue
		}
		assert.False(t, ok)
	}
}

func TestCacheKeyDependsOnQuery(t *testing.T) {
	e := echo.New()
	ctx := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/films")
		return c
	}

	a := cacheKey("cache", ctx("/v1/films?sortBy=RATING_DESC"))
	b := cacheKey("cache", ctx("/v1/films?sortBy=RATING_ASC"))
	same := cacheKey("cache", ctx("/v1/films?sortBy=RATING_DESC"))

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, same)
}

func TestResponseCacheDisabledIsPassThrough(t *testing.T) {
	mw := ResponseCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/films", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
