package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(t *testing.T, baseURL string, tokens TokenSource, clr AuthClearer, opts ...ClientOption) *Client {
	t.Helper()
	b, err := NewRequestBuilder(baseURL, tokens, &fakeLang{lang: "zh"})
	require.NoError(t, err)
	return NewClient(b, NewNormalizer(clr, logging.Discard()), opts...)
}

func TestClient_Call(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"success":true,"data":{"id":1}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeTokens{token: "tok"}, &fakeClearer{}, WithTimeout(time.Second))

	env, err := c.Call(context.Background(), RequestSpec{Path: "/auth/user/info", NeedAuth: true})
	require.NoError(t, err)
	assert.True(t, env.Success)

	require.NotNil(t, got)
	assert.Equal(t, "/auth/user/info", got.URL.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "zh-CN", got.Header.Get("Accept-Language"))
	assert.NotEmpty(t, got.Header.Get("X-Correlation-ID"))
}

func TestClient_ExpiredClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":401,"msg":"expired","success":false}`))
	}))
	defer srv.Close()

	clr := &fakeClearer{}
	c := newTestClient(t, srv.URL, &fakeTokens{token: "tok-1"}, clr)

	_, err := c.Call(context.Background(), RequestSpec{Path: "/auth/user/info", NeedAuth: true})
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, clr.calls)
}

func TestClient_NetworkFailure(t *testing.T) {
	clr := &fakeClearer{}
	c := newTestClient(t, "http://auth.invalid", &fakeTokens{}, clr,
		WithDoer(doerFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: no route to host")
		})))

	_, err := c.Call(context.Background(), RequestSpec{Path: "/x"})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.Status)
	assert.Zero(t, clr.calls)
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	calls := 0
	c := newTestClient(t, "http://auth.invalid", &fakeTokens{}, &fakeClearer{},
		WithRateLimit(1),
		WithDoer(doerFunc(func(*http.Request) (*http.Response, error) {
			calls++
			return response(200, `{"success":true}`), nil
		})))

	_, err := c.Call(context.Background(), RequestSpec{Path: "/x"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Call(ctx, RequestSpec{Path: "/x"})
	require.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 1, calls)
}

func TestWithRateLimit_ZeroDisables(t *testing.T) {
	c := newTestClient(t, "http://auth.invalid", &fakeTokens{}, &fakeClearer{}, WithRateLimit(5), WithRateLimit(0))
	assert.Nil(t, c.limiter)
}
