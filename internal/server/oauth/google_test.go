package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	p := NewGoogleProvider("cid", "secret", "https://app.example.com/oauth/callback/google")

	u, err := url.Parse(p.AuthCodeURL("st-1"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "st-1", q.Get("state"))
	assert.Equal(t, "https://app.example.com/oauth/callback/google", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "email")
}

func newTestProvider(t *testing.T, profileStatus int, profileBody string) *GoogleProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			require.NoError(t, r.ParseForm())
			if r.PostForm.Get("code") != "good" {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"error":"invalid_grant"}`)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"at","token_type":"Bearer","expires_in":3600}`)
		case "/userinfo":
			assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
			w.WriteHeader(profileStatus)
			fmt.Fprint(w, profileBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	p := NewGoogleProvider("cid", "secret", "https://app/cb")
	p.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	p.userInfoURL = srv.URL + "/userinfo"
	return p
}

func TestGoogleProvider_Exchange(t *testing.T) {
	p := newTestProvider(t, http.StatusOK, `{"sub":"123","email":"g@example.com","name":"G"}`)

	profile, err := p.Exchange(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, &Profile{Subject: "123", Email: "g@example.com", Name: "G"}, profile)

	_, err = p.Exchange(context.Background(), "bad")
	assert.ErrorContains(t, err, "oauth exchange")
}

func TestGoogleProvider_ExchangeProfileErrors(t *testing.T) {
	_, err := newTestProvider(t, http.StatusUnauthorized, `{}`).Exchange(context.Background(), "good")
	assert.ErrorContains(t, err, "status 401")

	_, err = newTestProvider(t, http.StatusOK, `{"email":"x@example.com"}`).Exchange(context.Background(), "good")
	assert.ErrorContains(t, err, "no subject")
}

func TestStateStore(t *testing.T) {
	s := NewStateStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	st := s.Issue()
	assert.True(t, s.Consume(st))
	assert.False(t, s.Consume(st), "states are single use")
	assert.False(t, s.Consume("unknown"))

	old := s.Issue()
	now = now.Add(2 * time.Minute)
	assert.False(t, s.Consume(old))
}
