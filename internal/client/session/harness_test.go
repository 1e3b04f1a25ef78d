package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/client/api"
	"github.com/dmitrijs2005/portalauth/internal/client/credentials"
	"github.com/dmitrijs2005/portalauth/internal/client/services"
	"github.com/dmitrijs2005/portalauth/internal/client/storage"
	"github.com/dmitrijs2005/portalauth/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeEncrypter wraps the plaintext so tests can see what was sent.
type fakeEncrypter struct{}

func (fakeEncrypter) Encrypt(p string) (string, error) { return "ENC(" + p + ")", nil }

type reply struct {
	status int
	body   string
}

func okData(data string) reply {
	return reply{status: http.StatusOK, body: `{"code":0,"msg":"ok","success":true,"data":` + data + `}`}
}

func fail(code int, msg string) reply {
	b, _ := json.Marshal(map[string]any{"code": code, "msg": msg, "success": false})
	return reply{status: http.StatusOK, body: string(b)}
}

// harness is a real store and auth service talking to a scripted server.
type harness struct {
	store *credentials.Store
	auth  services.AuthService
	rt    *Runtime

	mu      sync.Mutex
	replies map[string]reply
	calls   map[string]int
	bodies  map[string][]map[string]any
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		rt:      NewRuntime(),
		replies: map[string]reply{},
		calls:   map[string]int{},
		bodies:  map[string][]map[string]any{},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		h.mu.Lock()
		h.calls[r.URL.Path]++
		h.bodies[r.URL.Path] = append(h.bodies[r.URL.Path], body)
		rep, ok := h.replies[r.URL.Path]
		h.mu.Unlock()

		if !ok {
			rep = reply{status: http.StatusNotFound, body: `{"code":404,"msg":"not found","success":false}`}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.status)
		_, _ = w.Write([]byte(rep.body))
	}))
	t.Cleanup(srv.Close)

	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.Discard()
	h.store = credentials.NewStore(db, "app.example.com", log)

	b, err := api.NewRequestBuilder(srv.URL, h.store, nil)
	require.NoError(t, err)
	c := api.NewClient(b, api.NewNormalizer(h.store, log), api.WithTimeout(5*time.Second))
	h.auth = services.NewAuthService(c, h.store, log)
	return h
}

func (h *harness) on(path string, r reply) {
	h.mu.Lock()
	h.replies[path] = r
	h.mu.Unlock()
}

func (h *harness) count(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[path]
}

func (h *harness) lastBody(path string) map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	b := h.bodies[path]
	if len(b) == 0 {
		return nil
	}
	return b[len(b)-1]
}

func (h *harness) token(t *testing.T) string {
	t.Helper()
	tok, _, err := h.store.Token(context.Background())
	require.NoError(t, err)
	return tok
}

func (h *harness) flows() *Flows {
	return NewFlows(h.auth, fakeEncrypter{}, h.store, "portal-a", logging.Discard())
}

func (h *harness) orchestrator() *Orchestrator {
	return NewOrchestrator(h.rt, h.store, h.auth, logging.Discard())
}

func (h *harness) callback() *OAuthCallback {
	return NewOAuthCallback(h.rt, h.auth, h.store, "portal-a", logging.Discard())
}
