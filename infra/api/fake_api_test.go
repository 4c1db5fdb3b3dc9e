package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/medplus/domain"
	"github.com/CrestNiraj12/medplus/infra/auth"
)

// recorded is one request as the fake backend saw it.
type recorded struct {
	Method      string
	Path        string
	Query       string
	Auth        string
	ContentType string
	Body        []byte
}

func (r recorded) JSON(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &out), "body: %s", r.Body)
	return out
}

// fakeAPI is an httptest server routed with gorilla/mux that records every
// request in arrival order.
type fakeAPI struct {
	router *mux.Router
	server *httptest.Server

	mu    sync.Mutex
	calls []recorded
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{router: mux.NewRouter()}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		f.mu.Lock()
		f.calls = append(f.calls, recorded{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		f.mu.Unlock()

		f.router.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

// reply registers a canned response for method+path.
func (f *fakeAPI) reply(method, path string, status int, body string) {
	f.router.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}).Methods(method)
}

func (f *fakeAPI) client(token string) *Client {
	return NewClient(f.server.URL, auth.StaticToken(token))
}

func (f *fakeAPI) requests() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.calls...)
}

func (f *fakeAPI) last(t *testing.T) recorded {
	t.Helper()
	reqs := f.requests()
	require.NotEmpty(t, reqs, "expected at least one request")
	return reqs[len(reqs)-1]
}

// memSession is an in-memory app.SessionStore.
type memSession struct {
	s       domain.Session
	cleared int
}

func (m *memSession) Load() (domain.Session, error) { return m.s, nil }
func (m *memSession) Save(s domain.Session) error   { m.s = s; return nil }
func (m *memSession) Clear() error {
	m.s = domain.Session{}
	m.cleared++
	return nil
}
