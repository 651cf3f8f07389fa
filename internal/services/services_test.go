package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"admin/internal/backend"
	"admin/internal/events"
	"admin/internal/models"
	"admin/internal/session"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"
)

// --- Backend stub ---

type backendCall struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type backendStub struct {
	server *httptest.Server
	mu     sync.Mutex
	calls  []backendCall
}

func newBackendStub(t *testing.T, respond http.HandlerFunc) *backendStub {
	t.Helper()
	stub := &backendStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		stub.mu.Lock()
		stub.calls = append(stub.calls, backendCall{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		stub.mu.Unlock()
		respond(w, r)
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *backendStub) client() *backend.Client {
	return backend.NewClient(models.BackendConfiguration{BaseURL: s.server.URL})
}

func (s *backendStub) recorded() []backendCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]backendCall(nil), s.calls...)
}

// unreachableClient points at a server that is already closed.
func unreachableClient(t *testing.T) *backend.Client {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	return backend.NewClient(models.BackendConfiguration{BaseURL: server.URL})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// --- Activity recorder ---

type recordingPublisher struct {
	mu         sync.Mutex
	activities []models.Activity
}

func (p *recordingPublisher) Publish(messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, msg := range messages {
		var activity models.Activity
		if err := json.Unmarshal(msg.Payload, &activity); err != nil {
			return err
		}
		p.activities = append(p.activities, activity)
	}
	return nil
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	actions := make([]string, 0, len(p.activities))
	for _, activity := range p.activities {
		actions = append(actions, activity.Action)
	}
	return actions
}

func newRecorder() (*events.Recorder, *recordingPublisher) {
	publisher := &recordingPublisher{}
	return events.NewRecorder(publisher), publisher
}

// --- Helpers ---

var sessions = session.NewCookieStore(false)

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	return req
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "auth_token" {
			return cookie
		}
	}
	return nil
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.MessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Message
}
