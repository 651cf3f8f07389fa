package proxy

import (
	"io"
	"net/http"
	"strings"

	"admin/internal/backend"
	"admin/internal/configuration"
	apierrors "admin/internal/errors"
	"admin/internal/events"
	h "admin/internal/helpers"
	m "admin/internal/middlewares"
	"admin/internal/session"

	"go.uber.org/zap"
)

// Handler serves /api/*. Requests matching a rule are validated and reshaped before a single
// backend call; everything else is relayed as is.
type Handler struct {
	Backend  *backend.Client
	Sessions session.Store
	Rules    []Rule
	Recorder *events.Recorder
}

func NewHandler(client *backend.Client, sessions session.Store, recorder *events.Recorder) *Handler {
	return &Handler{
		Backend:  client,
		Sessions: sessions,
		Rules:    DefaultRules(),
		Recorder: recorder,
	}
}

func (p *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !p.Backend.Configured() {
		h.RespondWithMessage(w, http.StatusInternalServerError, apierrors.MsgBackendNotConfigured)
		return
	}

	token, _ := p.Sessions.Get(r)
	if rule, ok := p.match(r); ok {
		p.serveRule(w, r, rule, token)
		return
	}
	p.forward(w, r, token)
}

func (p *Handler) forward(w http.ResponseWriter, r *http.Request, token string) {
	logger := m.GetLogger(r)

	envelope := backend.Envelope{
		Method:   r.Method,
		Path:     strings.TrimPrefix(r.URL.EscapedPath(), configuration.ProxyPrefix),
		RawQuery: r.URL.RawQuery,
		Header:   r.Header,
	}
	if envelope.Path == "" {
		envelope.Path = "/"
	}
	if hasBody(r) {
		envelope.Body = r.Body
	}

	resp, err := p.Backend.Forward(r.Context(), envelope, token)
	if err != nil {
		logger.Error("Error proxying to API", zap.String("target_path", envelope.Path), zap.Error(err))
		h.RespondWithMessage(w, http.StatusInternalServerError, apierrors.MsgProxyFailed)
		return
	}
	body := resp.RawBody()
	defer func() { _ = body.Close() }()

	backend.CopyResponseHeaders(w.Header(), resp.Header())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(resp.StatusCode())

	if r.Method == http.MethodHead {
		return
	}
	if _, err = io.Copy(w, body); err != nil {
		logger.Warn("Relaying backend response interrupted", zap.String("target_path", envelope.Path), zap.Error(err))
	}
}

func hasBody(r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return false
	}
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}
