package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"admin/internal/activity"
	"admin/internal/configuration"
	apierrors "admin/internal/errors"
	h "admin/internal/helpers"
	m "admin/internal/middlewares"
	"admin/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Payload int

const (
	PayloadNone Payload = iota
	PayloadJSON
	PayloadMultipart
)

// Rule is one purpose specific endpoint: an inbound method and path, how its payload is
// re-encoded, and the backend path it calls.
type Rule struct {
	Method  string
	Path    string
	Payload Payload
	// Target returns the backend path, or an APIError when the request is rejected locally.
	Target func(r *http.Request) (string, error)

	Action  string
	Message string
}

func fixedTarget(path string) func(*http.Request) (string, error) {
	return func(*http.Request) (string, error) { return path, nil }
}

func subscriptionTarget(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		return "", apierrors.NewAPIError(http.StatusBadRequest, apierrors.MsgSubscriptionIDRequired)
	}
	return configuration.BackendSubscriptionsPath + "/" + url.PathEscape(id), nil
}

func DefaultRules() []Rule {
	return []Rule{
		{
			Method:  http.MethodPost,
			Path:    configuration.ProxyPrefix + "/admin/create-teacher",
			Payload: PayloadMultipart,
			Target:  fixedTarget(configuration.BackendCreateTeacherPath),
			Action:  activity.TeacherCreated,
			Message: "Created a teacher account",
		},
		{
			Method:  http.MethodPost,
			Path:    configuration.ProxyPrefix + "/admin/reject-carnet",
			Payload: PayloadJSON,
			Target:  fixedTarget(configuration.BackendRejectCarnetPath),
			Action:  activity.CarnetRejected,
			Message: "Rejected a carnet request",
		},
		{
			Method:  http.MethodPost,
			Path:    configuration.ProxyPrefix + "/admin/subscriptions",
			Payload: PayloadJSON,
			Target:  fixedTarget(configuration.BackendSubscriptionsPath),
			Action:  activity.SubscriptionAdded,
			Message: "Added a subscription",
		},
		{
			Method:  http.MethodDelete,
			Path:    configuration.ProxyPrefix + "/admin/subscriptions",
			Payload: PayloadNone,
			Target:  subscriptionTarget,
			Action:  activity.SubscriptionDeleted,
			Message: "Deleted a subscription",
		},
	}
}

func (p *Handler) match(r *http.Request) (Rule, bool) {
	path := r.URL.Path
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, rule := range p.Rules {
		if rule.Method == r.Method && rule.Path == path {
			return rule, true
		}
	}
	return Rule{}, false
}

func (p *Handler) serveRule(w http.ResponseWriter, r *http.Request, rule Rule, token string) {
	logger := m.GetLogger(r)

	target, err := rule.Target(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	req := p.Backend.R(r.Context(), token)
	object, cleanup, err := preparePayload(req, r, rule.Payload)
	defer cleanup()
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	resp, err := p.Backend.Send(req, rule.Method, target)
	if err != nil {
		logger.Error("Error proxying to API", zap.String("target_path", target), zap.Error(err))
		h.RespondWithMessage(w, http.StatusInternalServerError, apierrors.MsgProxyFailed)
		return
	}

	if resp.IsSuccess() {
		p.Recorder.Record(logger, models.Activity{
			Message: rule.Message,
			Action:  rule.Action,
			Actor:   h.ActorFromToken(token),
			Method:  rule.Method,
			Path:    target,
			Status:  resp.StatusCode(),
			Object:  object,
		})
	}

	h.RespondWithBackendJSON(w, resp.StatusCode(), resp.Body())
}

// preparePayload re-encodes the inbound body onto req. It returns a redacted copy of the
// submitted fields for the audit trail and a cleanup func that is always safe to call.
func preparePayload(req *resty.Request, r *http.Request, payload Payload) (map[string]any, func(), error) {
	noop := func() {}

	switch payload {
	case PayloadJSON:
		var decoded any
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(&decoded); err != nil || decoder.More() {
			return nil, noop, apierrors.NewAPIError(http.StatusBadRequest, apierrors.MsgInvalidJSON)
		}
		encoded, err := json.Marshal(decoded)
		if err != nil {
			return nil, noop, apierrors.NewAPIError(http.StatusBadRequest, apierrors.MsgInvalidJSON)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(encoded)

		object, _ := decoded.(map[string]any)
		return redact(object), noop, nil

	case PayloadMultipart:
		if err := r.ParseMultipartForm(configuration.MaxMultipartMemory); err != nil {
			return nil, noop, apierrors.NewAPIError(http.StatusBadRequest, apierrors.MsgInvalidMultipart)
		}
		cleanup := func() { _ = r.MultipartForm.RemoveAll() }

		body, contentType, err := encodeMultipart(r.MultipartForm)
		if err != nil {
			return nil, cleanup, apierrors.NewAPIError(http.StatusBadRequest, apierrors.MsgInvalidMultipart)
		}
		req.SetHeader("Content-Type", contentType).SetBody(body)

		object := make(map[string]any, len(r.MultipartForm.Value))
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				object[key] = values[0]
			}
		}
		for key, files := range r.MultipartForm.File {
			if len(files) > 0 {
				object[key] = files[0].Filename
			}
		}
		return redact(object), cleanup, nil

	default:
		return nil, noop, nil
	}
}

// encodeMultipart rebuilds a multipart body from a parsed form, fields first, then files.
func encodeMultipart(form *multipart.Form) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, values := range form.Value {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return nil, "", err
			}
		}
	}

	for key, files := range form.File {
		for _, file := range files {
			if err := copyFilePart(writer, key, file); err != nil {
				return nil, "", err
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func copyFilePart(writer *multipart.Writer, field string, file *multipart.FileHeader) error {
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(file.Filename)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	_, err = io.Copy(part, src)
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// redact drops credentials from audit objects.
func redact(object map[string]any) map[string]any {
	if object == nil {
		return nil
	}
	out := make(map[string]any, len(object))
	for key, value := range object {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") {
			continue
		}
		out[key] = value
	}
	return out
}
