package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apierrors "admin/internal/errors"
	m "admin/internal/middlewares"
	"admin/internal/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCreateHandler(t *testing.T) {
	handler := m.Validate[models.ModerationBody](CreateHandler(
		func(_ context.Context, _ *zap.Logger, _ string, body models.ModerationBody) (models.ModerationVerdict, error) {
			if body.Text == "fail" {
				return models.ModerationVerdict{}, apierrors.NewAPIError(http.StatusBadGateway, apierrors.MsgModerationFailed)
			}
			if body.Text == "boom" {
				return models.ModerationVerdict{}, errors.New("unexpected")
			}
			return models.ModerationVerdict{Allowed: true}, nil
		},
	))

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{"success", `{"text":"hello"}`, http.StatusOK, `{"allowed":true,"reason":""}`},
		{"api error keeps its status", `{"text":"fail"}`, http.StatusBadGateway, `{"message":"Content moderation request failed."}`},
		{"other errors are internal", `{"text":"boom"}`, http.StatusInternalServerError, `{"message":"Internal server error."}`},
		{"validation", `{"text":""}`, http.StatusBadRequest, `{"message":"The text field is required."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/moderation/check", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestHandlerWithoutValidation(t *testing.T) {
	handler := CreateHandler(func(_ context.Context, _ *zap.Logger, _ string, _ models.ModerationBody) (any, error) {
		return nil, nil
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
