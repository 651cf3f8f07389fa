package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admin/internal/activity"
	"admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Activity Logger ---

type MockActivityLogger struct {
	entries      []models.Activity
	err          error
	lastCriteria map[string][]string
	lastLimit    int
	lastDays     int
}

func (m *MockActivityLogger) Send(activity models.Activity) error {
	m.entries = append(m.entries, activity)
	return nil
}

func (m *MockActivityLogger) Search(criteria map[string][]string, limit int) ([]models.Activity, error) {
	m.lastCriteria, m.lastLimit = criteria, limit
	return m.entries, m.err
}

func (m *MockActivityLogger) CountByDay(criteria map[string][]string, days int) ([]models.TimeSeriesPoint, error) {
	m.lastCriteria, m.lastDays = criteria, days
	return []models.TimeSeriesPoint{{Date: "2026-10-14", Count: 2}}, m.err
}

func (m *MockActivityLogger) DeleteOlderThan(time.Time) (int, error) { return 0, nil }

func (m *MockActivityLogger) Close() error { return nil }

var _ activity.IActivityLogger = (*MockActivityLogger)(nil)

// --- Tests ---

func TestListActivity(t *testing.T) {
	t.Run("filters and bounds the search", func(t *testing.T) {
		logger := &MockActivityLogger{entries: []models.Activity{{Action: activity.TeacherCreated, Actor: "root@school.test"}}}
		service := AuditService{ActivityLogger: logger, Sessions: sessions}

		rr := httptest.NewRecorder()
		req := withSession(httptest.NewRequest(http.MethodGet, "/activity?action=TEACHER_CREATED&actor=root@school.test&limit=20", nil), "abc")
		service.Routes().ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var entries []models.Activity
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
		assert.Len(t, entries, 1)
		assert.Equal(t, map[string][]string{
			"action": {"TEACHER_CREATED"},
			"actor":  {"root@school.test"},
		}, logger.lastCriteria)
		assert.Equal(t, 20, logger.lastLimit)
	})

	t.Run("defaults the limit and returns an empty list", func(t *testing.T) {
		logger := &MockActivityLogger{}
		service := AuditService{ActivityLogger: logger, Sessions: sessions}

		rr := httptest.NewRecorder()
		service.Routes().ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/activity", nil), "abc"))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
		assert.Equal(t, 50, logger.lastLimit)
		assert.Empty(t, logger.lastCriteria)
	})

	t.Run("rejects a limit above the maximum", func(t *testing.T) {
		service := AuditService{ActivityLogger: &MockActivityLogger{}, Sessions: sessions}

		rr := httptest.NewRecorder()
		service.Routes().ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/activity?limit=500", nil), "abc"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("disabled index", func(t *testing.T) {
		service := AuditService{Sessions: sessions}

		rr := httptest.NewRecorder()
		service.Routes().ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/activity", nil), "abc"))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("search failure", func(t *testing.T) {
		service := AuditService{ActivityLogger: &MockActivityLogger{err: errors.New("index closed")}, Sessions: sessions}

		rr := httptest.NewRecorder()
		service.Routes().ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/activity", nil), "abc"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("requires a session", func(t *testing.T) {
		service := AuditService{ActivityLogger: &MockActivityLogger{}, Sessions: sessions}

		rr := httptest.NewRecorder()
		service.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/activity", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetDailyActivity(t *testing.T) {
	logger := &MockActivityLogger{}
	service := AuditService{ActivityLogger: logger, Sessions: sessions}

	rr := httptest.NewRecorder()
	service.Routes().ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/activity/daily?action=ADMIN_LOGGED_IN", nil), "abc"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"date":"2026-10-14","count":2}]`, rr.Body.String())
	assert.Equal(t, 7, logger.lastDays)
	assert.Equal(t, map[string][]string{"action": {"ADMIN_LOGGED_IN"}}, logger.lastCriteria)
}
