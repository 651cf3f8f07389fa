package activity

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"admin/internal/models"

	"github.com/blevesearch/bleve/v2"
)

func newTestFilesystemClient(t *testing.T) *FilesystemClient {
	t.Helper()
	config := models.ActivityConfiguration{
		Type: "filesystem",
		Filesystem: &models.FilesystemActivityConfiguration{
			Directory: filepath.Join(t.TempDir(), "activity.bleve"),
		},
	}
	client, err := NewFilesystemClient(config)
	if err != nil {
		t.Fatalf("NewFilesystemClient failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func sendTestActivity(t *testing.T, client *FilesystemClient, action, actor, message string, ts time.Time) {
	t.Helper()
	err := client.Send(models.Activity{
		Message:   message,
		Action:    action,
		Actor:     actor,
		Method:    "POST",
		Path:      "/api/admin/reject-carnet",
		Status:    200,
		Object:    map[string]any{"carnetId": "c-1"},
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
}

func TestFilesystemSendAndSearch(t *testing.T) {
	client := newTestFilesystemClient(t)

	sendTestActivity(t, client, CarnetRejected, "admin@x.com", "Rejected carnet", time.Now())

	results, err := client.Search(map[string][]string{"action": {CarnetRejected}}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.Actor != "admin@x.com" {
		t.Errorf("expected actor=admin@x.com, got %q", r.Actor)
	}
	if r.Message != "Rejected carnet" {
		t.Errorf("expected message='Rejected carnet', got %q", r.Message)
	}
	if r.Status != 200 {
		t.Errorf("expected status=200, got %d", r.Status)
	}
	if r.Timestamp.IsZero() {
		t.Error("timestamp should be parsed back")
	}
	if r.Object["carnetId"] != "c-1" {
		t.Errorf("expected object.carnetId=c-1, got %v", r.Object["carnetId"])
	}
}

func TestFilesystemSearchOrderAndLimit(t *testing.T) {
	client := newTestFilesystemClient(t)

	now := time.Now()
	sendTestActivity(t, client, TeacherCreated, "admin@x.com", "oldest", now.Add(-2*time.Minute))
	sendTestActivity(t, client, TeacherCreated, "admin@x.com", "newest", now)
	sendTestActivity(t, client, TeacherCreated, "admin@x.com", "middle", now.Add(-time.Minute))

	results, err := client.Search(map[string][]string{}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Message != "newest" || results[1].Message != "middle" {
		t.Errorf("expected newest first, got %q then %q", results[0].Message, results[1].Message)
	}
}

func TestFilesystemSearchWithORCriteria(t *testing.T) {
	client := newTestFilesystemClient(t)

	now := time.Now()
	sendTestActivity(t, client, SubscriptionAdded, "admin@x.com", "Added", now)
	sendTestActivity(t, client, SubscriptionDeleted, "admin@x.com", "Deleted", now.Add(-time.Second))
	sendTestActivity(t, client, TeacherCreated, "other@x.com", "Created", now.Add(-2*time.Second))

	results, err := client.Search(map[string][]string{
		"action": {SubscriptionAdded, SubscriptionDeleted},
	}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	results, err = client.Search(map[string][]string{"actor": {"other@x.com"}}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Action != TeacherCreated {
		t.Errorf("expected the single entry of other@x.com, got %+v", results)
	}
}

func TestFilesystemCountByDay(t *testing.T) {
	client := newTestFilesystemClient(t)

	today := time.Now()
	sendTestActivity(t, client, AdminLoggedIn, "admin@x.com", "login 1", today)
	sendTestActivity(t, client, AdminLoggedIn, "admin@x.com", "login 2", today.Add(-time.Minute))
	sendTestActivity(t, client, AdminLoggedOut, "admin@x.com", "logout", today.AddDate(0, 0, -1))

	points, err := client.CountByDay(map[string][]string{}, 7)
	if err != nil {
		t.Fatalf("CountByDay failed: %v", err)
	}

	var total int64
	for _, p := range points {
		total += p.Count
	}
	if total != 3 {
		t.Errorf("expected total count of 3, got %d (points: %+v)", total, points)
	}
}

func TestFilesystemDeleteOlderThan(t *testing.T) {
	client := newTestFilesystemClient(t)

	now := time.Now()
	sendTestActivity(t, client, AdminLoggedIn, "admin@x.com", "old 1", now.AddDate(0, 0, -60))
	sendTestActivity(t, client, AdminLoggedIn, "admin@x.com", "old 2", now.AddDate(0, 0, -31))
	sendTestActivity(t, client, AdminLoggedIn, "admin@x.com", "recent", now)

	deleted, err := client.DeleteOlderThan(now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted entries, got %d", deleted)
	}

	results, err := client.Search(map[string][]string{}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Message != "recent" {
		t.Errorf("expected only the recent entry to remain, got %+v", results)
	}
}

func TestFilesystemArchivesOutdatedSchema(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "activity.bleve")

	index, err := bleve.New(dir, buildIndexMapping())
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	if err = index.SetInternal(schemaVersionKey, []byte("0")); err != nil {
		t.Fatalf("failed to set schema version: %v", err)
	}
	if err = index.Index("legacy", FilesystemActivityEntry{Message: "legacy", Timestamp: time.Now()}); err != nil {
		t.Fatalf("failed to index legacy doc: %v", err)
	}
	if err = index.Close(); err != nil {
		t.Fatalf("failed to close index: %v", err)
	}

	client, err := NewFilesystemClient(models.ActivityConfiguration{
		Type:       "filesystem",
		Filesystem: &models.FilesystemActivityConfiguration{Directory: dir},
	})
	if err != nil {
		t.Fatalf("NewFilesystemClient failed: %v", err)
	}
	defer func() { _ = client.Close() }()

	storedVersion, err := client.index.GetInternal(schemaVersionKey)
	if err != nil {
		t.Fatalf("failed to get schema version: %v", err)
	}
	if string(storedVersion) != schemaVersion {
		t.Errorf("expected schema version %s, got %s", schemaVersion, storedVersion)
	}

	results, err := client.Search(map[string][]string{}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected a fresh index, got %d entries", len(results))
	}

	archived, err := filepath.Glob(dir + ".v0.*")
	if err != nil || len(archived) != 1 {
		t.Fatalf("expected one archived index, got %v (%v)", archived, err)
	}
	if _, err = os.Stat(archived[0]); err != nil {
		t.Errorf("archived index missing: %v", err)
	}
}
