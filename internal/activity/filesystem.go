package activity

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"admin/internal/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const schemaVersion = "1"

var schemaVersionKey = []byte("schema_version")

// deleteBatchSize bounds how many documents one retention pass removes per batch.
const deleteBatchSize = 500

// FilesystemActivityEntry is the document shape indexed in bleve.
type FilesystemActivityEntry struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Object    string    `json:"object"`
}

// FilesystemClient implements IActivityLogger using a local bleve index.
type FilesystemClient struct {
	index bleve.Index
}

// NewFilesystemClient opens the bleve index at the configured directory, creating it if needed.
// An index written with another schema version is moved aside and replaced by an empty one.
func NewFilesystemClient(config models.ActivityConfiguration) (*FilesystemClient, error) {
	dir := config.Filesystem.Directory

	index, err := bleve.Open(dir)
	if err != nil {
		return createIndex(dir)
	}

	storedVersion, err := index.GetInternal(schemaVersionKey)
	if err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	if string(storedVersion) == schemaVersion {
		return &FilesystemClient{index: index}, nil
	}

	if err = index.Close(); err != nil {
		return nil, fmt.Errorf("failed to close outdated index: %w", err)
	}
	archived := fmt.Sprintf("%s.v%s.%d", dir, storedVersion, time.Now().Unix())
	if err = os.Rename(dir, archived); err != nil {
		return nil, fmt.Errorf("failed to archive outdated index: %w", err)
	}
	zap.L().Warn("Activity index schema changed, previous index archived",
		zap.String("old_version", string(storedVersion)),
		zap.String("new_version", schemaVersion),
		zap.String("archived_to", archived))

	return createIndex(dir)
}

func createIndex(dir string) (*FilesystemClient, error) {
	index, err := bleve.New(dir, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create activity index: %w", err)
	}
	if err = index.SetInternal(schemaVersionKey, []byte(schemaVersion)); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to set schema version: %w", err)
	}
	return &FilesystemClient{index: index}, nil
}

func buildIndexMapping() *mapping.IndexMappingImpl {
	keywordMapping := bleve.NewKeywordFieldMapping()

	disabledMapping := bleve.NewTextFieldMapping()
	disabledMapping.Index = false
	disabledMapping.Store = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("action", keywordMapping)
	docMapping.AddFieldMappingsAt("actor", keywordMapping)
	docMapping.AddFieldMappingsAt("method", keywordMapping)
	docMapping.AddFieldMappingsAt("path", keywordMapping)
	docMapping.AddFieldMappingsAt("status", bleve.NewNumericFieldMapping())
	docMapping.AddFieldMappingsAt("timestamp", bleve.NewDateTimeFieldMapping())
	docMapping.AddFieldMappingsAt("message", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("object", disabledMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

func (c *FilesystemClient) Close() error {
	return c.index.Close()
}

func (c *FilesystemClient) Send(activity models.Activity) error {
	timestamp := activity.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var objectJSON string
	if activity.Object != nil {
		b, err := json.Marshal(activity.Object)
		if err != nil {
			return fmt.Errorf("failed to marshal object: %w", err)
		}
		objectJSON = string(b)
	}

	entry := FilesystemActivityEntry{
		Message:   activity.Message,
		Timestamp: timestamp.UTC(),
		Action:    activity.Action,
		Actor:     activity.Actor,
		Method:    activity.Method,
		Path:      activity.Path,
		Status:    activity.Status,
		Object:    objectJSON,
	}

	if err := c.index.Index(uuid.New().String(), entry); err != nil {
		return fmt.Errorf("failed to index activity: %w", err)
	}
	return nil
}

// Search returns the most recent matching entries first.
func (c *FilesystemClient) Search(searchCriteria map[string][]string, limit int) ([]models.Activity, error) {
	searchRequest := bleve.NewSearchRequest(buildBleveQuery(searchCriteria))
	searchRequest.Size = limit
	searchRequest.SortBy([]string{"-timestamp"})
	searchRequest.Fields = []string{"*"}

	result, err := c.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search activity: %w", err)
	}

	activities := make([]models.Activity, 0, len(result.Hits))
	for _, hit := range result.Hits {
		activities = append(activities, activityFromHit(hit))
	}
	return activities, nil
}

func activityFromHit(hit *search.DocumentMatch) models.Activity {
	entry := models.Activity{}
	entry.Message, _ = hit.Fields["message"].(string)
	entry.Action, _ = hit.Fields["action"].(string)
	entry.Actor, _ = hit.Fields["actor"].(string)
	entry.Method, _ = hit.Fields["method"].(string)
	entry.Path, _ = hit.Fields["path"].(string)
	if status, ok := hit.Fields["status"].(float64); ok {
		entry.Status = int(status)
	}
	if s, ok := hit.Fields["timestamp"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			entry.Timestamp = t
		}
	}
	if objectStr, _ := hit.Fields["object"].(string); objectStr != "" {
		var objectMap map[string]any
		if json.Unmarshal([]byte(objectStr), &objectMap) == nil {
			entry.Object = objectMap
		}
	}
	return entry
}

func (c *FilesystemClient) CountByDay(searchCriteria map[string][]string, days int) ([]models.TimeSeriesPoint, error) {
	now := time.Now().UTC()
	dateQuery := bleve.NewDateRangeQuery(now.AddDate(0, 0, -days), now)
	dateQuery.SetField("timestamp")

	searchRequest := bleve.NewSearchRequest(bleve.NewConjunctionQuery(buildBleveQuery(searchCriteria), dateQuery))
	searchRequest.Size = 0

	facet := bleve.NewFacetRequest("timestamp", days+1)
	for i := days; i >= 0; i-- {
		dayStart := now.AddDate(0, 0, -i).Truncate(24 * time.Hour)
		facet.AddDateTimeRange(dayStart.Format(time.DateOnly), dayStart, dayStart.Add(24*time.Hour))
	}
	searchRequest.AddFacet("daily_counts", facet)

	result, err := c.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity by day: %w", err)
	}

	points := []models.TimeSeriesPoint{}
	dailyFacet, ok := result.Facets["daily_counts"]
	if !ok {
		return points, nil
	}
	for _, dr := range dailyFacet.DateRanges {
		if dr.Count > 0 {
			points = append(points, models.TimeSeriesPoint{Date: dr.Name, Count: int64(dr.Count)})
		}
	}
	return points, nil
}

// DeleteOlderThan removes every entry timestamped before cutoff and returns how many were removed.
func (c *FilesystemClient) DeleteOlderThan(cutoff time.Time) (int, error) {
	dateQuery := bleve.NewDateRangeQuery(time.Time{}, cutoff.UTC())
	dateQuery.SetField("timestamp")

	deleted := 0
	for {
		searchRequest := bleve.NewSearchRequest(dateQuery)
		searchRequest.Size = deleteBatchSize

		result, err := c.index.Search(searchRequest)
		if err != nil {
			return deleted, fmt.Errorf("failed to search expired activity: %w", err)
		}
		if len(result.Hits) == 0 {
			return deleted, nil
		}

		batch := c.index.NewBatch()
		for _, hit := range result.Hits {
			batch.Delete(hit.ID)
		}
		if err = c.index.Batch(batch); err != nil {
			return deleted, fmt.Errorf("failed to delete expired activity: %w", err)
		}
		deleted += len(result.Hits)
	}
}

func buildBleveQuery(searchCriteria map[string][]string) query.Query {
	var queries []query.Query

	for key, values := range searchCriteria {
		switch len(values) {
		case 0:
			continue
		case 1:
			termQuery := bleve.NewTermQuery(values[0])
			termQuery.SetField(key)
			queries = append(queries, termQuery)
		default:
			termQueries := make([]query.Query, 0, len(values))
			for _, v := range values {
				tq := bleve.NewTermQuery(v)
				tq.SetField(key)
				termQueries = append(termQueries, tq)
			}
			disjunction := bleve.NewDisjunctionQuery(termQueries...)
			disjunction.SetMin(1)
			queries = append(queries, disjunction)
		}
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
