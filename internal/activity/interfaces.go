package activity

import (
	"time"

	"admin/internal/models"
)

// IActivityLogger stores and queries the audit trail of admin actions.
type IActivityLogger interface {
	Send(activity models.Activity) error
	Search(searchCriteria map[string][]string, limit int) ([]models.Activity, error)
	CountByDay(searchCriteria map[string][]string, days int) ([]models.TimeSeriesPoint, error)
	DeleteOlderThan(cutoff time.Time) (int, error)
	Close() error
}
