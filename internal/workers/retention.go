package workers

import (
	"context"
	"time"

	"admin/internal/activity"
)

// ActivityRetention deletes audit entries older than retentionDays.
func ActivityRetention(activityLogger activity.IActivityLogger, retentionDays int, now func() time.Time) Task {
	if now == nil {
		now = time.Now
	}
	return Task{
		Name: "expired_activity",
		Run: func(context.Context) (int, error) {
			return activityLogger.DeleteOlderThan(now().AddDate(0, 0, -retentionDays))
		},
	}
}
