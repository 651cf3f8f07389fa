package events

import (
	"encoding/json"
	"time"

	"admin/internal/messaging"
	"admin/internal/models"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Recorder publishes admin actions to the activity topic.
// A nil Recorder, or one without a publisher, drops everything.
type Recorder struct {
	Publisher messaging.IPublisher
}

func NewRecorder(publisher messaging.IPublisher) *Recorder {
	return &Recorder{Publisher: publisher}
}

// Record never fails the caller; publishing problems are logged.
func (r *Recorder) Record(logger *zap.Logger, activity models.Activity) {
	if r == nil || r.Publisher == nil {
		return
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(activity)
	if err != nil {
		logger.Error("Failed to encode activity", zap.String("action", activity.Action), zap.Error(err))
		return
	}

	if err = r.Publisher.Publish(message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		logger.Error("Failed to publish activity", zap.String("action", activity.Action), zap.Error(err))
	}
}
