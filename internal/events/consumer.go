package events

import (
	"encoding/json"

	"admin/internal/activity"
	"admin/internal/models"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// HandleActivity indexes every activity received until the channel closes.
// Entries that cannot be decoded or indexed are logged and dropped.
func HandleActivity(activityLogger activity.IActivityLogger, messages <-chan *message.Message) {
	for msg := range messages {
		var entry models.Activity
		if err := json.Unmarshal(msg.Payload, &entry); err != nil {
			zap.L().Error("Discarding malformed activity", zap.String("uuid", msg.UUID), zap.Error(err))
			msg.Ack()
			continue
		}

		if err := activityLogger.Send(entry); err != nil {
			zap.L().Error("Failed to index activity",
				zap.String("uuid", msg.UUID),
				zap.String("action", entry.Action),
				zap.Error(err))
		}
		msg.Ack()
	}
}
