package core

import (
	"admin/internal/configuration"
	"admin/internal/messaging"

	"go.uber.org/zap"
)

// EventsManager owns the in-process topic carrying audit activity.
type EventsManager struct {
	topic *messaging.Topic
}

func NewEventsManager() *EventsManager {
	topic := messaging.NewTopic(configuration.EventsActivityTopic)
	zap.L().Info("Initialized activity topic", zap.String("topic_name", topic.Name()))
	return &EventsManager{topic: topic}
}

func (em *EventsManager) Publisher() messaging.IPublisher {
	return em.topic
}

func (em *EventsManager) Subscriber() messaging.ISubscriber {
	return em.topic
}

// Close stops delivery; the activity consumer returns once its channel is closed.
func (em *EventsManager) Close() {
	if err := em.topic.Close(); err != nil {
		zap.L().Error("Failed to close activity topic", zap.Error(err))
	}
}
