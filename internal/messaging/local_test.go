package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testTimeout = 2 * time.Second

func receiveOne(t *testing.T, ch <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func subscribe(t *testing.T, topic *Topic) <-chan *message.Message {
	t.Helper()
	messages, err := topic.Subscribe(context.Background())
	require.NoError(t, err)
	return messages
}

func TestTopicPublishAndSubscribe(t *testing.T) {
	topic := NewTopic("activity")
	defer func() { _ = topic.Close() }()

	msgCh := subscribe(t, topic)

	id := watermill.NewUUID()
	require.NoError(t, topic.Publish(message.NewMessage(id, []byte(`{"action":"TEACHER_CREATED"}`))))

	msg := receiveOne(t, msgCh)
	assert.Equal(t, id, msg.UUID)
	assert.JSONEq(t, `{"action":"TEACHER_CREATED"}`, string(msg.Payload))
	msg.Ack()
}

func TestTopicDeliversEveryMessage(t *testing.T) {
	topic := NewTopic("activity")
	defer func() { _ = topic.Close() }()

	msgCh := subscribe(t, topic)

	const count = 5
	ids := make([]string, count)
	for i := range count {
		ids[i] = watermill.NewUUID()
		require.NoError(t, topic.Publish(message.NewMessage(ids[i], []byte("msg"))))
	}
	received := make([]string, 0, count)
	for range count {
		msg := receiveOne(t, msgCh)
		received = append(received, msg.UUID)
		msg.Ack()
	}
	assert.ElementsMatch(t, ids, received)
}

func TestTopicClose(t *testing.T) {
	topic := NewTopic("activity")
	msgCh := subscribe(t, topic)

	require.NoError(t, topic.Close())
	assert.Error(t, topic.Publish(message.NewMessage(watermill.NewUUID(), []byte("after-close"))))

	select {
	case _, open := <-msgCh:
		assert.False(t, open, "subscription is closed with the topic")
	case <-time.After(testTimeout):
		t.Fatal("subscription still open after close")
	}

	_, err := topic.Subscribe(context.Background())
	assert.Error(t, err)
}

func TestTopicSubscriptionEndsWithContext(t *testing.T) {
	topic := NewTopic("activity")
	defer func() { _ = topic.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	msgCh, err := topic.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, open := <-msgCh:
		assert.False(t, open)
	case <-time.After(testTimeout):
		t.Fatal("subscription still open after cancel")
	}
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewZapLogger(zap.New(core)).With(watermill.LogFields{"topic": "activity"})

	logger.Info("subscribed", nil)
	logger.Error("publish failed", assert.AnError, watermill.LogFields{"uuid": "1"})
	logger.Trace("ignored", nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, "activity", entries[0].ContextMap()["topic"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, "1", entries[1].ContextMap()["uuid"])
}
