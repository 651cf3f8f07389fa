package messaging

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// activityBuffer lets publishers in request handlers move on while the consumer indexes.
const activityBuffer = 256

// Topic is one named stream on an in-process watermill channel. It publishes and subscribes.
// Messages are not persisted, so subscribers must attach before the first publish.
type Topic struct {
	name    string
	channel *gochannel.GoChannel
}

// NewTopic opens a topic on its own channel.
func NewTopic(name string) *Topic {
	return &Topic{
		name: name,
		channel: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: activityBuffer,
		}, NewZapLogger(zap.L())),
	}
}

func (t *Topic) Name() string {
	return t.name
}

func (t *Topic) Publish(messages ...*message.Message) error {
	return t.channel.Publish(t.name, messages...)
}

// Subscribe returns the delivery channel. It is closed when ctx ends or the topic is closed.
func (t *Topic) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	messages, err := t.channel.Subscribe(ctx, t.name)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", t.name, err)
	}
	return messages, nil
}

func (t *Topic) Close() error {
	return t.channel.Close()
}
