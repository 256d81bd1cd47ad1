package service

import (
	"context"
	"encoding/json"

	"research-chat-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains chat events off the in-process bus and records them
// to the activity log. Invalid messages are acked to prevent infinite retry.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	sysLogger logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sysLogger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		sysLogger: sysLogger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.sysLogger.Error("chat-events", "failed to unmarshal event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	cs.sysLogger.Info("chat-events", envelope.Type, envelope.Payload)
	msg.Ack()
}
