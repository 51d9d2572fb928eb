package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ReplyDelivery defines how consumed events reach connected clients.
// Typically implemented by the WebSocket hub.
type ReplyDelivery interface {
	Send(ownerId string, payload map[string]interface{})
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	delivery  ReplyDelivery
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	delivery ReplyDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		delivery:  delivery,
		logger:    log,
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
		cs.logger.Error("ConsumerService", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads are never going to parse, no point retrying
		return
	}

	event := events.BaseEvent{
		Type:       envelope.Type,
		Data:       envelope.Data,
		OccurredAt: time.Unix(envelope.OccurredAt, 0),
	}

	switch event.EventType() {
	case events.TypeAssistantReply:
		ownerId, _ := event.Payload()["owner_id"].(string)
		if ownerId == "" {
			cs.logger.Warn("ConsumerService", "Reply event without owner_id, dropping", nil)
			break
		}
		cs.delivery.Send(ownerId, event.Payload())

	case events.TypeKnowledgeStored:
		cs.logger.Info("ConsumerService", "Knowledge stored", event.Payload())

	default:
		cs.logger.Warn("ConsumerService", "Unknown event type", map[string]interface{}{"type": event.EventType()})
	}

	msg.Ack()
}
