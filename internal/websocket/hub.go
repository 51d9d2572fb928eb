package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-assistant-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "assistant_events"

// Hub fans assistant replies out to connected clients. Owners can hold
// several connections at once (multi-device). When Redis is configured,
// replies are also published on a cluster channel so instances that hold the
// owner's connection deliver them.
type Hub struct {
	// ownerId -> open connections
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.OwnerID] = append(h.clients[client.OwnerID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"owner_id": client.OwnerID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.OwnerID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.OwnerID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.OwnerID]) == 0 {
					delete(h.clients, client.OwnerID)
					h.logger.Info("Hub", "Client fully unregistered", map[string]interface{}{"owner_id": client.OwnerID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers a payload to every connection the owner has, locally and via
// Redis for other instances. Implements service.ReplyDelivery.
func (h *Hub) Send(ownerId string, payload map[string]interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "assistant_reply",
		"data": payload,
	})

	h.mu.RLock()
	clients, localFound := h.clients[ownerId]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"owner_id": ownerId})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	if h.rdb != nil {
		envelope, _ := json.Marshal(clusterMessage{TargetOwnerID: ownerId, Message: data})
		h.rdb.Publish(context.Background(), clusterChannel, envelope)
	}
}

type clusterMessage struct {
	TargetOwnerID string          `json:"target_owner_id"`
	Message       json.RawMessage `json:"message"`
}

// subscribeToRedis listens for replies published by other instances and
// delivers the ones addressed to owners connected here.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("cluster message parse error: %v", err)
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[payload.TargetOwnerID]
		h.mu.RUnlock()

		if !ok {
			continue
		}

		for _, client := range clients {
			select {
			case client.Send <- payload.Message:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
}
