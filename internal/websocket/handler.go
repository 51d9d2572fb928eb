package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers a websocket connection for an owner and blocks until the
// connection drops.
func ServeWs(hub *Hub, c *websocket.Conn, ownerId string) {
	client := &Client{Hub: hub, Conn: c, OwnerID: ownerId, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
