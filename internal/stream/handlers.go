package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes exposes the live claim feed. A client subscribes to one
// claiming session and receives the JSON frames published for it (recorded
// points, closeable changes, speed warnings, session end).
func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/claims/:sessionID", websocket.New(func(c *websocket.Conn) {
		client := hub.Register(c.Params("sessionID"))
		defer hub.Unregister(client)

		go func() {
			for frame := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
					return
				}
			}
		}()

		// The feed is one-way; reading only notices the disconnect. The
		// deferred Unregister closes Send, which ends the writer.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
}
