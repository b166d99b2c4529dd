package broadcast

import (
	"context"
	"encoding/json"
	"log"

	socketio "github.com/googollee/go-socket.io"
	"github.com/redis/go-redis/v9"
)

// NewSocketServer initializes the Socket.IO server clients connect to for
// realtime chat. Clients join the room for their chat and receive events
// relayed from the Redis channel by RunBridge.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, roomID string) {
		if roomID == "" {
			log.Println("Invalid roomId in join request")
			return
		}
		c.Join(roomID)
	})

	server.OnEvent("/", "leave", func(c socketio.Conn, roomID string) {
		c.Leave(roomID)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("Socket disconnected:", c.ID(), reason)
	})

	return server
}

// RunBridge subscribes to all room channels and fans events out to the
// sockets joined to each room. It blocks until ctx is cancelled.
func RunBridge(ctx context.Context, rdb *redis.Client, server *socketio.Server) {
	sub := rdb.PSubscribe(ctx, ChannelFor("*"))
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			roomID := RoomFromChannel(msg.Channel)
			if roomID == "" {
				continue
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("Dropping malformed broadcast on %s: %v", msg.Channel, err)
				continue
			}
			server.BroadcastToRoom("/", roomID, env.Event, env.Data)
		}
	}
}
