package broadcast

import "context"

// Publisher is the realtime broadcast channel. Delivery is at-most-once
// and best-effort: subscribers that are offline rely on the durable chat
// history instead.
type Publisher interface {
	Publish(ctx context.Context, roomID, event string, payload interface{}) error
}

// Envelope is the wire format carried on the channel for a room.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// channelPrefix namespaces room channels inside Redis.
const channelPrefix = "room:"

// ChannelFor returns the Redis pub/sub channel name for a room.
func ChannelFor(roomID string) string {
	return channelPrefix + roomID
}

// RoomFromChannel recovers the room id from a channel name.
func RoomFromChannel(channel string) string {
	if len(channel) <= len(channelPrefix) {
		return ""
	}
	return channel[len(channelPrefix):]
}
