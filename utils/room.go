package utils

import (
	"fmt"
	"strings"

	"github.com/hamboms/kbob-dating-app/models"
)

// RoomSeparator joins the two participant ids of a chat room. User ids are
// UUIDs (hex digits and hyphens), so "_" can never appear inside an id and
// the room id always splits back into exactly two participants.
const RoomSeparator = "_"

// RoomID derives the canonical chat room id for an unordered pair of users.
// Both participants compute the same id regardless of who initiated.
func RoomID(userA, userB string) (string, error) {
	if userA == "" || userB == "" {
		return "", fmt.Errorf("%w: empty user id", models.ErrInvalidPair)
	}
	if userA == userB {
		return "", models.ErrInvalidPair
	}
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + RoomSeparator + userB, nil
}

// SplitRoomID recovers the two participant ids from a room id.
func SplitRoomID(roomID string) (string, string, error) {
	parts := strings.Split(roomID, RoomSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", models.ErrMalformedRoomID, roomID)
	}
	return parts[0], parts[1], nil
}

// IsParticipant reports whether userID is one of the room's two participants.
func IsParticipant(roomID, userID string) bool {
	a, b, err := SplitRoomID(roomID)
	if err != nil {
		return false
	}
	return userID == a || userID == b
}
