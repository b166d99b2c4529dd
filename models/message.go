package models

// ChatMessage is a persisted chat message. AuthorName is a snapshot taken
// at send time and is not re-synced when the author renames themselves.
type ChatMessage struct {
	RoomID     string `dynamodbav:"roomId" json:"roomId"`
	MessageID  string `dynamodbav:"messageId" json:"messageId"`
	AuthorID   string `dynamodbav:"authorId" json:"authorId"`
	AuthorName string `dynamodbav:"authorName" json:"authorName"`
	Text       string `dynamodbav:"text" json:"text"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
