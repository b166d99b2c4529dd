package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hamboms/kbob-dating-app/models"
	"github.com/hamboms/kbob-dating-app/utils"
)

// MessageStore is the persistence boundary for chat history.
type MessageStore interface {
	Put(ctx context.Context, msg *models.ChatMessage) error
	ListByRoom(ctx context.Context, roomID string) ([]models.ChatMessage, error)
	// DeleteRoom removes every message in the room. Deleting an empty or
	// unknown room succeeds.
	DeleteRoom(ctx context.Context, roomID string) error
	// ListRoomsWithUser returns the distinct room ids naming the user as
	// a participant. Backs the account deletion cascade, which cannot
	// rely on ledger rows alone: likes expire while messages persist.
	ListRoomsWithUser(ctx context.Context, userID string) ([]string, error)
}

// DynamoMessageStore implements MessageStore on the Messages table.
//
// Key layout: partition key roomId, sort key messageId. Message ids are
// time-ordered UUIDs, so the sort key preserves insertion order for
// messages that share a timestamp.
type DynamoMessageStore struct {
	DB *Dynamo
}

func (s *DynamoMessageStore) Put(ctx context.Context, msg *models.ChatMessage) error {
	return s.DB.PutItem(ctx, models.MessagesTable, msg)
}

func (s *DynamoMessageStore) ListByRoom(ctx context.Context, roomID string) ([]models.ChatMessage, error) {
	items, err := s.DB.Query(ctx, s.roomQuery(roomID))
	if err != nil {
		return nil, err
	}
	var messages []models.ChatMessage
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return messages, nil
}

func (s *DynamoMessageStore) DeleteRoom(ctx context.Context, roomID string) error {
	items, err := s.DB.Query(ctx, s.roomQuery(roomID))
	if err != nil {
		return err
	}
	var keys []map[string]types.AttributeValue
	for _, item := range items {
		messageID, ok := item["messageId"].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		keys = append(keys, map[string]types.AttributeValue{
			"roomId":    avS(roomID),
			"messageId": avS(messageID.Value),
		})
	}
	return s.DB.BatchDelete(ctx, models.MessagesTable, keys)
}

// ListRoomsWithUser scans with a contains() prefilter to cut the payload,
// then keeps only rooms whose exact participant tokens include the user.
// The substring match alone would also catch ids that merely embed the
// user id, so it is never trusted on its own.
func (s *DynamoMessageStore) ListRoomsWithUser(ctx context.Context, userID string) ([]string, error) {
	filter := "contains(roomId, :userId)"
	projection := "roomId"
	items, err := s.DB.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 tableNamePtr(models.MessagesTable),
		FilterExpression:          &filter,
		ProjectionExpression:      &projection,
		ExpressionAttributeValues: map[string]types.AttributeValue{":userId": avS(userID)},
	})
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var rooms []string
	for _, item := range items {
		roomAttr, ok := item["roomId"].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		roomID := roomAttr.Value
		if _, dup := seen[roomID]; dup {
			continue
		}
		seen[roomID] = struct{}{}
		if utils.IsParticipant(roomID, userID) {
			rooms = append(rooms, roomID)
		}
	}
	return rooms, nil
}

func (s *DynamoMessageStore) roomQuery(roomID string) *dynamodb.QueryInput {
	keyCondition := "roomId = :roomId"
	return &dynamodb.QueryInput{
		TableName:              tableNamePtr(models.MessagesTable),
		KeyConditionExpression: &keyCondition,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":roomId": avS(roomID),
		},
	}
}
