package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hamboms/kbob-dating-app/models"
)

// DeletedUserStore is the persistence boundary for deletion tombstones.
type DeletedUserStore interface {
	Put(ctx context.Context, email string, deletedAt time.Time) error
	// Get returns models.ErrNotFound when the email has no tombstone.
	Get(ctx context.Context, email string) (*models.DeletedUser, error)
}

// DynamoDeletedUserStore implements DeletedUserStore on the DeletedUsers
// table. Key layout: partition key email. A repeat deletion overwrites the
// tombstone, restarting the cooldown.
type DynamoDeletedUserStore struct {
	DB *Dynamo
}

func (s *DynamoDeletedUserStore) Put(ctx context.Context, email string, deletedAt time.Time) error {
	tombstone := models.DeletedUser{Email: email, DeletedAt: models.FormatTime(deletedAt)}
	return s.DB.PutItem(ctx, models.DeletedUsersTable, tombstone)
}

func (s *DynamoDeletedUserStore) Get(ctx context.Context, email string) (*models.DeletedUser, error) {
	item, err := s.DB.GetItem(ctx, models.DeletedUsersTable, map[string]types.AttributeValue{
		"email": avS(email),
	})
	if err != nil {
		return nil, err
	}
	var tombstone models.DeletedUser
	if err := attributevalue.UnmarshalMap(item, &tombstone); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tombstone: %w", err)
	}
	return &tombstone, nil
}
