package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hamboms/kbob-dating-app/models"
)

// InteractionStore is the persistence boundary for the like/skip ledger.
type InteractionStore interface {
	PutLike(ctx context.Context, from, to string, createdAt time.Time) error
	// GetLike returns models.ErrNotFound when no like exists for the pair.
	GetLike(ctx context.Context, from, to string) (*models.LikeAction, error)
	ListLikesFrom(ctx context.Context, from string) ([]models.LikeAction, error)
	ListLikesTo(ctx context.Context, to string) ([]models.LikeAction, error)
	// DeleteLikePair removes likes in both directions between a and b.
	DeleteLikePair(ctx context.Context, a, b string) error
	// DeleteExpiredLikesTo purges likes toward a user created at or
	// before cutoff.
	DeleteExpiredLikesTo(ctx context.Context, to string, cutoff time.Time) error

	// UpsertSkip writes a skip, refreshing createdAt if the pair exists.
	UpsertSkip(ctx context.Context, from, to string, createdAt time.Time) error
	ListSkipsFrom(ctx context.Context, from string) ([]models.SkipAction, error)
	// DeleteExpiredSkips purges a user's skips created at or before cutoff.
	DeleteExpiredSkips(ctx context.Context, from string, cutoff time.Time) error

	// DeleteAllForUser removes every like and skip referencing the user
	// in either role. Part of the account deletion cascade.
	DeleteAllForUser(ctx context.Context, userID string) error
	// ListPartners returns the distinct counterpart ids of all like rows
	// referencing the user. Used to enumerate candidate chat rooms.
	ListPartners(ctx context.Context, userID string) ([]string, error)
}

// DynamoInteractionStore implements InteractionStore on the Likes and
// Skips tables.
//
// Key layout for both tables: partition key from, sort key to, so a
// directed pair is unique and a plain PutItem has upsert semantics. The
// to-index GSI on Likes keys on the recipient for "who liked me" queries.
type DynamoInteractionStore struct {
	DB *Dynamo
}

func pairKey(from, to string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"from": avS(from),
		"to":   avS(to),
	}
}

func (s *DynamoInteractionStore) PutLike(ctx context.Context, from, to string, createdAt time.Time) error {
	like := models.LikeAction{From: from, To: to, CreatedAt: models.FormatTime(createdAt)}
	return s.DB.PutItem(ctx, models.LikesTable, like)
}

func (s *DynamoInteractionStore) GetLike(ctx context.Context, from, to string) (*models.LikeAction, error) {
	item, err := s.DB.GetItem(ctx, models.LikesTable, pairKey(from, to))
	if err != nil {
		return nil, err
	}
	var like models.LikeAction
	if err := attributevalue.UnmarshalMap(item, &like); err != nil {
		return nil, fmt.Errorf("failed to unmarshal like: %w", err)
	}
	return &like, nil
}

func (s *DynamoInteractionStore) ListLikesFrom(ctx context.Context, from string) ([]models.LikeAction, error) {
	return s.queryLikes(ctx, &dynamodb.QueryInput{
		TableName:              tableNamePtr(models.LikesTable),
		KeyConditionExpression: keyConditionPtr("#from = :from"),
		ExpressionAttributeNames: map[string]string{
			"#from": "from",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": avS(from),
		},
	})
}

func (s *DynamoInteractionStore) ListLikesTo(ctx context.Context, to string) ([]models.LikeAction, error) {
	return s.queryLikes(ctx, &dynamodb.QueryInput{
		TableName:              tableNamePtr(models.LikesTable),
		IndexName:              tableNamePtr(models.LikesToIndex),
		KeyConditionExpression: keyConditionPtr("#to = :to"),
		ExpressionAttributeNames: map[string]string{
			"#to": "to",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to": avS(to),
		},
	})
}

func (s *DynamoInteractionStore) queryLikes(ctx context.Context, input *dynamodb.QueryInput) ([]models.LikeAction, error) {
	items, err := s.DB.Query(ctx, input)
	if err != nil {
		return nil, err
	}
	var likes []models.LikeAction
	if err := attributevalue.UnmarshalListOfMaps(items, &likes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal likes: %w", err)
	}
	return likes, nil
}

func (s *DynamoInteractionStore) DeleteLikePair(ctx context.Context, a, b string) error {
	if err := s.DB.DeleteItem(ctx, models.LikesTable, pairKey(a, b)); err != nil {
		return err
	}
	return s.DB.DeleteItem(ctx, models.LikesTable, pairKey(b, a))
}

func (s *DynamoInteractionStore) DeleteExpiredLikesTo(ctx context.Context, to string, cutoff time.Time) error {
	likes, err := s.ListLikesTo(ctx, to)
	if err != nil {
		return err
	}
	var keys []map[string]types.AttributeValue
	for _, like := range likes {
		if !models.ParseTime(like.CreatedAt).After(cutoff) {
			keys = append(keys, pairKey(like.From, like.To))
		}
	}
	return s.DB.BatchDelete(ctx, models.LikesTable, keys)
}

func (s *DynamoInteractionStore) UpsertSkip(ctx context.Context, from, to string, createdAt time.Time) error {
	skip := models.SkipAction{From: from, To: to, CreatedAt: models.FormatTime(createdAt)}
	return s.DB.PutItem(ctx, models.SkipsTable, skip)
}

func (s *DynamoInteractionStore) ListSkipsFrom(ctx context.Context, from string) ([]models.SkipAction, error) {
	items, err := s.DB.Query(ctx, &dynamodb.QueryInput{
		TableName:              tableNamePtr(models.SkipsTable),
		KeyConditionExpression: keyConditionPtr("#from = :from"),
		ExpressionAttributeNames: map[string]string{
			"#from": "from",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": avS(from),
		},
	})
	if err != nil {
		return nil, err
	}
	var skips []models.SkipAction
	if err := attributevalue.UnmarshalListOfMaps(items, &skips); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skips: %w", err)
	}
	return skips, nil
}

func (s *DynamoInteractionStore) DeleteExpiredSkips(ctx context.Context, from string, cutoff time.Time) error {
	skips, err := s.ListSkipsFrom(ctx, from)
	if err != nil {
		return err
	}
	var keys []map[string]types.AttributeValue
	for _, skip := range skips {
		if !models.ParseTime(skip.CreatedAt).After(cutoff) {
			keys = append(keys, pairKey(skip.From, skip.To))
		}
	}
	return s.DB.BatchDelete(ctx, models.SkipsTable, keys)
}

func (s *DynamoInteractionStore) DeleteAllForUser(ctx context.Context, userID string) error {
	likesFrom, err := s.ListLikesFrom(ctx, userID)
	if err != nil {
		return err
	}
	likesTo, err := s.ListLikesTo(ctx, userID)
	if err != nil {
		return err
	}
	var likeKeys []map[string]types.AttributeValue
	for _, like := range append(likesFrom, likesTo...) {
		likeKeys = append(likeKeys, pairKey(like.From, like.To))
	}
	if err := s.DB.BatchDelete(ctx, models.LikesTable, likeKeys); err != nil {
		return err
	}

	skips, err := s.ListSkipsFrom(ctx, userID)
	if err != nil {
		return err
	}
	var skipKeys []map[string]types.AttributeValue
	for _, skip := range skips {
		skipKeys = append(skipKeys, pairKey(skip.From, skip.To))
	}
	// Skips toward the user are cheap to leave behind: they reference a
	// user that no longer exists and age out within hours, but sweep them
	// anyway so the cascade leaves nothing dangling.
	inbound, err := s.scanSkipsTo(ctx, userID)
	if err != nil {
		return err
	}
	for _, skip := range inbound {
		skipKeys = append(skipKeys, pairKey(skip.From, skip.To))
	}
	return s.DB.BatchDelete(ctx, models.SkipsTable, skipKeys)
}

func (s *DynamoInteractionStore) scanSkipsTo(ctx context.Context, to string) ([]models.SkipAction, error) {
	filter := "#to = :to"
	items, err := s.DB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        tableNamePtr(models.SkipsTable),
		FilterExpression: &filter,
		ExpressionAttributeNames: map[string]string{
			"#to": "to",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to": avS(to),
		},
	})
	if err != nil {
		return nil, err
	}
	var skips []models.SkipAction
	if err := attributevalue.UnmarshalListOfMaps(items, &skips); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skips: %w", err)
	}
	return skips, nil
}

func (s *DynamoInteractionStore) ListPartners(ctx context.Context, userID string) ([]string, error) {
	likesFrom, err := s.ListLikesFrom(ctx, userID)
	if err != nil {
		return nil, err
	}
	likesTo, err := s.ListLikesTo(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var partners []string
	for _, like := range likesFrom {
		if _, ok := seen[like.To]; !ok {
			seen[like.To] = struct{}{}
			partners = append(partners, like.To)
		}
	}
	for _, like := range likesTo {
		if _, ok := seen[like.From]; !ok {
			seen[like.From] = struct{}{}
			partners = append(partners, like.From)
		}
	}
	return partners, nil
}

func keyConditionPtr(expr string) *string { return &expr }
