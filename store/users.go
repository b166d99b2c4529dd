package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hamboms/kbob-dating-app/models"
)

// UserStore is the persistence boundary for user accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	MarkVerified(ctx context.Context, userID string) error
	UpdateProfile(ctx context.Context, userID string, p models.ProfileUpdate) error
	SetBanned(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string) error
	// ListEligible returns all verified, non-banned users.
	ListEligible(ctx context.Context) ([]models.User, error)
}

// DynamoUserStore implements UserStore on the Users table.
//
// Key layout: partition key userId. The email-index GSI keys on email for
// login and duplicate-signup checks.
type DynamoUserStore struct {
	DB *Dynamo
}

// UsersEmailIndex is the GSI used to look users up by email
const UsersEmailIndex = "email-index"

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"userId": avS(userID)}
}

func (s *DynamoUserStore) Create(ctx context.Context, u *models.User) error {
	return s.DB.PutItem(ctx, models.UsersTable, u)
}

func (s *DynamoUserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	item, err := s.DB.GetItem(ctx, models.UsersTable, userKey(userID))
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := attributevalue.UnmarshalMap(item, &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &u, nil
}

func (s *DynamoUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	keyCondition := "email = :email"
	items, err := s.DB.Query(ctx, &dynamodb.QueryInput{
		TableName:              tableNamePtr(models.UsersTable),
		IndexName:              tableNamePtr(UsersEmailIndex),
		KeyConditionExpression: &keyCondition,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": avS(email),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrNotFound
	}
	var u models.User
	if err := attributevalue.UnmarshalMap(items[0], &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &u, nil
}

func (s *DynamoUserStore) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	// Token lookups happen once per signup, so a filtered scan is fine here.
	filter := "verificationToken = :token"
	items, err := s.DB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        tableNamePtr(models.UsersTable),
		FilterExpression: &filter,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token": avS(token),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrNotFound
	}
	var u models.User
	if err := attributevalue.UnmarshalMap(items[0], &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &u, nil
}

func (s *DynamoUserStore) MarkVerified(ctx context.Context, userID string) error {
	update := "SET emailVerified = :true REMOVE verificationToken, tokenExpires"
	return s.DB.UpdateItem(ctx, models.UsersTable, userKey(userID), update, nil,
		map[string]types.AttributeValue{":true": avBool(true)})
}

func (s *DynamoUserStore) UpdateProfile(ctx context.Context, userID string, p models.ProfileUpdate) error {
	update := "SET #name = :name, age = :age, gender = :gender, bio = :bio"
	names := map[string]string{"#name": "name"}
	values := map[string]types.AttributeValue{
		":name":   avS(p.Name),
		":age":    avN(strconv.Itoa(p.Age)),
		":gender": avS(p.Gender),
		":bio":    avS(p.Bio),
	}
	if p.ProfileImage != "" {
		update += ", profileImage = :profileImage"
		values[":profileImage"] = avS(p.ProfileImage)
	}
	return s.DB.UpdateItem(ctx, models.UsersTable, userKey(userID), update, names, values)
}

func (s *DynamoUserStore) SetBanned(ctx context.Context, userID string) error {
	update := "SET isBanned = :true"
	return s.DB.UpdateItem(ctx, models.UsersTable, userKey(userID), update, nil,
		map[string]types.AttributeValue{":true": avBool(true)})
}

func (s *DynamoUserStore) Delete(ctx context.Context, userID string) error {
	return s.DB.DeleteItem(ctx, models.UsersTable, userKey(userID))
}

func (s *DynamoUserStore) ListEligible(ctx context.Context) ([]models.User, error) {
	filter := "emailVerified = :true AND isBanned <> :true"
	items, err := s.DB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        tableNamePtr(models.UsersTable),
		FilterExpression: &filter,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true": avBool(true),
		},
	})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := attributevalue.UnmarshalListOfMaps(items, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	return users, nil
}

func tableNamePtr(name string) *string { return &name }
