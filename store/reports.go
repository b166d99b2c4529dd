package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hamboms/kbob-dating-app/models"
)

// ReportStore is the persistence boundary for abuse reports.
type ReportStore interface {
	Put(ctx context.Context, r *models.Report) error
	// Get returns models.ErrNotFound when the pair has no report.
	Get(ctx context.Context, reporterID, reportedID string) (*models.Report, error)
	ListAll(ctx context.Context) ([]models.Report, error)
	// DeleteAllForUser removes reports referencing the user as reporter
	// or as target. Part of the account deletion cascade.
	DeleteAllForUser(ctx context.Context, userID string) error
}

// DynamoReportStore implements ReportStore on the Reports table.
//
// Key layout: partition key reportedId, sort key reporterId, which makes
// the duplicate-report check a single GetItem. The reporter-index GSI
// keys on reporterId for the deletion cascade.
type DynamoReportStore struct {
	DB *Dynamo
}

func reportKey(reportedID, reporterID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"reportedId": avS(reportedID),
		"reporterId": avS(reporterID),
	}
}

func (s *DynamoReportStore) Put(ctx context.Context, r *models.Report) error {
	return s.DB.PutItem(ctx, models.ReportsTable, r)
}

func (s *DynamoReportStore) Get(ctx context.Context, reporterID, reportedID string) (*models.Report, error) {
	item, err := s.DB.GetItem(ctx, models.ReportsTable, reportKey(reportedID, reporterID))
	if err != nil {
		return nil, err
	}
	var report models.Report
	if err := attributevalue.UnmarshalMap(item, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

func (s *DynamoReportStore) ListAll(ctx context.Context) ([]models.Report, error) {
	items, err := s.DB.Scan(ctx, &dynamodb.ScanInput{
		TableName: tableNamePtr(models.ReportsTable),
	})
	if err != nil {
		return nil, err
	}
	var reports []models.Report
	if err := attributevalue.UnmarshalListOfMaps(items, &reports); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reports: %w", err)
	}
	return reports, nil
}

func (s *DynamoReportStore) DeleteAllForUser(ctx context.Context, userID string) error {
	// As target: query the primary key.
	asTarget, err := s.DB.Query(ctx, &dynamodb.QueryInput{
		TableName:              tableNamePtr(models.ReportsTable),
		KeyConditionExpression: keyConditionPtr("reportedId = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": avS(userID),
		},
	})
	if err != nil {
		return err
	}

	// As reporter: query the GSI.
	asReporter, err := s.DB.Query(ctx, &dynamodb.QueryInput{
		TableName:              tableNamePtr(models.ReportsTable),
		IndexName:              tableNamePtr(models.ReportsReporterIndex),
		KeyConditionExpression: keyConditionPtr("reporterId = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": avS(userID),
		},
	})
	if err != nil {
		return err
	}

	var keys []map[string]types.AttributeValue
	for _, item := range append(asTarget, asReporter...) {
		var r models.Report
		if err := attributevalue.UnmarshalMap(item, &r); err != nil {
			continue
		}
		keys = append(keys, reportKey(r.ReportedID, r.ReporterID))
	}
	return s.DB.BatchDelete(ctx, models.ReportsTable, keys)
}
