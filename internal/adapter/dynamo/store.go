// Package dynamo persists normalized earthquake events in a DynamoDB table
// keyed by event id. Writes are idempotent upserts, so re-ingesting an
// overlapping window converges on one item per event.
package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/quakewatch/quake-data-ingest/internal/domain"
)

const (
	// DynamoDB caps BatchWriteItem at 25 requests.
	maxBatchSize = 25

	// Unprocessed items are retried this many times before the batch fails.
	maxUnprocessedRetries = 3

	unprocessedBackoff = 200 * time.Millisecond
)

// API is the slice of the DynamoDB client the store uses. Tests substitute a
// mock; production passes *dynamodb.Client.
type API interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Store implements pipeline.EventStore on top of a DynamoDB table.
type Store struct {
	client API
	table  string
	logger *slog.Logger
}

// NewStore creates a store against an existing client.
func NewStore(client API, table string, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		table:  table,
		logger: logger,
	}
}

// Connect builds a DynamoDB client from the default AWS credential chain.
func Connect(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// UpsertBatch writes events in chunks of 25, retrying unprocessed items.
// A partial write that never drains after retries fails the whole call so
// the window can be re-fetched.
func (s *Store) UpsertBatch(ctx context.Context, events []domain.QuakeEvent) error {
	for start := 0; start < len(events); start += maxBatchSize {
		end := min(start+maxBatchSize, len(events))

		requests := make([]types.WriteRequest, 0, end-start)
		for _, e := range events[start:end] {
			requests = append(requests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: coerceEvent(e)},
			})
		}

		if err := s.writeChunk(ctx, requests); err != nil {
			return fmt.Errorf("writing events %d-%d: %w", start, end-1, err)
		}
	}
	return nil
}

func (s *Store) writeChunk(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.table: requests}

	for attempt := 0; ; attempt++ {
		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return fmt.Errorf("batch write: %w", err)
		}

		remaining := out.UnprocessedItems[s.table]
		if len(remaining) == 0 {
			return nil
		}
		if attempt >= maxUnprocessedRetries {
			return fmt.Errorf("%d items still unprocessed after %d retries", len(remaining), maxUnprocessedRetries)
		}

		s.logger.Warn("retrying unprocessed items",
			"count", len(remaining),
			"attempt", attempt+1,
		)
		pending = map[string][]types.WriteRequest{s.table: remaining}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(unprocessedBackoff << attempt):
		}
	}
}

// summaryItem is the scan projection.
type summaryItem struct {
	ID        string  `dynamodbav:"id"`
	TimeEpoch int64   `dynamodbav:"time_epoch"`
	Magnitude float64 `dynamodbav:"magnitude"`
}

// ScanSummaries returns id/time/magnitude for every item matching the
// filter, following LastEvaluatedKey across pages. All attribute names go
// through ExpressionAttributeNames because year, month and day collide with
// reserved words.
func (s *Store) ScanSummaries(ctx context.Context, filter domain.EventFilter) ([]domain.EventSummary, error) {
	names := map[string]string{
		"#id":  "id",
		"#te":  "time_epoch",
		"#mag": "magnitude",
	}
	values := map[string]types.AttributeValue{}
	var conditions []string

	addIntCondition := func(placeholder, attribute string, v *int) {
		if v == nil {
			return
		}
		names[placeholder] = attribute
		values[":"+attribute] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", *v)}
		conditions = append(conditions, fmt.Sprintf("%s = :%s", placeholder, attribute))
	}
	addIntCondition("#y", "year", filter.Year)
	addIntCondition("#mo", "month", filter.Month)
	addIntCondition("#d", "day", filter.Day)

	if filter.MagnitudeBelow != nil {
		values[":maxmag"] = &types.AttributeValueMemberN{Value: formatNumber(*filter.MagnitudeBelow)}
		conditions = append(conditions, "#mag < :maxmag")
	}

	input := &dynamodb.ScanInput{
		TableName:                aws.String(s.table),
		ProjectionExpression:     aws.String("#id, #te, #mag"),
		ExpressionAttributeNames: names,
	}
	if len(conditions) > 0 {
		input.FilterExpression = aws.String(strings.Join(conditions, " AND "))
		input.ExpressionAttributeValues = values
	}

	var summaries []domain.EventSummary
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scanning table: %w", err)
		}

		for _, item := range out.Items {
			var si summaryItem
			if err := attributevalue.UnmarshalMap(item, &si); err != nil {
				s.logger.Warn("skipping unreadable item", "error", err)
				continue
			}
			summaries = append(summaries, domain.EventSummary{
				ID:        si.ID,
				TimeEpoch: si.TimeEpoch,
				Magnitude: si.Magnitude,
			})
		}

		if out.LastEvaluatedKey == nil {
			return summaries, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Delete removes one event by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	return nil
}
