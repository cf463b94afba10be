package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DynamoEventStore stores events in DynamoDB, keyed by (aggregate_id, version).
// A conditional write per item doubles as the optimistic concurrency check: a
// concurrent append already owns the version slot, the condition fails and the
// whole transaction is cancelled.
type DynamoEventStore struct {
	client            *dynamodb.Client
	tableName         string
	snapshotTableName string
}

// dynamoEvent represents the DynamoDB item structure
type dynamoEvent struct {
	AggregateID   string `dynamodbav:"aggregate_id"`
	Version       int    `dynamodbav:"version"`
	ID            string `dynamodbav:"id"`
	AggregateType string `dynamodbav:"aggregate_type"`
	EventType     string `dynamodbav:"event_type"`
	Data          string `dynamodbav:"data"`
	CreatedAt     string `dynamodbav:"created_at"`
	GSI1PK        string `dynamodbav:"gsi1pk"`
}

type dynamoSnapshot struct {
	AggregateID   string `dynamodbav:"aggregate_id"`
	AggregateType string `dynamodbav:"aggregate_type"`
	Version       int    `dynamodbav:"version"`
	State         string `dynamodbav:"state"`
	CreatedAt     string `dynamodbav:"created_at"`
}

func NewDynamoEventStore(client *dynamodb.Client, tableName, snapshotTableName string) *DynamoEventStore {
	return &DynamoEventStore{
		client:            client,
		tableName:         tableName,
		snapshotTableName: snapshotTableName,
	}
}

// Append writes the batch as a single transaction. Version slots are claimed
// with attribute_not_exists conditions, so a stale expectedVersion cancels
// the transaction and surfaces as ErrVersionConflict.
func (es *DynamoEventStore) Append(ctx context.Context, aggregateID, aggregateType string, expectedVersion int, events []PendingEvent) ([]Event, error) {
	timestamp := time.Now()
	stored := make([]Event, 0, len(events))
	items := make([]types.TransactWriteItem, 0, len(events))

	for i, pending := range events {
		data, err := json.Marshal(pending.Data)
		if err != nil {
			return nil, err
		}
		event := Event{
			ID:            uuid.New().String(),
			AggregateID:   aggregateID,
			AggregateType: aggregateType,
			EventType:     pending.EventType,
			Data:          data,
			Timestamp:     timestamp,
			Version:       expectedVersion + i + 1,
		}

		av, err := attributevalue.MarshalMap(dynamoEvent{
			AggregateID:   event.AggregateID,
			Version:       event.Version,
			ID:            event.ID,
			AggregateType: event.AggregateType,
			EventType:     event.EventType,
			Data:          string(data),
			CreatedAt:     timestamp.Format(time.RFC3339Nano),
			GSI1PK:        "EVENTS", // fixed value so GetAllEvents can query GSI1
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event: %w", err)
		}

		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(es.tableName),
				Item:                av,
				ConditionExpression: aws.String("attribute_not_exists(aggregate_id) AND attribute_not_exists(version)"),
			},
		})
		stored = append(stored, event)
	}

	_, err := es.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		var cancelled *types.TransactionCanceledException
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &cancelled) || errors.As(err, &conditionFailed) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to append events: %w", err)
	}

	return stored, nil
}

// ReadStream returns all events for an aggregate in version order
func (es *DynamoEventStore) ReadStream(ctx context.Context, aggregateID string) ([]Event, error) {
	return es.queryStream(ctx, aggregateID, 0)
}

// ReadStreamFrom returns events with version > afterVersion
func (es *DynamoEventStore) ReadStreamFrom(ctx context.Context, aggregateID string, afterVersion int) ([]Event, error) {
	return es.queryStream(ctx, aggregateID, afterVersion)
}

func (es *DynamoEventStore) queryStream(ctx context.Context, aggregateID string, afterVersion int) ([]Event, error) {
	result, err := es.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(es.tableName),
		KeyConditionExpression: aws.String("aggregate_id = :aid AND version > :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":aid": &types.AttributeValueMemberS{Value: aggregateID},
			":v":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", afterVersion)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query stream: %w", err)
	}
	return unmarshalDynamoEvents(result.Items)
}

// GetAllEvents returns every stored event via GSI1, sorted by creation time
func (es *DynamoEventStore) GetAllEvents(ctx context.Context) ([]Event, error) {
	result, err := es.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(es.tableName),
		IndexName:              aws.String("gsi1"),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "EVENTS"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query all events: %w", err)
	}

	events, err := unmarshalDynamoEvents(result.Items)
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Timestamp.Before(events[j].Timestamp) })
	return events, nil
}

func unmarshalDynamoEvents(items []map[string]types.AttributeValue) ([]Event, error) {
	var events []Event
	for _, item := range items {
		var de dynamoEvent
		if err := attributevalue.UnmarshalMap(item, &de); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event item: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, de.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event timestamp: %w", err)
		}
		events = append(events, Event{
			ID:            de.ID,
			AggregateID:   de.AggregateID,
			AggregateType: de.AggregateType,
			EventType:     de.EventType,
			Data:          json.RawMessage(de.Data),
			Timestamp:     createdAt,
			Version:       de.Version,
		})
	}
	return events, nil
}

// GetSnapshot returns the latest snapshot for an aggregate, or nil
func (es *DynamoEventStore) GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error) {
	result, err := es.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(es.snapshotTableName),
		Key: map[string]types.AttributeValue{
			"aggregate_id": &types.AttributeValueMemberS{Value: aggregateID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var ds dynamoSnapshot
	if err := attributevalue.UnmarshalMap(result.Item, &ds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot item: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ds.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot timestamp: %w", err)
	}
	return &Snapshot{
		AggregateID:   ds.AggregateID,
		AggregateType: ds.AggregateType,
		Version:       ds.Version,
		State:         json.RawMessage(ds.State),
		CreatedAt:     createdAt,
	}, nil
}

// SaveSnapshot upserts the snapshot for an aggregate
func (es *DynamoEventStore) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	av, err := attributevalue.MarshalMap(dynamoSnapshot{
		AggregateID:   snapshot.AggregateID,
		AggregateType: snapshot.AggregateType,
		Version:       snapshot.Version,
		State:         string(snapshot.State),
		CreatedAt:     snapshot.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = es.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(es.snapshotTableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put snapshot: %w", err)
	}
	return nil
}
