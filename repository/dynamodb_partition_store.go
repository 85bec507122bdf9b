package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/amirphl/card-transactions-generator/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// DynamoDBAPI is the subset of the DynamoDB client the repositories call
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
}

const (
	attrPartitionDate = "partition_date"
	attrJobCounter    = "job_counter"
	attrActiveJobs    = "active_jobs"
)

// DynamoDBPartitionStore implements PartitionStore on a table keyed by partition_date
type DynamoDBPartitionStore struct {
	client DynamoDBAPI
	table  string
}

// NewDynamoDBPartitionStore creates a partition store on the named table
func NewDynamoDBPartitionStore(client DynamoDBAPI, table string) *DynamoDBPartitionStore {
	return &DynamoDBPartitionStore{client: client, table: table}
}

func (s *DynamoDBPartitionStore) key(date string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPartitionDate: &types.AttributeValueMemberS{Value: date},
	}
}

func (s *DynamoDBPartitionStore) getItem(ctx context.Context, date string) (map[string]types.AttributeValue, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(date),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get partition counter for %s: %w", date, err)
	}
	return out.Item, nil
}

func (s *DynamoDBPartitionStore) ActiveOrder(ctx context.Context, date, jobID string) (int64, bool, error) {
	item, err := s.getItem(ctx, date)
	if err != nil {
		return 0, false, err
	}
	active, ok := item[attrActiveJobs].(*types.AttributeValueMemberM)
	if !ok {
		return 0, false, nil
	}
	v, ok := active.Value[jobID]
	if !ok {
		return 0, false, nil
	}
	order, err := numberAttr(v)
	if err != nil {
		return 0, false, fmt.Errorf("active job %s for %s: %w", jobID, date, err)
	}
	return order, true, nil
}

func (s *DynamoDBPartitionStore) IncrementCounter(ctx context.Context, date string) (int64, error) {
	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.table),
		Key:              s.key(date),
		UpdateExpression: aws.String("ADD job_counter :inc"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":inc": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment job counter for %s: %w", date, err)
	}
	counter, err := numberAttr(out.Attributes[attrJobCounter])
	if err != nil {
		return 0, fmt.Errorf("job counter for %s: %w", date, err)
	}
	return counter, nil
}

func (s *DynamoDBPartitionStore) SetActiveOrder(ctx context.Context, date, jobID string, order int64) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.table),
		Key:                      s.key(date),
		UpdateExpression:         aws.String("SET active_jobs.#job = :order"),
		ExpressionAttributeNames: map[string]string{"#job": jobID},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":order": &types.AttributeValueMemberN{Value: strconv.FormatInt(order, 10)},
		},
	})
	if isValidationError(err) {
		// the document path does not exist yet
		return ErrActiveJobsMissing
	}
	if err != nil {
		return fmt.Errorf("failed to set active job %s for %s: %w", jobID, date, err)
	}
	return nil
}

func (s *DynamoDBPartitionStore) CreateActiveJobs(ctx context.Context, date string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.table),
		Key:              s.key(date),
		UpdateExpression: aws.String("SET active_jobs = if_not_exists(active_jobs, :empty)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create active jobs for %s: %w", date, err)
	}
	return nil
}

func (s *DynamoDBPartitionStore) RemoveActiveOrder(ctx context.Context, date, jobID string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.table),
		Key:                      s.key(date),
		UpdateExpression:         aws.String("REMOVE active_jobs.#job"),
		ExpressionAttributeNames: map[string]string{"#job": jobID},
	})
	if isValidationError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove active job %s for %s: %w", jobID, date, err)
	}
	return nil
}

func (s *DynamoDBPartitionStore) Snapshot(ctx context.Context, date string) (*models.PartitionSnapshot, error) {
	item, err := s.getItem(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(item) == 0 {
		return nil, nil
	}

	snap := &models.PartitionSnapshot{PartitionDate: date, ActiveJobs: map[string]int64{}}
	if v, ok := item[attrJobCounter]; ok {
		if snap.JobCounter, err = numberAttr(v); err != nil {
			return nil, fmt.Errorf("job counter for %s: %w", date, err)
		}
	}
	if active, ok := item[attrActiveJobs].(*types.AttributeValueMemberM); ok {
		snap.HasActiveJobs = true
		for job, v := range active.Value {
			order, err := numberAttr(v)
			if err != nil {
				return nil, fmt.Errorf("active job %s for %s: %w", job, date, err)
			}
			snap.ActiveJobs[job] = order
		}
	}
	return snap, nil
}

func numberAttr(v types.AttributeValue) (int64, error) {
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("expected number attribute, got %T", v)
	}
	return strconv.ParseInt(n.Value, 10, 64)
}

func isValidationError(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ValidationException"
}
