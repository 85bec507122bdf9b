package repository_test

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// fakeDynamoDB understands exactly the expressions the repositories issue.
type fakeDynamoDB struct {
	mu          sync.Mutex
	items       map[string]map[string]types.AttributeValue // partition_date -> item
	hashPans    map[int64]string
	unprocessed bool // hold back half of every batch once
	batchCalls  int
}

func newFakeDynamoDB() *fakeDynamoDB {
	return &fakeDynamoDB{
		items:    make(map[string]map[string]types.AttributeValue),
		hashPans: make(map[int64]string),
	}
}

func validationError(msg string) error {
	return &smithy.GenericAPIError{Code: "ValidationException", Message: msg}
}

func copyMap(m map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(m))
	for k, v := range m {
		if mv, ok := v.(*types.AttributeValueMemberM); ok {
			v = &types.AttributeValueMemberM{Value: copyMap(mv.Value)}
		}
		out[k] = v
	}
	return out
}

func (f *fakeDynamoDB) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	date := in.Key["partition_date"].(*types.AttributeValueMemberS).Value
	item, ok := f.items[date]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyMap(item)}, nil
}

func (f *fakeDynamoDB) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	date := in.Key["partition_date"].(*types.AttributeValueMemberS).Value
	item, exists := f.items[date]
	active, hasActive := item["active_jobs"].(*types.AttributeValueMemberM)

	switch aws.ToString(in.UpdateExpression) {
	case "ADD job_counter :inc":
		if !exists {
			item = map[string]types.AttributeValue{"partition_date": in.Key["partition_date"]}
			f.items[date] = item
		}
		var counter int64
		if n, ok := item["job_counter"].(*types.AttributeValueMemberN); ok {
			counter, _ = strconv.ParseInt(n.Value, 10, 64)
		}
		inc, _ := strconv.ParseInt(in.ExpressionAttributeValues[":inc"].(*types.AttributeValueMemberN).Value, 10, 64)
		updated := &types.AttributeValueMemberN{Value: strconv.FormatInt(counter+inc, 10)}
		item["job_counter"] = updated
		return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{"job_counter": updated}}, nil

	case "SET active_jobs.#job = :order":
		if !hasActive {
			return nil, validationError("The document path provided in the update expression is invalid for update")
		}
		active.Value[in.ExpressionAttributeNames["#job"]] = in.ExpressionAttributeValues[":order"]
		return &dynamodb.UpdateItemOutput{}, nil

	case "SET active_jobs = if_not_exists(active_jobs, :empty)":
		if !exists {
			item = map[string]types.AttributeValue{"partition_date": in.Key["partition_date"]}
			f.items[date] = item
		}
		if !hasActive {
			item["active_jobs"] = &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}}
		}
		return &dynamodb.UpdateItemOutput{}, nil

	case "REMOVE active_jobs.#job":
		if !hasActive {
			return nil, validationError("The document path provided in the update expression is invalid for update")
		}
		delete(active.Value, in.ExpressionAttributeNames["#job"])
		return &dynamodb.UpdateItemOutput{}, nil
	}
	return nil, fmt.Errorf("unsupported update expression %q", aws.ToString(in.UpdateExpression))
}

func (f *fakeDynamoDB) BatchGetItem(_ context.Context, in *dynamodb.BatchGetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++

	out := &dynamodb.BatchGetItemOutput{
		Responses:       map[string][]map[string]types.AttributeValue{},
		UnprocessedKeys: map[string]types.KeysAndAttributes{},
	}
	for table, ka := range in.RequestItems {
		if len(ka.Keys) > 100 {
			return nil, validationError("Too many items requested for the BatchGetItem call")
		}
		keys := ka.Keys
		if f.unprocessed && len(keys) > 1 {
			half := len(keys) / 2
			out.UnprocessedKeys[table] = types.KeysAndAttributes{Keys: keys[half:], ProjectionExpression: ka.ProjectionExpression}
			keys = keys[:half]
			f.unprocessed = false
		}
		for _, key := range keys {
			id, _ := strconv.ParseInt(key["id"].(*types.AttributeValueMemberN).Value, 10, 64)
			hp, ok := f.hashPans[id]
			if !ok {
				continue
			}
			out.Responses[table] = append(out.Responses[table], map[string]types.AttributeValue{
				"id":       key["id"],
				"hash_pan": &types.AttributeValueMemberS{Value: hp},
			})
		}
	}
	return out, nil
}
