package repository

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// BatchGetItem accepts at most 100 keys per request
	dynamoBatchGetLimit = 100
	// rounds of UnprocessedKeys resubmission before giving up on the rest
	dynamoUnprocessedRounds = 3
)

// DynamoDBHashPanRepository reads hash_pans from a table keyed by numeric id
type DynamoDBHashPanRepository struct {
	client DynamoDBAPI
	table  string
}

// NewDynamoDBHashPanRepository creates a reader on the named table
func NewDynamoDBHashPanRepository(client DynamoDBAPI, table string) *DynamoDBHashPanRepository {
	return &DynamoDBHashPanRepository{client: client, table: table}
}

// ByIDs batch-reads every distinct id. Ids that do not exist, or that DynamoDB
// keeps returning as unprocessed, are absent from the result.
func (r *DynamoDBHashPanRepository) ByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))

	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	for chunk := range slices.Chunk(unique, dynamoBatchGetLimit) {
		keys := make([]map[string]types.AttributeValue, len(chunk))
		for i, id := range chunk {
			keys[i] = map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
			}
		}

		request := map[string]types.KeysAndAttributes{
			r.table: {Keys: keys, ProjectionExpression: aws.String("id, hash_pan")},
		}
		for round := 0; round < dynamoUnprocessedRounds && len(request) > 0; round++ {
			resp, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, fmt.Errorf("failed to batch get hash_pans from %s: %w", r.table, err)
			}
			for _, item := range resp.Responses[r.table] {
				id, err := numberAttr(item["id"])
				if err != nil {
					continue
				}
				if hp, ok := item["hash_pan"].(*types.AttributeValueMemberS); ok {
					out[id] = hp.Value
				}
			}
			request = resp.UnprocessedKeys
		}
	}
	return out, nil
}
