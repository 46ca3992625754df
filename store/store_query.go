package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"

	"github.com/okvist/tabletown/conditionexpr"
	"github.com/okvist/tabletown/keyconditionexpr"
)

// Query returns a table's items filtered by partition key, in ascending
// derived-key order. A query whose key condition does not resolve to a
// partition-key equality degrades to returning the entire table; that
// permissive fallback is documented behavior, not an error.
func (s *Store) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if params == nil {
		return nil, validationErr("params is required")
	}

	meta, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}
	def := meta.Definition

	prefix := tablePrefix(def.Name)
	if params.KeyConditionExpression != nil {
		input := conditionexpr.EvalInput{
			ExpressionNames:  params.ExpressionAttributeNames,
			ExpressionValues: params.ExpressionAttributeValues,
		}
		if pkValue, ok := keyconditionexpr.PartitionValue(*params.KeyConditionExpression, input, def.Keys.PartitionKey.Name); ok {
			if def.Keys.Composite() {
				prefix = append(prefix, def.PartitionPrefix(pkValue)...)
			} else {
				// A single-attribute key pins the whole derived key: the
				// partition is exactly one record.
				key := map[string]types.AttributeValue{def.Keys.PartitionKey.Name: pkValue}
				prefix = append(prefix, def.DeriveKey(key)...)
			}
		}
	}

	var entries []recordEntry
	err = s.db.View(func(txn *badger.Txn) error {
		var lerr error
		entries, lerr = listPrefix(txn, def.Name, prefix)
		return lerr
	})
	if err != nil {
		return nil, classify(err)
	}

	page := paginate(entries, def, params.ExclusiveStartKey, params.Limit)
	return &dynamodb.QueryOutput{
		Items:            page.items,
		Count:            int32(len(page.items)),
		ScannedCount:     page.scannedCount,
		LastEvaluatedKey: page.lastKey,
	}, nil
}
