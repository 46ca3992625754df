package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// BatchGetItem retrieves items by primary key across tables. Missing items
// are skipped, matching the GetItem contract that absence is not an error.
// UnprocessedKeys is always empty: a local store has no throughput limits.
func (s *Store) BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	if params == nil {
		return nil, validationErr("params is required")
	}
	if params.RequestItems == nil {
		return nil, validationErr("request items is required")
	}

	out := &dynamodb.BatchGetItemOutput{
		Responses: make(map[string][]map[string]types.AttributeValue),
	}

	err := s.db.View(func(txn *badger.Txn) error {
		for tableName, keysAndAttrs := range params.RequestItems {
			meta, err := s.getTable(&tableName)
			if err != nil {
				return err
			}

			for _, keyAttrs := range keysAndAttrs.Keys {
				record, err := getRecord(txn, recordKey(meta.Definition.Name, meta.Definition.DeriveKey(keyAttrs)))
				if err != nil {
					return err
				}
				if record == nil {
					continue
				}
				out.Responses[tableName] = append(out.Responses[tableName], record.Item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return out, nil
}
