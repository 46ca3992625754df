package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// GetItem retrieves a single item by its key attributes. An absent item
// yields an empty output, not an error.
func (s *Store) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if params == nil {
		return nil, validationErr("params is required")
	}
	if params.Key == nil {
		return nil, validationErr("key is required")
	}

	meta, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}

	key := recordKey(meta.Definition.Name, meta.Definition.DeriveKey(params.Key))

	var item map[string]types.AttributeValue
	err = s.db.View(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, key)
		if err != nil {
			return err
		}
		if rec != nil {
			item = rec.Item
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return &dynamodb.GetItemOutput{Item: item}, nil
}
