package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// TransactGetItems reads a batch of items from one storage snapshot, so the
// responses are mutually consistent. A missing item yields an empty response
// at its position; positions mirror the request order.
func (s *Store) TransactGetItems(ctx context.Context, params *dynamodb.TransactGetItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactGetItemsOutput, error) {
	if params == nil {
		return nil, validationErr("params is required")
	}
	if params.TransactItems == nil {
		return nil, validationErr("transact items is required")
	}

	out := &dynamodb.TransactGetItemsOutput{
		Responses: make([]types.ItemResponse, 0, len(params.TransactItems)),
	}

	err := s.db.View(func(txn *badger.Txn) error {
		for i, item := range params.TransactItems {
			if item.Get == nil || item.Get.Key == nil {
				return validationErr("transact item %d: get request with key is required", i)
			}

			meta, err := s.getTable(item.Get.TableName)
			if err != nil {
				return err
			}

			record, err := getRecord(txn, recordKey(meta.Definition.Name, meta.Definition.DeriveKey(item.Get.Key)))
			if err != nil {
				return err
			}
			if record == nil {
				out.Responses = append(out.Responses, types.ItemResponse{})
				continue
			}
			out.Responses = append(out.Responses, types.ItemResponse{Item: record.Item})
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return out, nil
}
