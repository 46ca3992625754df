package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// BatchWriteItem applies put and delete requests grouped by table. Requests
// that cannot be applied are reported back in UnprocessedItems rather than
// failing the batch; an unknown table fails the whole call.
func (s *Store) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	if params == nil {
		return nil, validationErr("params is required")
	}
	if params.RequestItems == nil {
		return nil, validationErr("request items is required")
	}

	unprocessed := make(map[string][]types.WriteRequest)

	err := s.db.Update(func(txn *badger.Txn) error {
		for tableName, requests := range params.RequestItems {
			meta, err := s.getTable(&tableName)
			if err != nil {
				return err
			}

			for _, req := range requests {
				switch {
				case req.PutRequest != nil:
					if req.PutRequest.Item == nil {
						unprocessed[tableName] = append(unprocessed[tableName], req)
						continue
					}
					key := recordKey(meta.Definition.Name, meta.Definition.DeriveKey(req.PutRequest.Item))
					if err := s.writeRecord(txn, key, req.PutRequest.Item, s.now()); err != nil {
						unprocessed[tableName] = append(unprocessed[tableName], req)
					}

				case req.DeleteRequest != nil:
					if req.DeleteRequest.Key == nil {
						unprocessed[tableName] = append(unprocessed[tableName], req)
						continue
					}
					key := recordKey(meta.Definition.Name, meta.Definition.DeriveKey(req.DeleteRequest.Key))
					if err := txn.Delete(key); err != nil {
						unprocessed[tableName] = append(unprocessed[tableName], req)
					}

				default:
					return validationErr("empty write request for table %q", tableName)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return &dynamodb.BatchWriteItemOutput{UnprocessedItems: unprocessed}, nil
}
