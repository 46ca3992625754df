package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dgraph-io/badger/v4"
)

// Scan returns every item in a table in ascending derived-key order, with
// the same start-key and limit semantics as Query.
func (s *Store) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if params == nil {
		return nil, validationErr("params is required")
	}

	meta, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}
	def := meta.Definition

	var entries []recordEntry
	err = s.db.View(func(txn *badger.Txn) error {
		var lerr error
		entries, lerr = listPrefix(txn, def.Name, tablePrefix(def.Name))
		return lerr
	})
	if err != nil {
		return nil, classify(err)
	}

	page := paginate(entries, def, params.ExclusiveStartKey, params.Limit)
	return &dynamodb.ScanOutput{
		Items:            page.items,
		Count:            int32(len(page.items)),
		ScannedCount:     page.scannedCount,
		LastEvaluatedKey: page.lastKey,
	}, nil
}
