package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/okvist/tabletown/table"
)

// CreateTable registers a table schema. Creation is idempotent: recreating an
// existing table overwrites its schema metadata without touching its items,
// and keeps the original creation timestamp and table ID.
func (s *Store) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	def, err := table.FromCreateTableInput(params)
	if err != nil {
		return nil, validationErr("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta := &tableMeta{
		Definition: def,
		TableID:    uuid.NewString(),
		CreatedAt:  s.now(),
	}
	if existing, ok := s.tables[def.Name]; ok {
		meta.TableID = existing.TableID
		meta.CreatedAt = existing.CreatedAt
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return nil, &StorageError{Err: fmt.Errorf("encode table metadata: %w", err)}
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metaKey(def.Name), data)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.tables[def.Name] = meta
	s.log.Info("table created", "table", def.Name)

	return &dynamodb.CreateTableOutput{
		TableDescription: meta.description(),
	}, nil
}

// DescribeTable returns the stored schema metadata for a table.
func (s *Store) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if params == nil {
		return nil, validationErr("params is required")
	}
	meta, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}
	return &dynamodb.DescribeTableOutput{Table: meta.description()}, nil
}

// ListTables returns all table names in lexical order.
func (s *Store) ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	return &dynamodb.ListTablesOutput{TableNames: s.tableNames()}, nil
}

// DeleteTable removes a table's schema metadata and all of its records.
func (s *Store) DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	if params == nil {
		return nil, validationErr("params is required")
	}
	meta, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}
	name := meta.Definition.Name

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(metaKey(name)); err != nil {
			return err
		}
		entries, err := listPrefix(txn, name, tablePrefix(name))
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := txn.Delete(recordKey(name, entry.derivedKey)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	delete(s.tables, name)
	s.log.Info("table deleted", "table", name)

	desc := meta.description()
	desc.TableStatus = types.TableStatusDeleting
	return &dynamodb.DeleteTableOutput{TableDescription: desc}, nil
}

func (m *tableMeta) description() *types.TableDescription {
	createdAt := m.CreatedAt
	return &types.TableDescription{
		TableName:            &m.Definition.Name,
		TableId:              &m.TableID,
		KeySchema:            m.Definition.KeySchema(),
		AttributeDefinitions: m.Definition.AttributeDefinitions(),
		TableStatus:          types.TableStatusActive,
		CreationDateTime:     &createdAt,
	}
}
