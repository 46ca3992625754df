// Package store implements the item-store emulation engine: wire-level table
// operations mapped onto a persistent keyed record store backed by BadgerDB.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"

	"github.com/okvist/tabletown/table"
)

// Store is an emulated table store backed by BadgerDB. All writes run inside
// badger transactions; concurrent writers serialize at the storage boundary
// and the second writer observes the first writer's commit.
type Store struct {
	db  *badger.DB
	now func() time.Time
	log *slog.Logger

	mu     sync.RWMutex
	tables map[string]*tableMeta
}

// tableMeta is the persisted schema metadata for one table.
type tableMeta struct {
	Definition table.Definition `json:"definition"`
	TableID    string           `json:"tableId"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// Options configures the store.
type Options struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string `yaml:"path"`
	// InMemory forces in-memory mode even if Path is set.
	InMemory bool `yaml:"inMemory"`
	// Logger receives engine and storage logs. If nil, logging is disabled.
	Logger *slog.Logger `yaml:"-"`
	// Now supplies record timestamps. Defaults to time.Now.
	Now func() time.Time `yaml:"-"`
}

// New opens the store and loads the table catalog from disk.
func New(opts Options) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)
	if opts.Path == "" || opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}
	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(badgerLogger{log: opts.Logger})
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, &StorageError{Err: fmt.Errorf("open badger db: %w", err)}
	}

	s := &Store{
		db:     db,
		now:    opts.Now,
		log:    opts.Logger,
		tables: make(map[string]*tableMeta),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}

	if err := s.loadCatalog(); err != nil {
		db.Close()
		return nil, err
	}
	s.log.Debug("store opened", "path", opts.Path, "tables", len(s.tables))
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// loadCatalog restores table schema metadata persisted by CreateTable.
func (s *Store) loadCatalog() error {
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = metaPrefix()
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.Valid(); it.Next() {
			var meta tableMeta
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			})
			if err != nil {
				return fmt.Errorf("decode table metadata: %w", err)
			}
			s.tables[meta.Definition.Name] = &meta
		}
		return nil
	})
	if err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

func (s *Store) getTable(tableName *string) (*tableMeta, error) {
	if tableName == nil || *tableName == "" {
		return nil, validationErr("table name is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.tables[*tableName]
	if !ok {
		return nil, &types.ResourceNotFoundException{
			Message: ptrStr(fmt.Sprintf("Table not found: %s", *tableName)),
		}
	}
	return meta, nil
}

func (s *Store) tableNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Record returns the persisted record behind a key descriptor, including its
// storage timestamps, or nil when no record exists. It exposes the record
// store's view for inspection and tests; the wire-level operations return
// item documents only.
func (s *Store) Record(ctx context.Context, tableName string, key map[string]types.AttributeValue) (*Record, error) {
	meta, err := s.getTable(&tableName)
	if err != nil {
		return nil, err
	}

	var rec *Record
	err = s.db.View(func(txn *badger.Txn) error {
		r, err := getRecord(txn, recordKey(tableName, meta.Definition.DeriveKey(key)))
		if err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return rec, nil
}

// getRecord reads and decodes one record inside a transaction, returning nil
// when the key is absent.
func getRecord(txn *badger.Txn, key []byte) (*Record, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	err = item.Value(func(val []byte) error {
		var derr error
		rec, derr = deserializeRecord(val)
		return derr
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// recordEntry pairs a record with its derived key during list operations.
type recordEntry struct {
	derivedKey string
	record     Record
}

// listPrefix collects every record under a key prefix, in ascending
// derived-key order. Ordering falls out of badger's byte-ordered iteration
// over the canonical key encoding.
func listPrefix(txn *badger.Txn, tableName string, prefix []byte) ([]recordEntry, error) {
	tblPrefix := tablePrefix(tableName)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var entries []recordEntry
	for it.Seek(prefix); it.Valid(); it.Next() {
		key := it.Item().KeyCopy(nil)
		var rec Record
		err := it.Item().Value(func(val []byte) error {
			var derr error
			rec, derr = deserializeRecord(val)
			return derr
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, recordEntry{
			derivedKey: string(key[len(tblPrefix):]),
			record:     rec,
		})
	}
	return entries, nil
}

// writeRecord upserts a record, preserving the created-at of any record that
// already exists under the key (update-in-place semantics).
func (s *Store) writeRecord(txn *badger.Txn, key []byte, item map[string]types.AttributeValue, now time.Time) error {
	createdAt := now
	if old, err := getRecord(txn, key); err != nil {
		return err
	} else if old != nil {
		createdAt = old.CreatedAt
	}

	data, err := serializeRecord(Record{Item: item, CreatedAt: createdAt, UpdatedAt: now})
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}
