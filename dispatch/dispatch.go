// Package dispatch routes typed operations to a store. Each operation in the
// API is a distinct variant type carrying its own input struct, so routing is
// an exhaustive type switch and adding an operation is a compile-time change
// rather than a string-table edit.
package dispatch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/okvist/tabletown/store"
)

// Operation is the closed set of requests the dispatcher accepts. Only the
// variant types in this package implement it.
type Operation interface {
	operation()
}

type CreateTable struct{ Input *dynamodb.CreateTableInput }
type DescribeTable struct{ Input *dynamodb.DescribeTableInput }
type ListTables struct{ Input *dynamodb.ListTablesInput }
type DeleteTable struct{ Input *dynamodb.DeleteTableInput }
type PutItem struct{ Input *dynamodb.PutItemInput }
type GetItem struct{ Input *dynamodb.GetItemInput }
type UpdateItem struct{ Input *dynamodb.UpdateItemInput }
type DeleteItem struct{ Input *dynamodb.DeleteItemInput }
type Query struct{ Input *dynamodb.QueryInput }
type Scan struct{ Input *dynamodb.ScanInput }
type TransactWriteItems struct{ Input *dynamodb.TransactWriteItemsInput }
type TransactGetItems struct{ Input *dynamodb.TransactGetItemsInput }
type BatchWriteItem struct{ Input *dynamodb.BatchWriteItemInput }
type BatchGetItem struct{ Input *dynamodb.BatchGetItemInput }

func (CreateTable) operation()        {}
func (DescribeTable) operation()      {}
func (ListTables) operation()         {}
func (DeleteTable) operation()        {}
func (PutItem) operation()            {}
func (GetItem) operation()            {}
func (UpdateItem) operation()         {}
func (DeleteItem) operation()         {}
func (Query) operation()              {}
func (Scan) operation()               {}
func (TransactWriteItems) operation() {}
func (TransactGetItems) operation()   {}
func (BatchWriteItem) operation()     {}
func (BatchGetItem) operation()       {}

// Dispatcher executes operations against a single store.
type Dispatcher struct {
	store *store.Store
}

func New(s *store.Store) *Dispatcher {
	return &Dispatcher{store: s}
}

// Dispatch runs op and returns the operation's typed output. The result is
// one of the *dynamodb.XxxOutput types matching the operation variant; nil
// or unrecognized operations are rejected.
func (d *Dispatcher) Dispatch(ctx context.Context, op Operation) (any, error) {
	switch op := op.(type) {
	case CreateTable:
		return d.store.CreateTable(ctx, op.Input)
	case DescribeTable:
		return d.store.DescribeTable(ctx, op.Input)
	case ListTables:
		return d.store.ListTables(ctx, op.Input)
	case DeleteTable:
		return d.store.DeleteTable(ctx, op.Input)
	case PutItem:
		return d.store.PutItem(ctx, op.Input)
	case GetItem:
		return d.store.GetItem(ctx, op.Input)
	case UpdateItem:
		return d.store.UpdateItem(ctx, op.Input)
	case DeleteItem:
		return d.store.DeleteItem(ctx, op.Input)
	case Query:
		return d.store.Query(ctx, op.Input)
	case Scan:
		return d.store.Scan(ctx, op.Input)
	case TransactWriteItems:
		return d.store.TransactWriteItems(ctx, op.Input)
	case TransactGetItems:
		return d.store.TransactGetItems(ctx, op.Input)
	case BatchWriteItem:
		return d.store.BatchWriteItem(ctx, op.Input)
	case BatchGetItem:
		return d.store.BatchGetItem(ctx, op.Input)
	default:
		return nil, &store.ValidationException{Message: fmt.Sprintf("unknown operation %T", op)}
	}
}
