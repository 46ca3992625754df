package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"

	"github.com/okvist/tabletown/conditionexpr"
	"github.com/okvist/tabletown/updateexpr"
)

// TransactWriteItems applies a batch of Put, Update, Delete and
// ConditionCheck sub-operations as a single atomic unit. Every condition is
// evaluated against the pre-transaction state before any mutation is
// applied; one failed condition cancels the whole batch and leaves the store
// untouched. Within one transaction, the last write to a key wins.
//
// A transactional Update against a missing key is a silent no-op, mirroring
// the non-transactional contract that existence is the caller's
// responsibility.
func (s *Store) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	if params == nil {
		return nil, validationErr("params is required")
	}
	if params.TransactItems == nil {
		return nil, validationErr("transact items is required")
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		// First pass: every condition sees the state before the batch.
		for i, item := range params.TransactItems {
			if err := s.checkTransactItem(txn, i, item, len(params.TransactItems)); err != nil {
				return err
			}
		}

		// Second pass: apply mutations in request order.
		for i, item := range params.TransactItems {
			if err := s.applyTransactItem(txn, i, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (s *Store) checkTransactItem(txn *badger.Txn, index int, item types.TransactWriteItem, total int) error {
	var (
		tableName *string
		keyAttrs  map[string]types.AttributeValue
		condition *string
		input     conditionexpr.EvalInput
	)

	switch {
	case item.Put != nil:
		if item.Put.Item == nil {
			return validationErr("transact item %d: item is required", index)
		}
		tableName = item.Put.TableName
		keyAttrs = item.Put.Item
		condition = item.Put.ConditionExpression
		input = conditionexpr.EvalInput{
			ExpressionNames:  item.Put.ExpressionAttributeNames,
			ExpressionValues: item.Put.ExpressionAttributeValues,
		}
	case item.Update != nil:
		if item.Update.Key == nil {
			return validationErr("transact item %d: key is required", index)
		}
		tableName = item.Update.TableName
		keyAttrs = item.Update.Key
		condition = item.Update.ConditionExpression
		input = conditionexpr.EvalInput{
			ExpressionNames:  item.Update.ExpressionAttributeNames,
			ExpressionValues: item.Update.ExpressionAttributeValues,
		}
	case item.Delete != nil:
		if item.Delete.Key == nil {
			return validationErr("transact item %d: key is required", index)
		}
		tableName = item.Delete.TableName
		keyAttrs = item.Delete.Key
		condition = item.Delete.ConditionExpression
		input = conditionexpr.EvalInput{
			ExpressionNames:  item.Delete.ExpressionAttributeNames,
			ExpressionValues: item.Delete.ExpressionAttributeValues,
		}
	case item.ConditionCheck != nil:
		if item.ConditionCheck.Key == nil {
			return validationErr("transact item %d: key is required", index)
		}
		tableName = item.ConditionCheck.TableName
		keyAttrs = item.ConditionCheck.Key
		condition = item.ConditionCheck.ConditionExpression
		input = conditionexpr.EvalInput{
			ExpressionNames:  item.ConditionCheck.ExpressionAttributeNames,
			ExpressionValues: item.ConditionCheck.ExpressionAttributeValues,
		}
		if condition == nil {
			return validationErr("transact item %d: condition check requires a condition expression", index)
		}
	default:
		return validationErr("transact item %d: must be a Put, Update, Delete or ConditionCheck", index)
	}

	if condition == nil {
		return nil
	}

	meta, err := s.getTable(tableName)
	if err != nil {
		return err
	}

	current, err := getRecord(txn, recordKey(meta.Definition.Name, meta.Definition.DeriveKey(keyAttrs)))
	if err != nil {
		return err
	}
	var doc map[string]types.AttributeValue
	if current != nil {
		doc = current.Item
	}

	if !conditionexpr.Eval(*condition, input, doc) {
		return transactionCanceled(index, total)
	}
	return nil
}

func (s *Store) applyTransactItem(txn *badger.Txn, index int, item types.TransactWriteItem) error {
	switch {
	case item.Put != nil:
		meta, err := s.getTable(item.Put.TableName)
		if err != nil {
			return err
		}
		key := recordKey(meta.Definition.Name, meta.Definition.DeriveKey(item.Put.Item))
		return s.writeRecord(txn, key, item.Put.Item, s.now())

	case item.Update != nil:
		meta, err := s.getTable(item.Update.TableName)
		if err != nil {
			return err
		}
		key := recordKey(meta.Definition.Name, meta.Definition.DeriveKey(item.Update.Key))

		current, err := getRecord(txn, key)
		if err != nil {
			return err
		}
		if current == nil {
			// Missing key: nothing to update, nothing to fail.
			return nil
		}

		var exprText string
		if item.Update.UpdateExpression != nil {
			exprText = *item.Update.UpdateExpression
		}
		keyAttrs := meta.Definition.KeyAttributes(item.Update.Key)
		base := make(map[string]types.AttributeValue, len(current.Item)+len(keyAttrs))
		for k, v := range current.Item {
			base[k] = v
		}
		for k, v := range keyAttrs {
			base[k] = v
		}
		updated := updateexpr.Update(exprText, updateexpr.EvalInput{
			ExpressionNames:  item.Update.ExpressionAttributeNames,
			ExpressionValues: item.Update.ExpressionAttributeValues,
		}, base)

		return s.writeRecord(txn, key, updated, s.now())

	case item.Delete != nil:
		meta, err := s.getTable(item.Delete.TableName)
		if err != nil {
			return err
		}
		key := recordKey(meta.Definition.Name, meta.Definition.DeriveKey(item.Delete.Key))
		return txn.Delete(key)

	case item.ConditionCheck != nil:
		// Validated in the first pass, nothing to write.
		return nil

	default:
		return validationErr("transact item %d: must be a Put, Update, Delete or ConditionCheck", index)
	}
}

// transactionCanceled builds the cancellation result identifying the failing
// sub-operation: its reason code is ConditionalCheckFailed, all others None.
func transactionCanceled(failedIndex, total int) error {
	reasons := make([]types.CancellationReason, total)
	for i := range reasons {
		if i == failedIndex {
			reasons[i] = types.CancellationReason{
				Code:    ptrStr("ConditionalCheckFailed"),
				Message: ptrStr("The conditional request failed"),
			}
		} else {
			reasons[i] = types.CancellationReason{Code: ptrStr("None")}
		}
	}
	return &types.TransactionCanceledException{
		Message:             ptrStr(fmt.Sprintf("Transaction cancelled, condition check failed for item %d", failedIndex)),
		CancellationReasons: reasons,
	}
}
