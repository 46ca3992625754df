package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"

	"github.com/okvist/tabletown/conditionexpr"
	"github.com/okvist/tabletown/updateexpr"
)

// UpdateItem applies an update expression to an existing item and returns
// the updated document. Updating a key with no existing record fails with
// ResourceNotFound and leaves the table unchanged; existence is the caller's
// responsibility, the engine does not upsert here.
func (s *Store) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if params == nil {
		return nil, validationErr("params is required")
	}
	if params.Key == nil {
		return nil, validationErr("key is required")
	}
	if params.UpdateExpression == nil {
		return nil, validationErr("UpdateExpression is required")
	}

	meta, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}

	key := recordKey(meta.Definition.Name, meta.Definition.DeriveKey(params.Key))
	expr := updateexpr.Parse(*params.UpdateExpression)

	var updated map[string]types.AttributeValue
	err = s.db.Update(func(txn *badger.Txn) error {
		old, err := getRecord(txn, key)
		if err != nil {
			return err
		}
		if old == nil {
			return &types.ResourceNotFoundException{
				Message: ptrStr("Requested resource not found"),
			}
		}

		if params.ConditionExpression != nil {
			input := conditionexpr.EvalInput{
				ExpressionNames:  params.ExpressionAttributeNames,
				ExpressionValues: params.ExpressionAttributeValues,
			}
			if !conditionexpr.Eval(*params.ConditionExpression, input, old.Item) {
				return &types.ConditionalCheckFailedException{
					Message: ptrStr("The conditional request failed"),
				}
			}
		}

		// Base document keeps the old attributes and pins the schema's key
		// attributes so an expression cannot detach the record from its
		// derived key. Non-key attributes in the key descriptor are ignored,
		// same as in key derivation.
		keyAttrs := meta.Definition.KeyAttributes(params.Key)
		base := make(map[string]types.AttributeValue, len(old.Item)+len(keyAttrs))
		for k, v := range old.Item {
			base[k] = v
		}
		for k, v := range keyAttrs {
			base[k] = v
		}

		updated = updateexpr.Apply(base, expr, updateexpr.EvalInput{
			ExpressionNames:  params.ExpressionAttributeNames,
			ExpressionValues: params.ExpressionAttributeValues,
		})

		return s.writeRecord(txn, key, updated, s.now())
	})
	if err != nil {
		return nil, classify(err)
	}

	return &dynamodb.UpdateItemOutput{Attributes: updated}, nil
}
