package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"

	"github.com/okvist/tabletown/conditionexpr"
)

// DeleteItem removes an item by its key attributes. Deleting an absent key
// succeeds and changes nothing; the operation is idempotent.
func (s *Store) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
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

	var oldItem map[string]types.AttributeValue
	err = s.db.Update(func(txn *badger.Txn) error {
		old, err := getRecord(txn, key)
		if err != nil {
			return err
		}
		if old == nil {
			return nil
		}
		oldItem = old.Item

		if params.ConditionExpression != nil {
			input := conditionexpr.EvalInput{
				ExpressionNames:  params.ExpressionAttributeNames,
				ExpressionValues: params.ExpressionAttributeValues,
			}
			if !conditionexpr.Eval(*params.ConditionExpression, input, oldItem) {
				return &types.ConditionalCheckFailedException{
					Message: ptrStr("The conditional request failed"),
				}
			}
		}

		return txn.Delete(key)
	})
	if err != nil {
		return nil, classify(err)
	}

	out := &dynamodb.DeleteItemOutput{}
	if params.ReturnValues == types.ReturnValueAllOld && oldItem != nil {
		out.Attributes = oldItem
	}
	return out, nil
}
