package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"

	"github.com/okvist/tabletown/conditionexpr"
)

// PutItem creates or replaces an item. Two items with equal key attribute
// values collapse to the same record regardless of their other attributes;
// the record's created-at survives the overwrite.
func (s *Store) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if params == nil {
		return nil, validationErr("params is required")
	}
	if params.Item == nil {
		return nil, validationErr("item is required")
	}

	meta, err := s.getTable(params.TableName)
	if err != nil {
		return nil, err
	}

	key := recordKey(meta.Definition.Name, meta.Definition.DeriveKey(params.Item))

	var oldItem map[string]types.AttributeValue
	err = s.db.Update(func(txn *badger.Txn) error {
		old, err := getRecord(txn, key)
		if err != nil {
			return err
		}
		if old != nil {
			oldItem = old.Item
		}

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

		return s.writeRecord(txn, key, params.Item, s.now())
	})
	if err != nil {
		return nil, classify(err)
	}

	out := &dynamodb.PutItemOutput{}
	if params.ReturnValues == types.ReturnValueAllOld && oldItem != nil {
		out.Attributes = oldItem
	}
	return out, nil
}
