package store

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TransactGetItems(t *testing.T) {
	t.Run("responses mirror request order", func(t *testing.T) {
		store := newTestStore(t, compositeTableInput("orders"), simpleTableInput("users"))
		ctx := context.Background()

		putOrder(t, store, "cust#1", "a")
		_, err := store.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String("users"),
			Item: map[string]types.AttributeValue{
				"id":   &types.AttributeValueMemberS{Value: "u1"},
				"name": &types.AttributeValueMemberS{Value: "Ada"},
			},
		})
		require.NoError(t, err)

		result, err := store.TransactGetItems(ctx, &dynamodb.TransactGetItemsInput{
			TransactItems: []types.TransactGetItem{
				{Get: &types.Get{
					TableName: aws.String("users"),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: "u1"},
					},
				}},
				{Get: &types.Get{
					TableName: aws.String("orders"),
					Key: map[string]types.AttributeValue{
						"pk": &types.AttributeValueMemberS{Value: "cust#1"},
						"sk": &types.AttributeValueMemberS{Value: "missing"},
					},
				}},
				{Get: &types.Get{
					TableName: aws.String("orders"),
					Key: map[string]types.AttributeValue{
						"pk": &types.AttributeValueMemberS{Value: "cust#1"},
						"sk": &types.AttributeValueMemberS{Value: "a"},
					},
				}},
			},
		})
		require.NoError(t, err)
		require.Len(t, result.Responses, 3)
		assert.Equal(t, "Ada", result.Responses[0].Item["name"].(*types.AttributeValueMemberS).Value)
		assert.Nil(t, result.Responses[1].Item)
		assert.Equal(t, "a", result.Responses[2].Item["sk"].(*types.AttributeValueMemberS).Value)
	})

	t.Run("empty get request is rejected", func(t *testing.T) {
		store := newTestStore(t, compositeTableInput("orders"))

		_, err := store.TransactGetItems(context.Background(), &dynamodb.TransactGetItemsInput{
			TransactItems: []types.TransactGetItem{{}},
		})
		var vErr *ValidationException
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("unknown table fails the batch", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.TransactGetItems(context.Background(), &dynamodb.TransactGetItemsInput{
			TransactItems: []types.TransactGetItem{
				{Get: &types.Get{
					TableName: aws.String("nope"),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: "x"},
					},
				}},
			},
		})
		var notFound *types.ResourceNotFoundException
		require.ErrorAs(t, err, &notFound)
	})
}
