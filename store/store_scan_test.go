package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Scan(t *testing.T) {
	t.Run("scan all items", func(t *testing.T) {
		store := newTestStore(t, compositeTableInput("orders"))
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			putOrder(t, store, fmt.Sprintf("cust#%d", i), "a")
		}

		result, err := store.Scan(ctx, &dynamodb.ScanInput{
			TableName: aws.String("orders"),
		})
		require.NoError(t, err)
		assert.Len(t, result.Items, 5)
		assert.Equal(t, int32(5), result.Count)
		assert.Equal(t, int32(5), result.ScannedCount)
		assert.Nil(t, result.LastEvaluatedKey)
	})

	t.Run("empty table", func(t *testing.T) {
		store := newTestStore(t, compositeTableInput("orders"))

		result, err := store.Scan(context.Background(), &dynamodb.ScanInput{
			TableName: aws.String("orders"),
		})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Equal(t, int32(0), result.Count)
	})

	t.Run("paging walks the whole table", func(t *testing.T) {
		store := newTestStore(t, simpleTableInput("users"))
		ctx := context.Background()

		for i := 0; i < 7; i++ {
			_, err := store.PutItem(ctx, &dynamodb.PutItemInput{
				TableName: aws.String("users"),
				Item: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: fmt.Sprintf("u%02d", i)},
				},
			})
			require.NoError(t, err)
		}

		var seen []string
		var startKey map[string]types.AttributeValue
		for {
			result, err := store.Scan(ctx, &dynamodb.ScanInput{
				TableName:         aws.String("users"),
				Limit:             aws.Int32(3),
				ExclusiveStartKey: startKey,
			})
			require.NoError(t, err)
			for _, item := range result.Items {
				seen = append(seen, item["id"].(*types.AttributeValueMemberS).Value)
			}
			if result.LastEvaluatedKey == nil {
				break
			}
			startKey = result.LastEvaluatedKey
		}
		assert.Equal(t, []string{"u00", "u01", "u02", "u03", "u04", "u05", "u06"}, seen)
	})

	t.Run("limit larger than table yields no continuation", func(t *testing.T) {
		store := newTestStore(t, compositeTableInput("orders"))
		ctx := context.Background()

		putOrder(t, store, "cust#1", "a")
		putOrder(t, store, "cust#1", "b")

		result, err := store.Scan(ctx, &dynamodb.ScanInput{
			TableName: aws.String("orders"),
			Limit:     aws.Int32(10),
		})
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
		assert.Nil(t, result.LastEvaluatedKey)
	})
}
