package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateTable(t *testing.T) {
	t.Run("describes the created schema", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		created, err := store.CreateTable(ctx, compositeTableInput("orders"))
		require.NoError(t, err)
		require.NotNil(t, created.TableDescription)
		assert.Equal(t, "orders", *created.TableDescription.TableName)
		assert.NotEmpty(t, *created.TableDescription.TableId)
		assert.Equal(t, types.TableStatusActive, created.TableDescription.TableStatus)
		assert.Len(t, created.TableDescription.KeySchema, 2)

		described, err := store.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String("orders"),
		})
		require.NoError(t, err)
		assert.Equal(t, created.TableDescription.TableId, described.Table.TableId)
	})

	t.Run("recreate keeps items, id and creation time", func(t *testing.T) {
		store := newTestStore(t, compositeTableInput("orders"))
		ctx := context.Background()

		putOrder(t, store, "cust#1", "a")

		first, err := store.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String("orders"),
		})
		require.NoError(t, err)

		_, err = store.CreateTable(ctx, compositeTableInput("orders"))
		require.NoError(t, err)

		second, err := store.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String("orders"),
		})
		require.NoError(t, err)
		assert.Equal(t, *first.Table.TableId, *second.Table.TableId)
		assert.Equal(t, *first.Table.CreationDateTime, *second.Table.CreationDateTime)

		result, err := store.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String("orders")})
		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
	})

	t.Run("key attribute without definition errors", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.CreateTable(context.Background(), &dynamodb.CreateTableInput{
			TableName: aws.String("broken"),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
			},
		})
		var vErr *ValidationException
		require.ErrorAs(t, err, &vErr)
	})
}

func TestStore_ListTables(t *testing.T) {
	store := newTestStore(t, compositeTableInput("beta"), simpleTableInput("alpha"))

	result, err := store.ListTables(context.Background(), &dynamodb.ListTablesInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, result.TableNames)
}

func TestStore_DeleteTable(t *testing.T) {
	t.Run("removes schema and records", func(t *testing.T) {
		store := newTestStore(t, compositeTableInput("orders"))
		ctx := context.Background()

		putOrder(t, store, "cust#1", "a")

		result, err := store.DeleteTable(ctx, &dynamodb.DeleteTableInput{
			TableName: aws.String("orders"),
		})
		require.NoError(t, err)
		assert.Equal(t, types.TableStatusDeleting, result.TableDescription.TableStatus)

		_, err = store.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String("orders"),
		})
		var notFound *types.ResourceNotFoundException
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("unknown table", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.DeleteTable(context.Background(), &dynamodb.DeleteTableInput{
			TableName: aws.String("nope"),
		})
		var notFound *types.ResourceNotFoundException
		require.ErrorAs(t, err, &notFound)
	})
}

func TestStore_Persistence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	s, err := New(Options{Path: dir})
	require.NoError(t, err)

	_, err = s.CreateTable(ctx, compositeTableInput("orders"))
	require.NoError(t, err)
	_, err = s.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String("orders"),
		Item: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: "cust#1"},
			"sk": &types.AttributeValueMemberS{Value: "a"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopen: catalog and records must come back from disk.
	reopened, err := New(Options{Path: dir})
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	tables, err := reopened.ListTables(ctx, &dynamodb.ListTablesInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, tables.TableNames)

	got, err := reopened.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String("orders"),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: "cust#1"},
			"sk": &types.AttributeValueMemberS{Value: "a"},
		},
	})
	require.NoError(t, err)
	assert.NotNil(t, got.Item)
}
