package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
tables:
  - name: orders
    partitionKey: {name: pk, kind: S}
    sortKey: {name: sk, kind: S}
    items:
      - {pk: "cust#1", sk: "order#1", total: 99}
      - {pk: "cust#1", sk: "order#2", total: 150}
  - name: users
    partitionKey: {name: id, kind: S}
    items:
      - {id: "u1", name: "Ada"}
`

func TestSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o644))

	fx, err := LoadFixture(path)
	require.NoError(t, err)
	require.Len(t, fx.Tables, 2)

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx, fx))

	tables, err := s.ListTables(ctx, &dynamodb.ListTablesInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "users"}, tables.TableNames)

	result, err := s.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String("orders"),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "cust#1"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, "99", result.Items[0]["total"].(*types.AttributeValueMemberN).Value)

	got, err := s.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String("users"),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: "u1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Item["name"].(*types.AttributeValueMemberS).Value)
}
