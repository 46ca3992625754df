package table

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCreateTableInput(t *testing.T) {
	t.Run("composite schema", func(t *testing.T) {
		def, err := FromCreateTableInput(&dynamodb.CreateTableInput{
			TableName: aws.String("orders"),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("sk"), KeyType: types.KeyTypeRange},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("pk"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("sk"), AttributeType: types.ScalarAttributeTypeN},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "orders", def.Name)
		assert.Equal(t, KeyDef{Name: "pk", Kind: KeyKindS}, def.Keys.PartitionKey)
		assert.Equal(t, KeyDef{Name: "sk", Kind: KeyKindN}, def.Keys.SortKey)
		assert.True(t, def.Keys.Composite())
	})

	t.Run("single key schema", func(t *testing.T) {
		def, err := FromCreateTableInput(&dynamodb.CreateTableInput{
			TableName: aws.String("users"),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
		})
		require.NoError(t, err)
		assert.False(t, def.Keys.Composite())
	})

	t.Run("key attribute without definition", func(t *testing.T) {
		_, err := FromCreateTableInput(&dynamodb.CreateTableInput{
			TableName: aws.String("broken"),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
			},
		})
		require.Error(t, err)
	})

	t.Run("missing partition key", func(t *testing.T) {
		_, err := FromCreateTableInput(&dynamodb.CreateTableInput{
			TableName: aws.String("broken"),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("sk"), KeyType: types.KeyTypeRange},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("sk"), AttributeType: types.ScalarAttributeTypeS},
			},
		})
		require.Error(t, err)
	})
}

func TestDefinition_RoundTrip(t *testing.T) {
	def := Definition{
		Name: "orders",
		Keys: PrimaryKeyDefinition{
			PartitionKey: KeyDef{Name: "pk", Kind: KeyKindS},
			SortKey:      KeyDef{Name: "sk", Kind: KeyKindS},
		},
	}

	schema := def.KeySchema()
	require.Len(t, schema, 2)
	assert.Equal(t, types.KeyTypeHash, schema[0].KeyType)
	assert.Equal(t, types.KeyTypeRange, schema[1].KeyType)

	attrs := def.AttributeDefinitions()
	require.Len(t, attrs, 2)
	assert.Equal(t, types.ScalarAttributeTypeS, attrs[0].AttributeType)
}

func TestDefinition_KeyAttributes(t *testing.T) {
	def := Definition{
		Name: "orders",
		Keys: PrimaryKeyDefinition{
			PartitionKey: KeyDef{Name: "pk", Kind: KeyKindS},
			SortKey:      KeyDef{Name: "sk", Kind: KeyKindS},
		},
	}

	item := map[string]types.AttributeValue{
		"pk":    &types.AttributeValueMemberS{Value: "a"},
		"sk":    &types.AttributeValueMemberS{Value: "b"},
		"extra": &types.AttributeValueMemberS{Value: "dropped"},
	}
	key := def.KeyAttributes(item)
	assert.Len(t, key, 2)
	assert.Contains(t, key, "pk")
	assert.Contains(t, key, "sk")
}
