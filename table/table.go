// Package table holds table schema metadata and the canonical key
// derivation used by the record store.
package table

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Definition is the declared key schema of a table. A table has either a
// single partition key or a composite partition+sort key.
type Definition struct {
	Name string               `json:"name"`
	Keys PrimaryKeyDefinition `json:"keys"`
}

type PrimaryKeyDefinition struct {
	PartitionKey KeyDef `json:"partitionKey"`
	// SortKey is zero-valued for single-attribute schemas.
	SortKey KeyDef `json:"sortKey"`
}

// Composite reports whether the schema declares a sort key.
func (k PrimaryKeyDefinition) Composite() bool {
	return k.SortKey.Name != ""
}

type KeyDef struct {
	Name string  `json:"name"`
	Kind KeyKind `json:"kind"`
}

type KeyKind string

const (
	KeyKindS KeyKind = "S"
	KeyKindN KeyKind = "N"
	KeyKindB KeyKind = "B"
)

// FromCreateTableInput builds a Definition from the wire-level create-table
// parameters. The attribute definitions supply the key kinds.
func FromCreateTableInput(params *dynamodb.CreateTableInput) (Definition, error) {
	if params == nil {
		return Definition{}, fmt.Errorf("params is required")
	}
	if params.TableName == nil || *params.TableName == "" {
		return Definition{}, fmt.Errorf("table name is required")
	}
	if len(params.KeySchema) == 0 {
		return Definition{}, fmt.Errorf("key schema is required")
	}

	kinds := make(map[string]KeyKind)
	for _, attr := range params.AttributeDefinitions {
		if attr.AttributeName == nil {
			continue
		}
		kinds[*attr.AttributeName] = KeyKind(attr.AttributeType)
	}

	def := Definition{Name: *params.TableName}
	for _, elem := range params.KeySchema {
		if elem.AttributeName == nil {
			return Definition{}, fmt.Errorf("key schema element is missing attribute name")
		}
		name := *elem.AttributeName
		kind, ok := kinds[name]
		if !ok {
			return Definition{}, fmt.Errorf("key attribute %q has no attribute definition", name)
		}
		switch elem.KeyType {
		case types.KeyTypeHash:
			def.Keys.PartitionKey = KeyDef{Name: name, Kind: kind}
		case types.KeyTypeRange:
			def.Keys.SortKey = KeyDef{Name: name, Kind: kind}
		default:
			return Definition{}, fmt.Errorf("unsupported key type %q", elem.KeyType)
		}
	}
	if def.Keys.PartitionKey.Name == "" {
		return Definition{}, fmt.Errorf("key schema has no partition (HASH) key")
	}
	return def, nil
}

// KeySchema renders the definition back to wire-level key schema elements.
func (d Definition) KeySchema() []types.KeySchemaElement {
	schema := []types.KeySchemaElement{{
		AttributeName: &d.Keys.PartitionKey.Name,
		KeyType:       types.KeyTypeHash,
	}}
	if d.Keys.Composite() {
		schema = append(schema, types.KeySchemaElement{
			AttributeName: &d.Keys.SortKey.Name,
			KeyType:       types.KeyTypeRange,
		})
	}
	return schema
}

// AttributeDefinitions renders the key attribute definitions.
func (d Definition) AttributeDefinitions() []types.AttributeDefinition {
	defs := []types.AttributeDefinition{{
		AttributeName: &d.Keys.PartitionKey.Name,
		AttributeType: types.ScalarAttributeType(d.Keys.PartitionKey.Kind),
	}}
	if d.Keys.Composite() {
		defs = append(defs, types.AttributeDefinition{
			AttributeName: &d.Keys.SortKey.Name,
			AttributeType: types.ScalarAttributeType(d.Keys.SortKey.Kind),
		})
	}
	return defs
}

// KeyAttributes extracts the key attributes of an item, used to build
// continuation keys for paginated reads.
func (d Definition) KeyAttributes(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	result := make(map[string]types.AttributeValue)
	if pk, ok := item[d.Keys.PartitionKey.Name]; ok {
		result[d.Keys.PartitionKey.Name] = pk
	}
	if d.Keys.Composite() {
		if sk, ok := item[d.Keys.SortKey.Name]; ok {
			result[d.Keys.SortKey.Name] = sk
		}
	}
	return result
}
