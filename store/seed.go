package store

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"gopkg.in/yaml.v3"

	"github.com/okvist/tabletown/table"
)

// Fixture declares tables and their initial items, loaded from YAML. It lets
// a test harness or container entrypoint bring up a pre-populated store:
//
//	tables:
//	  - name: orders
//	    partitionKey: {name: pk, kind: S}
//	    sortKey: {name: sk, kind: S}
//	    items:
//	      - {pk: "cust#1", sk: "order#1", total: 99}
type Fixture struct {
	Tables []FixtureTable `yaml:"tables"`
}

type FixtureTable struct {
	Name         string           `yaml:"name"`
	PartitionKey table.KeyDef     `yaml:"partitionKey"`
	SortKey      *table.KeyDef    `yaml:"sortKey"`
	Items        []map[string]any `yaml:"items"`
}

// LoadFixture reads a fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture file: %w", err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture file %s: %w", path, err)
	}
	return fx, nil
}

// Seed creates the fixture's tables and writes their items. Item documents
// marshal through the standard attribute-value conversion, so plain YAML
// scalars become the matching wire types.
func (s *Store) Seed(ctx context.Context, fx Fixture) error {
	for _, ft := range fx.Tables {
		def := table.Definition{Name: ft.Name}
		def.Keys.PartitionKey = ft.PartitionKey
		if ft.SortKey != nil {
			def.Keys.SortKey = *ft.SortKey
		}

		_, err := s.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName:            &ft.Name,
			KeySchema:            def.KeySchema(),
			AttributeDefinitions: def.AttributeDefinitions(),
		})
		if err != nil {
			return fmt.Errorf("seed table %s: %w", ft.Name, err)
		}

		for i, doc := range ft.Items {
			item, err := attributevalue.MarshalMap(doc)
			if err != nil {
				return fmt.Errorf("seed table %s: marshal item %d: %w", ft.Name, i, err)
			}
			_, err = s.PutItem(ctx, &dynamodb.PutItemInput{
				TableName: &ft.Name,
				Item:      item,
			})
			if err != nil {
				return fmt.Errorf("seed table %s: put item %d: %w", ft.Name, i, err)
			}
		}
	}
	return nil
}
