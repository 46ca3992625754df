// Package keyconditionexpr extracts the partition-key equality from a
// query's key condition expression.
package keyconditionexpr

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/okvist/tabletown/conditionexpr"
)

// PartitionValue resolves the value the key condition pins the partition key
// to. The second return is false when no equality on partitionAttr can be
// resolved: parse failure, a different attribute, an unresolvable alias, or a
// missing value placeholder. Callers degrade to a full-table read in that
// case rather than erroring.
func PartitionValue(expr string, input conditionexpr.EvalInput, partitionAttr string) (types.AttributeValue, bool) {
	cond, err := conditionexpr.Parse(expr)
	if err != nil {
		return nil, false
	}
	return findEquality(cond, input, partitionAttr)
}

func findEquality(cond conditionexpr.Condition, input conditionexpr.EvalInput, attr string) (types.AttributeValue, bool) {
	switch c := cond.(type) {
	case *conditionexpr.And:
		if v, ok := findEquality(c.Left, input, attr); ok {
			return v, true
		}
		return findEquality(c.Right, input, attr)
	case *conditionexpr.Equals:
		if c.Name.Resolve(input.ExpressionNames) != attr {
			return nil, false
		}
		v, ok := input.ExpressionValues[c.Value]
		return v, ok
	default:
		return nil, false
	}
}
