package conditionexpr

import (
	"bytes"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// EvalInput carries the placeholder maps supplied alongside the request.
type EvalInput struct {
	ExpressionNames  map[string]string
	ExpressionValues map[string]types.AttributeValue
}

// Eval parses and evaluates a condition against a document. A nil document
// means the item does not exist. An unparseable condition evaluates to true:
// malformed expression input degrades permissively instead of blocking the
// write, which is part of the engine's leniency contract.
func Eval(condition string, input EvalInput, doc map[string]types.AttributeValue) bool {
	cond, err := Parse(condition)
	if err != nil {
		return true
	}
	return evalCondition(cond, input, doc)
}

func evalCondition(cond Condition, input EvalInput, doc map[string]types.AttributeValue) bool {
	switch c := cond.(type) {
	case *And:
		return evalCondition(c.Left, input, doc) && evalCondition(c.Right, input, doc)
	case *Exists:
		_, found := doc[c.Name.Resolve(input.ExpressionNames)]
		return found != c.Negated
	case *Equals:
		want, ok := input.ExpressionValues[c.Value]
		if !ok {
			// Unresolved value placeholder: nothing to compare against, so
			// the guard cannot hold.
			return false
		}
		got, found := doc[c.Name.Resolve(input.ExpressionNames)]
		if !found {
			return false
		}
		return ValuesEqual(got, want)
	default:
		return true
	}
}

// ValuesEqual compares two attribute values for condition equality. Scalar
// kinds compare by value; nested structures compare element-wise.
func ValuesEqual(a, b types.AttributeValue) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberB:
		bv, ok := b.(*types.AttributeValueMemberB)
		return ok && bytes.Equal(av.Value, bv.Value)
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberNULL:
		bv, ok := b.(*types.AttributeValueMemberNULL)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberM:
		bv, ok := b.(*types.AttributeValueMemberM)
		if !ok || len(av.Value) != len(bv.Value) {
			return false
		}
		for k, v := range av.Value {
			other, found := bv.Value[k]
			if !found || !ValuesEqual(v, other) {
				return false
			}
		}
		return true
	case *types.AttributeValueMemberL:
		bv, ok := b.(*types.AttributeValueMemberL)
		if !ok || len(av.Value) != len(bv.Value) {
			return false
		}
		for i, v := range av.Value {
			if !ValuesEqual(v, bv.Value[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
