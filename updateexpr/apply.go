package updateexpr

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// EvalInput carries the placeholder maps supplied alongside the request.
type EvalInput struct {
	ExpressionNames  map[string]string
	ExpressionValues map[string]types.AttributeValue
}

// Apply evaluates the expression against a document and returns the updated
// copy. The input document is not mutated.
//
// Alias resolution is permissive: a #alias missing from the names map is used
// verbatim as the attribute name, and an assignment whose :value alias is
// missing from the values map is silently skipped.
func Apply(doc map[string]types.AttributeValue, expr Expression, input EvalInput) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(doc)+len(expr.Assignments))
	for k, v := range doc {
		out[k] = v
	}
	for _, asgn := range expr.Assignments {
		val, ok := input.ExpressionValues[asgn.Source]
		if !ok {
			continue
		}
		out[asgn.Target.Resolve(input.ExpressionNames)] = val
	}
	return out
}

// Update parses and applies an update expression in one step.
func Update(expr string, input EvalInput, doc map[string]types.AttributeValue) map[string]types.AttributeValue {
	return Apply(doc, Parse(expr), input)
}

// Resolve returns the concrete attribute name for a target.
func (n Name) Resolve(names map[string]string) string {
	if n.Alias == "" {
		return n.Ident
	}
	if resolved, ok := names[n.Alias]; ok {
		return resolved
	}
	return n.Alias
}
