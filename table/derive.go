package table

import (
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DeriveKey computes the canonical key string for an item or key descriptor.
// The encoding uses fixed labels so that equal key values always serialize
// identically regardless of attribute naming or map iteration order:
//
//	composite schema: {"partition":<value>,"sort":<value>}
//	single schema:    {"id":<value>}
//
// Non-key attributes never influence the result. An input carrying none of
// the schema's key attributes (or an incomplete composite key) derives the
// empty string: a degenerate, untracked key the caller must tolerate.
func (d Definition) DeriveKey(attrs map[string]types.AttributeValue) string {
	if d.Keys.Composite() {
		pv, okP := attrs[d.Keys.PartitionKey.Name]
		sv, okS := attrs[d.Keys.SortKey.Name]
		if !okP || !okS {
			return ""
		}
		return `{"partition":` + keyValueJSON(pv) + `,"sort":` + keyValueJSON(sv) + `}`
	}
	v, ok := attrs[d.Keys.PartitionKey.Name]
	if !ok {
		return ""
	}
	return `{"id":` + keyValueJSON(v) + `}`
}

// PartitionPrefix returns the prefix shared by every derived key in one
// partition of a composite table. The trailing comma makes the prefix
// unambiguous: no partition value's encoding is a prefix of another's.
func (d Definition) PartitionPrefix(partitionValue types.AttributeValue) string {
	return `{"partition":` + keyValueJSON(partitionValue) + `,`
}

// keyValueJSON renders a key attribute value as deterministic JSON. Strings
// go through encoding/json so control bytes are escaped and the derived key
// never contains a raw NUL. Numbers keep their wire string form.
func keyValueJSON(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return jsonString(v.Value)
	case *types.AttributeValueMemberN:
		if _, err := strconv.ParseFloat(v.Value, 64); err != nil {
			// Not a parseable number; quote it so the key stays valid JSON.
			return jsonString(v.Value)
		}
		return v.Value
	case *types.AttributeValueMemberB:
		return jsonString(base64.StdEncoding.EncodeToString(v.Value))
	case *types.AttributeValueMemberBOOL:
		return strconv.FormatBool(v.Value)
	default:
		return jsonString("")
	}
}

func jsonString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// json.Marshal of a string cannot fail
		panic(err)
	}
	return string(b)
}
