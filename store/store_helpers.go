package store

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/okvist/tabletown/table"
)

// pageResult is the outcome of applying start-key and limit semantics to an
// ordered record listing.
type pageResult struct {
	items []map[string]types.AttributeValue
	// scannedCount is the number of records considered after the start key
	// was applied and before the limit truncated anything.
	scannedCount int32
	lastKey      map[string]types.AttributeValue
}

// paginate applies the pagination contract shared by Query and Scan.
//
// If an exclusive start key is supplied, records up to and including the
// matching derived key are dropped; an unknown start key skips nothing. When
// the remaining result is at least as large as the limit, the page truncates
// to the limit and the continuation key is built from the key attributes of
// the last returned item. Absence of a continuation key means end of result
// set.
func paginate(entries []recordEntry, def table.Definition, exclusiveStartKey map[string]types.AttributeValue, limit *int32) pageResult {
	if exclusiveStartKey != nil {
		startKey := def.DeriveKey(exclusiveStartKey)
		for i, entry := range entries {
			if entry.derivedKey == startKey {
				entries = entries[i+1:]
				break
			}
		}
	}

	result := pageResult{scannedCount: int32(len(entries))}

	if limit != nil && *limit > 0 && len(entries) >= int(*limit) {
		entries = entries[:*limit]
		result.lastKey = def.KeyAttributes(entries[len(entries)-1].record.Item)
	}

	result.items = make([]map[string]types.AttributeValue, len(entries))
	for i, entry := range entries {
		result.items[i] = entry.record.Item
	}
	return result
}
