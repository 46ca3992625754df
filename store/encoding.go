package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Storage layout. Two durable keyspaces share one badger database:
//
//	m <sep> <table>                 -> table metadata (JSON)
//	t <sep> <table> <sep> <derived> -> record envelope (gob)
//
// The derived key suffix is the canonical key string produced by
// table.Definition.DeriveKey. It is JSON text, so it never contains a raw
// separator byte, and badger's byte-ordered iteration over a table prefix
// yields records in ascending derived-key order. That ordering is the
// pagination contract for Query and Scan.

const keySeparator byte = 0x00

const (
	metaSpace   byte = 'm'
	recordSpace byte = 't'
)

func metaKey(tableName string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(metaSpace)
	buf.WriteByte(keySeparator)
	buf.Write(escapeBytes([]byte(tableName)))
	return buf.Bytes()
}

func metaPrefix() []byte {
	return []byte{metaSpace, keySeparator}
}

func recordKey(tableName, derivedKey string) []byte {
	var buf bytes.Buffer
	buf.Write(tablePrefix(tableName))
	buf.WriteString(derivedKey)
	return buf.Bytes()
}

// tablePrefix covers every record key in one table.
func tablePrefix(tableName string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(recordSpace)
	buf.WriteByte(keySeparator)
	buf.Write(escapeBytes([]byte(tableName)))
	buf.WriteByte(keySeparator)
	return buf.Bytes()
}

// escapeBytes escapes separator bytes (0x00) to preserve key integrity.
// Uses 0x01 0x01 for literal 0x00, and 0x01 0x02 for literal 0x01.
func escapeBytes(b []byte) []byte {
	var buf bytes.Buffer
	for _, c := range b {
		switch c {
		case 0x00:
			buf.WriteByte(0x01)
			buf.WriteByte(0x01)
		case 0x01:
			buf.WriteByte(0x01)
			buf.WriteByte(0x02)
		default:
			buf.WriteByte(c)
		}
	}
	return buf.Bytes()
}

// Record is the persisted tuple behind one (table, derived key) pair.
// CreatedAt is set at first insertion under the key and preserved across
// overwrites; UpdatedAt changes on every write.
type Record struct {
	Item      map[string]types.AttributeValue
	CreatedAt time.Time
	UpdatedAt time.Time
}

// recordEnvelope is the gob-encodable form of a Record.
type recordEnvelope struct {
	Item      map[string]serializableAV
	CreatedAt time.Time
	UpdatedAt time.Time
}

func serializeRecord(rec Record) ([]byte, error) {
	env := recordEnvelope{
		Item:      make(map[string]serializableAV, len(rec.Item)),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	for k, v := range rec.Item {
		av, err := toSerializable(v)
		if err != nil {
			return nil, err
		}
		env.Item[k] = av
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}

func deserializeRecord(data []byte) (Record, error) {
	var env recordEnvelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}

	rec := Record{
		Item:      make(map[string]types.AttributeValue, len(env.Item)),
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
	}
	for k, v := range env.Item {
		rec.Item[k] = fromSerializable(v)
	}
	return rec, nil
}

// serializableAV is a gob-encodable representation of an AttributeValue.
type serializableAV struct {
	Type  string
	Value any
}

func init() {
	gob.Register(map[string]serializableAV{})
	gob.Register([]serializableAV{})
	gob.Register([]string{})
	gob.Register([][]byte{})
}

func toSerializable(av types.AttributeValue) (serializableAV, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return serializableAV{Type: "S", Value: v.Value}, nil
	case *types.AttributeValueMemberN:
		return serializableAV{Type: "N", Value: v.Value}, nil
	case *types.AttributeValueMemberB:
		return serializableAV{Type: "B", Value: v.Value}, nil
	case *types.AttributeValueMemberBOOL:
		return serializableAV{Type: "BOOL", Value: v.Value}, nil
	case *types.AttributeValueMemberNULL:
		return serializableAV{Type: "NULL", Value: v.Value}, nil
	case *types.AttributeValueMemberSS:
		return serializableAV{Type: "SS", Value: v.Value}, nil
	case *types.AttributeValueMemberNS:
		return serializableAV{Type: "NS", Value: v.Value}, nil
	case *types.AttributeValueMemberBS:
		return serializableAV{Type: "BS", Value: v.Value}, nil
	case *types.AttributeValueMemberM:
		m := make(map[string]serializableAV, len(v.Value))
		for k, val := range v.Value {
			sv, err := toSerializable(val)
			if err != nil {
				return serializableAV{}, err
			}
			m[k] = sv
		}
		return serializableAV{Type: "M", Value: m}, nil
	case *types.AttributeValueMemberL:
		l := make([]serializableAV, len(v.Value))
		for i, val := range v.Value {
			sv, err := toSerializable(val)
			if err != nil {
				return serializableAV{}, err
			}
			l[i] = sv
		}
		return serializableAV{Type: "L", Value: l}, nil
	default:
		return serializableAV{}, fmt.Errorf("unsupported attribute value type %T", av)
	}
}

func fromSerializable(sav serializableAV) types.AttributeValue {
	switch sav.Type {
	case "S":
		return &types.AttributeValueMemberS{Value: sav.Value.(string)}
	case "N":
		return &types.AttributeValueMemberN{Value: sav.Value.(string)}
	case "B":
		return &types.AttributeValueMemberB{Value: sav.Value.([]byte)}
	case "BOOL":
		return &types.AttributeValueMemberBOOL{Value: sav.Value.(bool)}
	case "NULL":
		return &types.AttributeValueMemberNULL{Value: sav.Value.(bool)}
	case "SS":
		return &types.AttributeValueMemberSS{Value: sav.Value.([]string)}
	case "NS":
		return &types.AttributeValueMemberNS{Value: sav.Value.([]string)}
	case "BS":
		return &types.AttributeValueMemberBS{Value: sav.Value.([][]byte)}
	case "M":
		m := make(map[string]types.AttributeValue)
		for k, v := range sav.Value.(map[string]serializableAV) {
			m[k] = fromSerializable(v)
		}
		return &types.AttributeValueMemberM{Value: m}
	case "L":
		src := sav.Value.([]serializableAV)
		l := make([]types.AttributeValue, len(src))
		for i, v := range src {
			l[i] = fromSerializable(v)
		}
		return &types.AttributeValueMemberL{Value: l}
	default:
		panic(fmt.Sprintf("unsupported serializable type: %s", sav.Type))
	}
}
