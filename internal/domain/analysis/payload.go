package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is the closed set of payload field shapes: Scalar, ScalarList or RecordList.
type Value interface {
	isValue()
}

// Scalar is a single display string.
type Scalar string

// ScalarList is an ordered list of display strings.
type ScalarList []string

// Entry is one key/value pair of a Record.
type Entry struct {
	Key   string
	Value string
}

// Record is an ordered mapping from field name to scalar value.
type Record []Entry

// RecordList is an ordered list of records.
type RecordList []Record

func (Scalar) isValue()     {}
func (ScalarList) isValue() {}
func (RecordList) isValue() {}

// Field is one named payload value.
type Field struct {
	Name  string
	Value Value
}

// Payload is an ordered set of fields. Field order is preserved through JSON.
type Payload []Field

// Get returns the first field with the given name.
func (p Payload) Get(name string) (Value, bool) {
	for _, f := range p {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Clone deep-copies the payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for i, f := range p {
		out[i] = Field{Name: f.Name, Value: cloneValue(f.Value)}
	}
	return out
}

func cloneValue(v Value) Value {
	switch t := v.(type) {
	case ScalarList:
		return append(ScalarList{}, t...)
	case RecordList:
		out := make(RecordList, len(t))
		for i, r := range t {
			out[i] = append(Record{}, r...)
		}
		return out
	default:
		return v
	}
}

// Get returns the value for key.
func (r Record) Get(key string) (string, bool) {
	for _, e := range r {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKeyValue(&buf, e.Key, e.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	rec, ok := decodeRecord(data)
	if !ok {
		return fmt.Errorf("record: expected JSON object")
	}
	*r = rec
	return nil
}

// MarshalJSON writes the payload as a JSON object in field order. Fields whose
// value is outside the closed union are left out.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	for _, f := range p {
		var v any
		switch t := f.Value.(type) {
		case Scalar:
			v = string(t)
		case ScalarList:
			if t == nil {
				t = ScalarList{}
			}
			v = []string(t)
		case RecordList:
			if t == nil {
				t = RecordList{}
			}
			v = []Record(t)
		default:
			continue
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		if err := writeKeyValue(&buf, f.Name, v); err != nil {
			return nil, err
		}
		n++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps field order and silently drops shapes outside the union
// (numbers, booleans, null, nested arrays, mixed arrays, bare objects).
func (p *Payload) UnmarshalJSON(data []byte) error {
	pairs, err := decodeObject(data)
	if err != nil {
		return err
	}
	out := make(Payload, 0, len(pairs))
	for _, pr := range pairs {
		if v, ok := decodeValue(pr.raw); ok {
			out = append(out, Field{Name: pr.key, Value: v})
		}
	}
	*p = out
	return nil
}

func writeKeyValue(buf *bytes.Buffer, key string, v any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}

type rawPair struct {
	key string
	raw json.RawMessage
}

func decodeObject(data []byte) ([]rawPair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("payload: expected JSON object")
	}
	var out []rawPair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("payload: expected object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, rawPair{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeValue(raw json.RawMessage) (Value, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, false
		}
		return Scalar(s), true
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, false
		}
		return decodeList(items)
	default:
		return nil, false
	}
}

func decodeList(items []json.RawMessage) (Value, bool) {
	if len(items) == 0 {
		return ScalarList{}, true
	}
	switch firstByte(items[0]) {
	case '"':
		out := make(ScalarList, 0, len(items))
		for _, it := range items {
			var s string
			if firstByte(it) != '"' || json.Unmarshal(it, &s) != nil {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case '{':
		out := make(RecordList, 0, len(items))
		for _, it := range items {
			rec, ok := decodeRecord(it)
			if !ok {
				return nil, false
			}
			out = append(out, rec)
		}
		return out, true
	default:
		return nil, false
	}
}

func decodeRecord(raw []byte) (Record, bool) {
	if firstByte(raw) != '{' {
		return nil, false
	}
	pairs, err := decodeObject(raw)
	if err != nil {
		return nil, false
	}
	rec := make(Record, 0, len(pairs))
	for _, pr := range pairs {
		if s, ok := scalarText(pr.raw); ok {
			rec = append(rec, Entry{Key: pr.key, Value: s})
		}
	}
	return rec, true
}

// scalarText renders strings, numbers and booleans; null and containers are dropped.
func scalarText(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}
	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case c == '-' || (c >= '0' && c <= '9'):
		return string(trimmed), true
	case bytes.Equal(trimmed, []byte("true")), bytes.Equal(trimmed, []byte("false")):
		return string(trimmed), true
	default:
		return "", false
	}
}

func firstByte(raw []byte) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
