package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// KeyedValue is one entry of an ordered aggregate.
type KeyedValue struct {
	Key   string
	Value float64
}

// KeyedValues is an ordered map of aggregates. It marshals to a JSON/YAML
// object whose keys keep slice order.
type KeyedValues []KeyedValue

// Get returns the value stored under key.
func (kv KeyedValues) Get(key string) (float64, bool) {
	for _, e := range kv {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// Keys returns the keys in order.
func (kv KeyedValues) Keys() []string {
	keys := make([]string, len(kv))
	for i, e := range kv {
		keys[i] = e.Key
	}
	return keys
}

// Sum adds up all values.
func (kv KeyedValues) Sum() float64 {
	var total float64
	for _, e := range kv {
		total += e.Value
	}
	return total
}

func (kv KeyedValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range kv {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (kv *KeyedValues) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	start, err := dec.Token()
	if err != nil {
		return err
	}
	if start == nil {
		return nil
	}
	if start != json.Delim('{') {
		return fmt.Errorf("keyed values: expected object, got %v", start)
	}
	out := KeyedValues{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("keyed values: expected key, got %v", tok)
		}
		var v float64
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out = append(out, KeyedValue{Key: key, Value: v})
	}
	*kv = out
	return nil
}

func (kv KeyedValues) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range kv {
		var val yaml.Node
		if err := val.Encode(e.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&val,
		)
	}
	return node, nil
}

// KeyedCounts is the integer counterpart of KeyedValues.
type KeyedCounts []KeyedCount

// KeyedCount is one entry of an ordered count map.
type KeyedCount struct {
	Key   string
	Count int
}

// Get returns the count stored under key.
func (kc KeyedCounts) Get(key string) (int, bool) {
	for _, e := range kc {
		if e.Key == key {
			return e.Count, true
		}
	}
	return 0, false
}

// Total adds up all counts.
func (kc KeyedCounts) Total() int {
	var total int
	for _, e := range kc {
		total += e.Count
	}
	return total
}

func (kc KeyedCounts) MarshalJSON() ([]byte, error) {
	kv := make(KeyedValues, 0, len(kc))
	for _, e := range kc {
		kv = append(kv, KeyedValue{Key: e.Key, Value: float64(e.Count)})
	}
	return kv.MarshalJSON()
}

func (kc *KeyedCounts) UnmarshalJSON(data []byte) error {
	var kv KeyedValues
	if err := kv.UnmarshalJSON(data); err != nil {
		return err
	}
	out := make(KeyedCounts, 0, len(kv))
	for _, e := range kv {
		out = append(out, KeyedCount{Key: e.Key, Count: int(e.Value)})
	}
	*kc = out
	return nil
}

func (kc KeyedCounts) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range kc {
		var val yaml.Node
		if err := val.Encode(e.Count); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&val,
		)
	}
	return node, nil
}
