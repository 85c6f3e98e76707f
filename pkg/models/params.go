package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParamValue is a closed union over the value shapes a node parameter may
// hold: string, number, boolean, list, nested map, or null. The graph core
// treats parameter bags as opaque apart from copying and patching; schema
// validation happens at the registry boundary.
type ParamValue interface {
	Clone() ParamValue

	paramValue()
}

type (
	// StringValue is a string parameter.
	StringValue string
	// NumberValue is a numeric parameter, stored as float64.
	NumberValue float64
	// BoolValue is a boolean parameter.
	BoolValue bool
	// ListValue is an ordered list of parameter values.
	ListValue []ParamValue
	// MapValue is a nested parameter object.
	MapValue map[string]ParamValue
	// NullValue preserves explicit JSON nulls across round-trips.
	NullValue struct{}
)

func (StringValue) paramValue() {}
func (NumberValue) paramValue() {}
func (BoolValue) paramValue()   {}
func (ListValue) paramValue()   {}
func (MapValue) paramValue()    {}
func (NullValue) paramValue()   {}

func (v StringValue) Clone() ParamValue { return v }
func (v NumberValue) Clone() ParamValue { return v }
func (v BoolValue) Clone() ParamValue   { return v }
func (NullValue) Clone() ParamValue     { return NullValue{} }

func (v ListValue) Clone() ParamValue {
	cloned := make(ListValue, 0, len(v))
	for _, item := range v {
		cloned = append(cloned, cloneValue(item))
	}

	return cloned
}

func (v MapValue) Clone() ParamValue {
	cloned := make(MapValue, len(v))
	for key, item := range v {
		cloned[key] = cloneValue(item)
	}

	return cloned
}

func cloneValue(v ParamValue) ParamValue {
	if v == nil {
		return nil
	}

	return v.Clone()
}

func (NullValue) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Parameters is a node's parameter bag: parameter name to value.
type Parameters map[string]ParamValue

// Clone deep-copies the parameter bag.
func (p Parameters) Clone() Parameters {
	if p == nil {
		return nil
	}

	cloned := make(Parameters, len(p))
	for key, value := range p {
		cloned[key] = cloneValue(value)
	}

	return cloned
}

// Merge returns a new bag with entries from patch layered over p. Neither
// input is modified.
func (p Parameters) Merge(patch Parameters) Parameters {
	merged := p.Clone()
	if merged == nil {
		merged = make(Parameters, len(patch))
	}

	for key, value := range patch {
		merged[key] = cloneValue(value)
	}

	return merged
}

// AsAny converts the bag to plain Go values for callers that need untyped
// JSON documents (schema validators, templating).
func (p Parameters) AsAny() map[string]any {
	out := make(map[string]any, len(p))
	for key, value := range p {
		out[key] = valueAsAny(value)
	}

	return out
}

func valueAsAny(v ParamValue) any {
	switch value := v.(type) {
	case StringValue:
		return string(value)
	case NumberValue:
		return float64(value)
	case BoolValue:
		return bool(value)
	case ListValue:
		items := make([]any, 0, len(value))
		for _, item := range value {
			items = append(items, valueAsAny(item))
		}

		return items
	case MapValue:
		items := make(map[string]any, len(value))
		for key, item := range value {
			items[key] = valueAsAny(item)
		}

		return items
	default:
		return nil
	}
}

func (p *Parameters) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil

		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parameters must be a JSON object: %w", err)
	}

	params := make(Parameters, len(raw))

	for key, value := range raw {
		decoded, err := unmarshalValue(value)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", key, err)
		}

		params[key] = decoded
	}

	*p = params

	return nil
}

func unmarshalValue(data json.RawMessage) (ParamValue, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty parameter value")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}

		return StringValue(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil, err
		}

		return BoolValue(b), nil
	case 'n':
		return NullValue{}, nil
	case '[':
		var rawItems []json.RawMessage
		if err := json.Unmarshal(trimmed, &rawItems); err != nil {
			return nil, err
		}

		list := make(ListValue, 0, len(rawItems))

		for _, rawItem := range rawItems {
			item, err := unmarshalValue(rawItem)
			if err != nil {
				return nil, err
			}

			list = append(list, item)
		}

		return list, nil
	case '{':
		var rawItems map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &rawItems); err != nil {
			return nil, err
		}

		nested := make(MapValue, len(rawItems))

		for key, rawItem := range rawItems {
			item, err := unmarshalValue(rawItem)
			if err != nil {
				return nil, err
			}

			nested[key] = item
		}

		return nested, nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return nil, err
		}

		return NumberValue(n), nil
	}
}
