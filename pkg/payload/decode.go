package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Format names the textual encoding of a payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrNotObject is returned when a payload parses but is not a mapping.
var ErrNotObject = errors.New("payload: document is not an object")

// Decode parses raw as JSON, falling back to YAML. The result only holds
// JSON types; numbers are json.Number carrying the literal from the source,
// so "0.910" and 20-digit integers survive conversion to decimal strings.
func Decode(raw []byte) (map[string]any, Format, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, "", errors.New("payload: document is empty")
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		out, err := DecodeJSON(trimmed)
		if err != nil {
			return nil, FormatJSON, err
		}
		obj, ok := out.(map[string]any)
		if !ok {
			return nil, FormatJSON, ErrNotObject
		}
		return obj, FormatJSON, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(trimmed, &root); err != nil {
		return nil, FormatYAML, fmt.Errorf("payload: decode yaml: %w", err)
	}
	out, err := fromYAML(&root)
	if err != nil {
		return nil, FormatYAML, fmt.Errorf("payload: decode yaml: %w", err)
	}
	obj, ok := out.(map[string]any)
	if !ok {
		return nil, FormatYAML, ErrNotObject
	}
	return obj, FormatYAML, nil
}

// DecodeJSON decodes a single JSON value with numbers kept as json.Number.
func DecodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("payload: decode json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("payload: decode json: trailing data after document")
	}
	return out, nil
}

// ToJSON returns raw as JSON bytes, converting YAML when needed.
func ToJSON(raw []byte) ([]byte, error) {
	obj, format, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return bytes.TrimSpace(raw), nil
	}
	return json.Marshal(obj)
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := fromYAML(child)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return mappingFromYAML(n)
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported node", n.Line)
	}
}

// mappingFromYAML honours "<<" merge keys: merged entries never override
// keys written in the mapping itself.
func mappingFromYAML(n *yaml.Node) (map[string]any, error) {
	out := make(map[string]any, len(n.Content)/2)
	var merged []map[string]any
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
		}
		v, err := fromYAML(value)
		if err != nil {
			return nil, err
		}
		if key.ShortTag() == "!!merge" {
			switch m := v.(type) {
			case map[string]any:
				merged = append(merged, m)
			case []any:
				for _, item := range m {
					if sub, ok := item.(map[string]any); ok {
						merged = append(merged, sub)
					}
				}
			}
			continue
		}
		out[key.Value] = v
	}
	for _, m := range merged {
		for k, v := range m {
			if _, taken := out[k]; !taken {
				out[k] = v
			}
		}
	}
	return out, nil
}

func scalarFromYAML(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int", "!!float":
		if json.Valid([]byte(n.Value)) {
			return json.Number(n.Value), nil
		}
		// YAML-only spellings such as 0x1F, 1_000 or .5.
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("line %d: %s has no JSON representation", n.Line, n.Value)
		}
		return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), nil
	default:
		return n.Value, nil
	}
}
