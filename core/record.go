package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// fieldAliases maps older record field names onto the canonical schema.
// Both the legacy archive file and the live catalog still emit these.
var fieldAliases = map[string]string{
	"id":             "id_programa",
	"codigo_carrera": "cod_carrera",
	"firma_dto":      "firma_depto",
}

// ProgramFromRaw normalizes a raw JSON record into a Program: alias keys
// folded (canonical keys win), scalar values stringified, unknown keys
// dropped silently.
func ProgramFromRaw(raw map[string]any) (*Program, error) {
	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		if _, isAlias := fieldAliases[key]; isAlias {
			continue
		}
		if s := StringifyScalar(value); s != "" {
			fields[key] = s
		}
	}
	for key, canonical := range fieldAliases {
		value, present := raw[key]
		if !present {
			continue
		}
		if _, taken := fields[canonical]; taken {
			continue
		}
		if s := StringifyScalar(value); s != "" {
			fields[canonical] = s
		}
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("normalizing record: %w", err)
	}
	var p Program
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("normalizing record: %w", err)
	}
	return &p, nil
}

// StringifyScalar flattens the scalar JSON types found in records. Numeric
// ids and years arrive as numbers; everything downstream treats them as text.
// Non-scalar values flatten to the empty string.
func StringifyScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
