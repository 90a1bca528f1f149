// Package valueobject holds small value types shared by entities and
// repositories.
package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrScanValueNotBytes = errors.New("valueobject: jsonmap scan value is not []byte")

// JSONMap is a JSON object stored in a jsonb column.
type JSONMap map[string]any

// Value encodes nil as an empty object so the column stays NOT NULL friendly.
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value any) error {
	var raw []byte

	switch v := value.(type) {
	case nil:
		*j = JSONMap{}
		return nil
	case map[string]any:
		*j = JSONMap(v)
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return ErrScanValueNotBytes
	}

	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*j = out
	return nil
}

func (j JSONMap) Set(key string, value any) {
	j[key] = value
}

func (j JSONMap) SetIfAbsent(key string, value any) {
	if _, ok := j[key]; !ok {
		j[key] = value
	}
}

// GetString returns the value formatted as a string, "" when absent.
func (j JSONMap) GetString(key string) string {
	switch v := j[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// StringMap flattens values to strings; used for template parameters.
func (j JSONMap) StringMap() map[string]string {
	out := make(map[string]string, len(j))
	for k := range j {
		out[k] = j.GetString(k)
	}
	return out
}

// FromStrings builds a JSONMap from template parameters.
func FromStrings(m map[string]string) JSONMap {
	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
