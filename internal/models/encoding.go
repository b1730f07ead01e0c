package models

import (
	"database/sql/driver"
	"encoding/json"
	"sort"
)

// Collection fields are stored as JSON text in a single column. The typed
// values below are decoded on Scan and encoded on Value, so entities never
// hold raw text. Reads are lenient: NULL, empty or malformed text decodes to
// an empty collection.

// StringList backs dietary_preferences, ingredients and tags.
type StringList []string

// IDList backs offered_recipe_ids.
type IDList []uint

// NutritionInfo backs nutritional_info, e.g. {"protein": "12g", "fat": 3.5}.
type NutritionInfo map[string]any

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	return EncodeStringList("string_list", l)
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	*l = DecodeStringList(rawText(value))
	return nil
}

func (l IDList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]uint(l))
	if err != nil {
		return nil, &EncodingError{Field: "offered_recipe_ids", Err: err}
	}
	return string(data), nil
}

func (l *IDList) Scan(value interface{}) error {
	*l = DecodeIDList(rawText(value))
	return nil
}

func (n NutritionInfo) Value() (driver.Value, error) {
	return EncodeNutritionInfo(n)
}

func (n *NutritionInfo) Scan(value interface{}) error {
	*n = DecodeNutritionInfo(rawText(value))
	return nil
}

// EncodeStringList serializes a list; field names the column for errors.
func EncodeStringList(field string, l []string) (string, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return "", &EncodingError{Field: field, Err: err}
	}
	return string(data), nil
}

func DecodeStringList(raw string) StringList {
	out := StringList{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return StringList{}
	}
	return out
}

func DecodeIDList(raw string) IDList {
	out := IDList{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return IDList{}
	}
	return out
}

// EncodeNutritionInfo fails with an EncodingError for values JSON cannot
// represent, such as NaN or channels.
func EncodeNutritionInfo(n map[string]any) (string, error) {
	if len(n) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(n)
	if err != nil {
		return "", &EncodingError{Field: "nutritional_info", Err: err}
	}
	return string(data), nil
}

func DecodeNutritionInfo(raw string) NutritionInfo {
	out := NutritionInfo{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return NutritionInfo{}
	}
	return out
}

// MarshalJSON keeps nil collections rendering as [] and {} in views.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l IDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]uint(l))
}

func (n NutritionInfo) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(n))
}

func rawText(value interface{}) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
