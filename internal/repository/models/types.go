package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// StringSlice stores a []string column as a JSON array string.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	return scanJSON(value, s, func() { *s = StringSlice{} })
}

// JSONMap stores a map[string]any column as a JSON object string.
type JSONMap map[string]any

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	return scanJSON(value, m, func() { *m = JSONMap{} })
}

// ResponseSheet stores the per-question result rows as a JSON array string.
type ResponseSheet []ResponseSheetEntry

// ResponseSheetEntry mirrors domain.ResponseEntry at the storage boundary.
type ResponseSheetEntry struct {
	QuestionID    string   `json:"question_id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	UserAnswer    *string  `json:"user_answer"`
	IsCorrect     bool     `json:"is_correct"`
	Marks         int      `json:"marks"`
	ScoredMarks   int      `json:"scored_marks"`
}

// Value implements the driver.Valuer interface
func (r ResponseSheet) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (r *ResponseSheet) Scan(value interface{}) error {
	return scanJSON(value, r, func() { *r = ResponseSheet{} })
}

// scanJSON decodes a JSON column that may arrive as []byte or string.
// NULL, empty and literal "null" values reset dst to its empty form.
func scanJSON(value interface{}, dst any, reset func()) error {
	if value == nil {
		reset()
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("json column scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		reset()
		return nil
	}
	return json.Unmarshal(bytesToParse, dst)
}
