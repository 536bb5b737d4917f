package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSliceValue(t *testing.T) {
	v, err := StringSlice{"a", "b"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, v)

	v, err = StringSlice(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestStringSliceScan(t *testing.T) {
	var s StringSlice
	require.NoError(t, s.Scan([]byte(`["x","y"]`)))
	assert.Equal(t, StringSlice{"x", "y"}, s)

	require.NoError(t, s.Scan("null"))
	assert.Empty(t, s)

	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)

	assert.Error(t, s.Scan(42))
}

func TestJSONMapRoundTrip(t *testing.T) {
	m := JSONMap{"q1": float64(1)}
	v, err := m.Value()
	require.NoError(t, err)

	var out JSONMap
	require.NoError(t, out.Scan(v))
	assert.Equal(t, m, out)
}

func TestJSONMapScanEmpty(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan(""))
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestResponseSheetRoundTrip(t *testing.T) {
	answer := "2"
	sheet := ResponseSheet{{
		QuestionID:    "q1",
		QuestionText:  "1+1?",
		Options:       []string{"1", "2"},
		CorrectAnswer: "2",
		UserAnswer:    &answer,
		IsCorrect:     true,
		Marks:         1,
		ScoredMarks:   1,
	}}

	v, err := sheet.Value()
	require.NoError(t, err)

	var out ResponseSheet
	require.NoError(t, out.Scan(v))
	assert.Equal(t, sheet, out)
}
