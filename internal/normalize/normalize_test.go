package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 37.5665, 37.5665, true},
		{"int", 3, 3, true},
		{"json number", json.Number("12.5"), 12.5, true},
		{"numeric string", " 126.978 ", 126.978, true},
		{"empty string", "", 0, false},
		{"garbage", "abc", 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Number(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStrictNumberRejectsStrings(t *testing.T) {
	_, ok := StrictNumber("0.4")
	assert.False(t, ok)

	f, ok := StrictNumber(0.4)
	assert.True(t, ok)
	assert.Equal(t, 0.4, f)
}

func TestCoordinate(t *testing.T) {
	require.NotNil(t, Coordinate(37.5))
	assert.Equal(t, 37.5, *Coordinate(37.5))
	assert.Nil(t, Coordinate("north"))
	assert.Nil(t, Coordinate(nil))
}

func TestCount(t *testing.T) {
	assert.Equal(t, 3, Count(3.0))
	assert.Equal(t, 4, Count("4"))
	assert.Equal(t, 2, Count(2.9))
	assert.Equal(t, 0, Count(-5))
	assert.Equal(t, 0, Count("many"))
	assert.Equal(t, 0, Count(nil))

	_, ok := CountOK("many")
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	assert.Equal(t, "2010", Text(2010.0))
	assert.Equal(t, "12.5", Text(12.5))
	assert.Equal(t, "hello", Text("hello"))
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "", Text(map[string]any{}))

	_, ok := TextOK(map[string]any{})
	assert.False(t, ok)
}

func TestUpper(t *testing.T) {
	assert.Equal(t, "DONE", Upper(" done "))
	assert.Equal(t, "", Upper(nil))
}

func TestFirstPresent(t *testing.T) {
	m := map[string]any{"a": nil, "b": "x", "c": "y"}

	v, ok := FirstPresent(m, "a", "b", "c")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = FirstPresent(m, "missing")
	assert.False(t, ok)
}

func TestStringList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, StringList([]any{"a", "", "b", nil}))
	assert.Equal(t, []string{}, StringList("not a list"))
	assert.NotNil(t, StringList(nil))
}
