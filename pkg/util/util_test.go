package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("  \t"))
	assert.False(t, IsEmpty(" a "))
}

func TestRecast(t *testing.T) {
	type station struct {
		ID   string `json:"id"`
		Name string `json:"stationName"`
	}

	var out station
	require.NoError(t, Recast(map[string]any{"id": "42", "stationName": "Home", "extra": 1}, &out))
	assert.Equal(t, station{ID: "42", Name: "Home"}, out)

	require.NoError(t, Recast([]byte(`{"id":"7"}`), &out))
	assert.Equal(t, "7", out.ID)
}

func TestFprintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FprintJSON(&buf, []map[string]any{{"stationName": "Home"}}))
	assert.Contains(t, buf.String(), "stationName")
	assert.Contains(t, buf.String(), "Home")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "***", MaskSecret("abc"))
	assert.Equal(t, "abcd****", MaskSecret("abcdefgh"))
}
