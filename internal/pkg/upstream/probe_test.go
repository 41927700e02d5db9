package upstream

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseBool(t *testing.T) {
	var payload struct {
		HasMore looseBool `json:"has_more"`
	}

	for _, raw := range []string{`{"has_more":true}`, `{"has_more":1}`, `{"has_more":"1"}`} {
		payload.HasMore = false
		require.NoError(t, json.Unmarshal([]byte(raw), &payload))
		assert.True(t, bool(payload.HasMore), raw)
	}

	for _, raw := range []string{`{"has_more":false}`, `{"has_more":0}`, `{"has_more":null}`} {
		payload.HasMore = true
		require.NoError(t, json.Unmarshal([]byte(raw), &payload))
		assert.False(t, bool(payload.HasMore), raw)
	}
}

func TestLooseString(t *testing.T) {
	var payload struct {
		Cursor looseString `json:"cursor"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"cursor":"abc"}`), &payload))
	assert.Equal(t, "abc", payload.Cursor.String())

	require.NoError(t, json.Unmarshal([]byte(`{"cursor":1700000}`), &payload))
	assert.Equal(t, "1700000", payload.Cursor.String())

	require.NoError(t, json.Unmarshal([]byte(`{"cursor":null}`), &payload))
	assert.Equal(t, "", payload.Cursor.String())
}

func TestFirstStringAndFirstInt64(t *testing.T) {
	assert.Equal(t, "b", firstString("", "b", "c"))
	assert.Equal(t, "", firstString("", ""))
	assert.Equal(t, int64(2), firstInt64(0, 2, 3))
	assert.Equal(t, int64(0), firstInt64(0, 0))
}
