package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID()

	require.NoError(t, id.Validate())
	assert.False(t, id.IsZero())
	assert.NotEqual(t, id, NewID(), "consecutive IDs should differ")
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid uuid", "550e8400-e29b-41d4-a716-446655440000", false},
		{"empty string", "", true},
		{"not a uuid", "not-a-uuid", true},
		{"truncated", "550e8400-e29b-41d4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestID_JSON(t *testing.T) {
	id := NewID()

	data, err := json.Marshal(id)
	require.NoError(t, err)

	var parsed ID
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, id, parsed)

	var zero ID
	data, err = json.Marshal(zero)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`"not-a-uuid"`), &bad))
}
