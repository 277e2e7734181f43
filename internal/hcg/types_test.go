package hcg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c-daly/logos-sub004/internal/types"
)

func TestEdgeType_Validate(t *testing.T) {
	tests := []struct {
		name    string
		et      EdgeType
		wantErr bool
	}{
		{"causes", EdgeCauses, false},
		{"precedes", EdgePrecedes, false},
		{"is_a", EdgeIsA, false},
		{"requires", EdgeRequires, false},
		{"custom upper", EdgeType("DERIVED_FROM_2"), false},
		{"empty", EdgeType(""), true},
		{"lowercase", EdgeType("causes"), true},
		{"hyphen", EdgeType("IS-A"), true},
		{"leading digit", EdgeType("2CAUSES"), true},
		{"leading underscore", EdgeType("_CAUSES"), true},
		{"injection attempt", EdgeType("X]->(n) DETACH DELETE n //"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.et.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNode_Validate(t *testing.T) {
	valid := Node{
		UUID:      types.NewID(),
		Name:      "disk_full",
		Type:      "State",
		RootType:  "State",
		CreatedAt: time.Now(),
	}
	assert.NoError(t, valid.Validate())

	noUUID := valid
	noUUID.UUID = ""
	assert.Error(t, noUUID.Validate())

	noType := valid
	noType.Type = ""
	assert.Error(t, noType.Validate())
}

func TestValidatePropertyBag(t *testing.T) {
	tests := []struct {
		name    string
		props   map[string]any
		wantErr bool
	}{
		{"nil bag", nil, false},
		{
			"scalars",
			map[string]any{"s": "str", "i": 42, "f": 3.14, "b": true, "n": nil},
			false,
		},
		{
			"nested map and list",
			map[string]any{
				"meta": map[string]any{"severity": "high", "score": 9.1},
				"tags": []any{"disk", "io", 3},
			},
			false,
		},
		{"typed slices", map[string]any{"names": []string{"a", "b"}, "counts": []int{1, 2}}, false},
		{"function value", map[string]any{"fn": func() {}}, true},
		{"channel value", map[string]any{"ch": make(chan int)}, true},
		{
			"bad value nested in list",
			map[string]any{"items": []any{"ok", struct{}{}}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePropertyBag(tt.props)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, ErrCodeInvalidProperty, types.CodeOf(err))
		})
	}
}

func TestNode_GetProperty(t *testing.T) {
	node := Node{Properties: map[string]any{"host": "db-1", "port": 5432}}

	assert.Equal(t, "db-1", node.GetStringProperty("host"))
	assert.Equal(t, "", node.GetStringProperty("port"), "non-string property reads as empty")
	assert.Equal(t, "", node.GetStringProperty("missing"))
	assert.Equal(t, 5432, node.GetProperty("port"))
	assert.Nil(t, node.GetProperty("missing"))
}
