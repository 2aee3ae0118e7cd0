package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "CCO", "CCO", false},
		{"trims surrounding space", "  CCO  ", "CCO", false},
		{"empty", "", "", true},
		{"only whitespace", "   ", "", true},
		{"interior whitespace", "C C", "", true},
		{"unbalanced parens", "C(C", "", true},
		{"unbalanced brackets", "C[NH4", "", true},
		{"balanced bracket atom", "[NH4+]", "[NH4+]", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDescriptor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDescriptor_Equals(t *testing.T) {
	a, err := NewDescriptor("CCO")
	require.NoError(t, err)
	b, err := NewDescriptor(" CCO ")
	require.NoError(t, err)
	c, err := NewDescriptor("CCC")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestDescriptor_IsZero(t *testing.T) {
	var zero Descriptor
	assert.True(t, zero.IsZero())

	d, err := NewDescriptor("CCO")
	require.NoError(t, err)
	assert.False(t, d.IsZero())
}

func TestDescriptor_JSON(t *testing.T) {
	// backslash is a legal SMILES stereo marker and must survive JSON
	d, err := NewDescriptor(`C/C=C\C`)
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var round Descriptor
	require.NoError(t, json.Unmarshal(data, &round))
	assert.True(t, d.Equals(round))
}
