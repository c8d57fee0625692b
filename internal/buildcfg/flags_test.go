package buildcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []Flag
		wantErr  bool
	}{
		{
			name:     "empty",
			input:    nil,
			expected: []Flag{},
		},
		{
			name:     "single flag",
			input:    []string{"scss"},
			expected: []Flag{FlagSass},
		},
		{
			name:     "canonical ordering regardless of input order",
			input:    []string{"react", "ts", "scss"},
			expected: []Flag{FlagSass, FlagTypeScript, FlagReact},
		},
		{
			name:     "duplicates collapse",
			input:    []string{"scss", "scss"},
			expected: []Flag{FlagSass},
		},
		{
			name:    "unknown flag rejected",
			input:   []string{"scss", "less"},
			wantErr: true,
		},
		{
			name:    "typo rejected",
			input:   []string{"tailwnd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseFlags(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var invalid *InvalidFlagError
				require.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, set.List())
		})
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeDevelopment, mode)

	mode, err = ParseMode("production")
	require.NoError(t, err)
	assert.Equal(t, ModeProduction, mode)

	_, err = ParseMode("staging")
	require.Error(t, err)
}

func TestFlagSet_Has(t *testing.T) {
	set := NewFlagSet(FlagSass, FlagReact)
	assert.True(t, set.Has(FlagSass))
	assert.True(t, set.Has(FlagReact))
	assert.False(t, set.Has(FlagTailwind))
	assert.Equal(t, 2, set.Len())
}

func TestFlagSet_ZeroValue(t *testing.T) {
	var set FlagSet
	assert.False(t, set.Has(FlagSass))
	assert.Empty(t, set.List())
}
