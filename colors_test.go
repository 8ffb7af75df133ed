package complog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLevelColors(t *testing.T) {
	colors := DefaultLevelColors()

	assert.Equal(t, map[Level]string{
		VerboseLevel: White,
		DebugLevel:   Blue,
		InfoLevel:    Green,
		WarnLevel:    BoldYellow,
		ErrorLevel:   BoldRed,
	}, colors)
	assert.NotContains(t, colors, OffLevel)

	colors[InfoLevel] = Cyan
	assert.Equal(t, Green, DefaultLevelColors()[InfoLevel], "each call returns a fresh map")
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "red", want: Red},
		{name: " Cyan ", want: Cyan},
		{name: "bold_yellow", want: BoldYellow},
		{name: "Bold-Red", want: BoldRed},
		{name: "bold white", want: BoldWhite},
		{name: "BOLDBLUE", want: BoldBlue},
		{name: "orange", wantErr: true},
		{name: "bold", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidColor)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
