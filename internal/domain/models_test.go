package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRiotID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		region  string
		want    PlayerIdentity
		wantErr error
	}{
		{name: "valid", input: "EMP#2005", region: "americas", want: PlayerIdentity{GameName: "EMP", TagLine: "2005", Region: "americas"}},
		{name: "surrounding whitespace", input: "  EMP#2005 ", region: "europe", want: PlayerIdentity{GameName: "EMP", TagLine: "2005", Region: "europe"}},
		{name: "default region", input: "Faker#KR1", want: PlayerIdentity{GameName: "Faker", TagLine: "KR1", Region: "americas"}},
		{name: "spaces inside name kept", input: "Hide on bush#KR1", want: PlayerIdentity{GameName: "Hide on bush", TagLine: "KR1", Region: "americas"}},
		{name: "no delimiter", input: "EMP2005", wantErr: ErrInvalidRiotID},
		{name: "two delimiters", input: "EMP#20#05", wantErr: ErrInvalidRiotID},
		{name: "empty input", input: "", wantErr: ErrInvalidRiotID},
		{name: "empty name", input: "#2005", wantErr: ErrMissingNameOrTag},
		{name: "empty tag", input: "EMP#", wantErr: ErrMissingNameOrTag},
		{name: "only delimiter", input: "#", wantErr: ErrMissingNameOrTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRiotID(tt.input, tt.region)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.True(t, errors.Is(err, ErrInvalidIdentity))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlayerIdentity_String(t *testing.T) {
	assert.Equal(t, "EMP#2005", PlayerIdentity{GameName: "EMP", TagLine: "2005"}.String())
}

func TestParseRenderConfig(t *testing.T) {
	tests := []struct {
		name      string
		intensity int
		mode      string
		want      RenderConfig
		wantErr   bool
	}{
		{name: "defaults", want: RenderConfig{Intensity: 50, Mode: RenderModeHeatmap}},
		{name: "raw", intensity: 10, mode: "raw", want: RenderConfig{Intensity: 10, Mode: RenderModeRaw}},
		{name: "upper bound", intensity: 100, mode: "HEATMAP", want: RenderConfig{Intensity: 100, Mode: RenderModeHeatmap}},
		{name: "too low", intensity: 9, wantErr: true},
		{name: "too high", intensity: 101, wantErr: true},
		{name: "unknown mode", mode: "contour", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRenderConfig(tt.intensity, tt.mode)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRenderConf)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
