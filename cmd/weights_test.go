package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/skillmatch/internal/employability"
)

func TestParseWeight(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "0", want: 0},
		{raw: "45", want: 45},
		{raw: "100", want: 100},
		{raw: "101", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "ten", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseWeight(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetWeight(t *testing.T) {
	defaults := employability.DefaultFactors()

	updated, err := setWeight(defaults, "market_demand", 40)
	require.NoError(t, err)

	f, ok := employability.Find(updated, "market_demand")
	require.True(t, ok)
	assert.Equal(t, 40, f.Weight)
	assert.Equal(t, 70, f.Score)

	original, _ := employability.Find(defaults, "market_demand")
	assert.Equal(t, 10, original.Weight)

	_, err = setWeight(defaults, "unknown", 40)
	require.Error(t, err)
}
