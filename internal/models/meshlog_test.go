package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in    string
		want  Region
		known bool
	}{
		{"americas", RegionAmericas, true},
		{"europe", RegionEurope, true},
		{"asia-pacific", RegionAsiaPacific, true},
		{" Europe ", RegionEurope, true},
		{"", DefaultRegion, false},
		{"mars", DefaultRegion, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, known := ParseRegion(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}
