package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProjectStatistics(t *testing.T) {
	h := History{
		"2024-01-08": {Seconds: 100},
		"2024-01-09": {Seconds: 200},
		"2024-01-10": {Seconds: 50},
		"2024-01-03": {Seconds: 25},
	}

	stats := BuildProjectStatistics("My Project", h, "2024-01-10")

	assert.Equal(t, "My Project", stats.ProjectName)
	assert.Equal(t, 375.0, stats.TotalSeconds)
	assert.Equal(t, 4, stats.ActiveDays)
	assert.Equal(t, 3, stats.Streak)
	require.Len(t, stats.Days, 4)
	assert.Equal(t, 200.0, stats.Days["2024-01-09"])
}

func TestBuildProjectStatistics_Empty(t *testing.T) {
	stats := BuildProjectStatistics("p", History{}, "2024-01-10")
	assert.Equal(t, 0.0, stats.TotalSeconds)
	assert.Equal(t, 0, stats.ActiveDays)
	assert.Equal(t, 0, stats.Streak)
	assert.Empty(t, stats.Days)
}
