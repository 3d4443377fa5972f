package main

import (
	"os"
	"path/filepath"
	"testing"

	"weather-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locations.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expected    []models.Location
		expectError bool
	}{
		{
			name:    "valid rows",
			content: "name,lat,lon\nParis, 48.85, 2.35\nOslo,59.91,10.75\n",
			expected: []models.Location{
				{Name: "Paris", Lat: "48.85", Lon: "2.35"},
				{Name: "Oslo", Lat: "59.91", Lon: "10.75"},
			},
		},
		{
			name:    "later duplicate wins",
			content: "name,lat,lon\nParis,48,2\nOslo,59.91,10.75\nParis,48.85,2.35\n",
			expected: []models.Location{
				{Name: "Paris", Lat: "48.85", Lon: "2.35"},
				{Name: "Oslo", Lat: "59.91", Lon: "10.75"},
			},
		},
		{
			name:        "coordinate out of range",
			content:     "name,lat,lon\nNowhere,95,0\n",
			expectError: true,
		},
		{
			name:        "wrong column count",
			content:     "name,lat,lon\nParis,48.85\n",
			expectError: true,
		},
		{
			name:        "empty file",
			content:     "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := parseCSV(writeCSV(t, tt.content))

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, records)
		})
	}
}
