package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClimateReadingUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected ClimateReading
	}{
		{
			name: "numbers",
			body: `{"temperature": 72, "humidity": 45, "last_datetime": "2024-01-01T12:00:00Z"}`,
			expected: ClimateReading{
				Temperature:  "72",
				Humidity:     "45",
				LastDatetime: "2024-01-01T12:00:00Z",
			},
		},
		{
			name: "numbers display in shortest form",
			body: `{"temperature": 21.50, "humidity": -0.5e1, "last_datetime": 1e2}`,
			expected: ClimateReading{
				Temperature:  "21.5",
				Humidity:     "-5",
				LastDatetime: "100",
			},
		},
		{
			name: "text values",
			body: `{"temperature": "22.1 °C", "humidity": "40%", "last_datetime": "2024-06-01 08:30"}`,
			expected: ClimateReading{
				Temperature:  "22.1 °C",
				Humidity:     "40%",
				LastDatetime: "2024-06-01 08:30",
			},
		},
		{
			name: "null and missing fields",
			body: `{"temperature": null}`,
			expected: ClimateReading{},
		},
		{
			name: "nested values are compacted",
			body: `{"temperature": {"c": 20,  "f": 68}, "humidity": [1, 2], "last_datetime": true}`,
			expected: ClimateReading{
				Temperature:  `{"c":20,"f":68}`,
				Humidity:     `[1,2]`,
				LastDatetime: "true",
			},
		},
		{
			name: "unknown fields are ignored",
			body: `{"temperature": 1, "humidity": 2, "last_datetime": "t", "pressure": 1013}`,
			expected: ClimateReading{
				Temperature:  "1",
				Humidity:     "2",
				LastDatetime: "t",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ClimateReading
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClimateReadingUnmarshalInvalid(t *testing.T) {
	var got ClimateReading
	assert.Error(t, json.Unmarshal([]byte("not json"), &got))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"72", "72"},
		{"72.0", "72"},
		{"-0", "0"},
		{"0.1", "0.1"},
		{"0.000001", "0.000001"},
		{"0.0000001", "1e-7"},
		{"123456789012345680000", "123456789012345680000"},
		{"1e21", "1e+21"},
		{"-2.5e-8", "-2.5e-8"},
		{"1e400", "Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.Equal(t, tt.expected, v.String())
		})
	}
}
