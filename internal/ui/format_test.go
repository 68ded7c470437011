package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    uint64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{8 * 1024 * 1024 * 1024, "8.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBytes(tt.bytes))
		})
	}
}

func TestFormatMB(t *testing.T) {
	assert.Equal(t, "0 MB", FormatMB(1000))
	assert.Equal(t, "300 MB", FormatMB(300<<20))
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate     float64
		expected string
	}{
		{0, "0 B/s"},
		{512, "512 B/s"},
		{2048, "2.0 KB/s"},
		{1_048_576, "1.0 MB/s"},
		{3 * 1024 * 1024 * 1024, "3.0 GB/s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatRate(tt.rate))
		})
	}
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "0m", FormatUptime(30))
	assert.Equal(t, "2h 5m", FormatUptime(2*3600+5*60))
	assert.Equal(t, "3d 4h 12m", FormatUptime(3*86400+4*3600+12*60))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short", "bash", 28, "bash"},
		{"exact", "abcdef", 6, "abcdef"},
		{"long", "a-very-long-process-name-indeed-yes", 28, "a-very-long-process-name-..."},
		{"tiny max", "abcdef", 2, "ab"},
		{"multibyte", "héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.max))
		})
	}
}
