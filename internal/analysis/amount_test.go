package analysis

import (
	"testing"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{
			name:     "currency with decimals",
			input:    "$56.00 外送 (3.2 公里)",
			expected: 56.00,
		},
		{
			name:     "currency integer",
			input:    "接受 $85 現金付款",
			expected: 85,
		},
		{
			name:     "currency wins over bare number",
			input:    "45.0 然後 $56.00",
			expected: 56.00,
		},
		{
			name:     "bare decimal accepted",
			input:    "運費 84.5 元",
			expected: 84.5,
		},
		{
			name:     "decimal followed by distance unit rejected",
			input:    "路程 25.5 公里",
			expected: 0,
		},
		{
			name:     "integer followed by time unit rejected",
			input:    "預計 25 分鐘",
			expected: 0,
		},
		{
			name:     "bare integer accepted",
			input:    "運費 120 元",
			expected: 120,
		},
		{
			name:     "distance rejected then fare found",
			input:    "25 分鐘 後收 88 元",
			expected: 88,
		},
		{
			name:     "house number glued to marker ignored",
			input:    "桃園市蘆竹區南崁路一段114號",
			expected: 0,
		},
		{
			name:     "currency below range ignored",
			input:    "$15",
			expected: 0,
		},
		{
			name:     "above range ignored",
			input:    "$950",
			expected: 0,
		},
		{
			name:     "empty",
			input:    "",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAmount(tt.input, AmountLowerBound, AmountUpperBound)
			if got != tt.expected {
				t.Errorf("ExtractAmount(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			if got != 0 && (got < AmountLowerBound || got > AmountUpperBound) {
				t.Errorf("ExtractAmount(%q) = %v outside plausible range", tt.input, got)
			}
		})
	}
}
