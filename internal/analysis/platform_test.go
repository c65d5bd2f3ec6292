package analysis

import (
	"reflect"
	"testing"

	"delivery-advisor/internal/domain/order"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected order.Platform
		features []string
	}{
		{
			name:     "uber cash payment",
			input:    "現金付款 $85",
			expected: order.PlatformUberEats,
			features: []string{"Uber 強特徵"},
		},
		{
			name:     "uber parenthesized distance",
			input:    "外送 (3.2 公里)",
			expected: order.PlatformUberEats,
			features: []string{"Uber 強特徵"},
		},
		{
			name:     "uber parenthesized minutes uppercase",
			input:    "(20 MIN)",
			expected: order.PlatformUberEats,
			features: []string{"Uber 強特徵"},
		},
		{
			name:     "panda delivery header",
			input:    "送餐資訊",
			expected: order.PlatformFoodpanda,
			features: []string{"Panda 強特徵"},
		},
		{
			name:     "panda two-decimal amount",
			input:    "$56.00",
			expected: order.PlatformFoodpanda,
			features: []string{"Panda 強特徵"},
		},
		{
			name:     "panda overrides uber when both match",
			input:    "拒絕 上線中 現金付款",
			expected: order.PlatformFoodpanda,
			features: []string{"Uber 強特徵", "Panda 強特徵"},
		},
		{
			name:     "integer amount fallback leans uber",
			input:    "$85",
			expected: order.PlatformUberEats,
			features: []string{"金額整數（無小數）"},
		},
		{
			name:     "nothing matches",
			input:    "午餐時間到了",
			expected: order.PlatformUnknown,
			features: nil,
		},
		{
			name:     "empty",
			input:    "",
			expected: order.PlatformUnknown,
			features: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform, features := DetectPlatform(tt.input)
			if platform != tt.expected {
				t.Errorf("DetectPlatform(%q) platform = %q, want %q", tt.input, platform, tt.expected)
			}
			if !reflect.DeepEqual(features, tt.features) {
				t.Errorf("DetectPlatform(%q) features = %v, want %v", tt.input, features, tt.features)
			}
		})
	}
}
