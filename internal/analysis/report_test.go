package analysis

import (
	"strings"
	"testing"

	"delivery-advisor/internal/domain/order"
)

func TestEarningsPerKm(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		distance float64
		expected float64
	}{
		{"normal trip", 56.0, 3.2, 17.5},
		{"rounded to two decimals", 100.0, 3.0, 33.33},
		{"zero distance", 56.0, 0, 0},
		{"negative distance", 56.0, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EarningsPerKm(tt.amount, tt.distance); got != tt.expected {
				t.Errorf("EarningsPerKm(%v, %v) = %v, want %v", tt.amount, tt.distance, got, tt.expected)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name     string
		platform order.Platform
		amount   float64
		distance float64
		duration float64
		expected string
	}{
		{
			name:     "missing distance wins over everything",
			platform: order.PlatformFoodpanda,
			amount:   56.0,
			distance: 0,
			duration: 12,
			expected: "資訊不足（地址或距離未取到），請再確認後判斷",
		},
		{
			name:     "missing duration",
			platform: order.PlatformUberEats,
			amount:   56.0,
			distance: 3.2,
			duration: 0,
			expected: "資訊不足（地址或距離未取到），請再確認後判斷",
		},
		{
			name:     "uber at threshold accepts",
			platform: order.PlatformUberEats,
			amount:   65.0,
			distance: 5.0,
			duration: 15,
			expected: "收益良好，建議接單",
		},
		{
			name:     "uber below threshold rejects",
			platform: order.PlatformUberEats,
			amount:   50.0,
			distance: 5.0,
			duration: 15,
			expected: "低於門檻（13.0 元/km），建議拒單",
		},
		{
			name:     "unknown platform uses default threshold",
			platform: order.PlatformUnknown,
			amount:   70.0,
			distance: 5.0,
			duration: 15,
			expected: "低於門檻（15.0 元/km），建議拒單",
		},
		{
			name:     "zero amount rejects",
			platform: order.PlatformFoodpanda,
			amount:   0,
			distance: 3.2,
			duration: 12,
			expected: "低於門檻（15.0 元/km），建議拒單",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.platform, tt.amount, tt.distance, tt.duration)
			if got != tt.expected {
				t.Errorf("Suggest() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(order.ReportInput{
		Platform:         order.PlatformFoodpanda,
		Features:         []string{"Panda 強特徵"},
		Amount:           56.0,
		Pickup:           order.Resolved("桃園市蘆竹區南崁路一段114號"),
		Dropoff:          order.Resolved("桃園市蘆竹區忠孝西路101號"),
		DistanceKm:       3.2,
		DurationMin:      12.0,
		BlacklistVerdict: "未命中",
	})

	expected := strings.Join([]string{
		"【平台】：Foodpanda",
		"【金額】：$56.00",
		"【取餐地址】：桃園市蘆竹區南崁路一段114號",
		"【送達地址】：桃園市蘆竹區忠孝西路101號",
		"【距離】：3.20 公里",
		"【耗時】：約 12.0 分鐘",
		"【黑名單】：未命中",
		"【每公里收益】：17.50 元/km",
		"【辨識特徵】：Panda 強特徵",
		"【建議】：收益良好，建議接單",
	}, "\n")

	if report != expected {
		t.Errorf("BuildReport mismatch:\ngot:\n%s\nwant:\n%s", report, expected)
	}
}

func TestBuildReportSentinels(t *testing.T) {
	report := BuildReport(order.ReportInput{
		Platform:         order.PlatformUnknown,
		Amount:           0,
		Pickup:           order.SuspectedDuplicate(),
		Dropoff:          order.Unresolved(),
		BlacklistVerdict: "未命中",
	})

	if !strings.Contains(report, "【取餐地址】：辨識中/無法擷取(疑同送達)") {
		t.Errorf("missing suspected-duplicate sentinel:\n%s", report)
	}
	if !strings.Contains(report, "【送達地址】：辨識中/無法擷取") {
		t.Errorf("missing unresolved sentinel:\n%s", report)
	}
	if !strings.Contains(report, "【辨識特徵】：無明顯樣態") {
		t.Errorf("missing empty feature text:\n%s", report)
	}
	if !strings.Contains(report, "資訊不足") {
		t.Errorf("missing insufficient-information suggestion:\n%s", report)
	}
}
