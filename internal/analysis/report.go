package analysis

import (
	"fmt"
	"math"
	"strings"

	"delivery-advisor/internal/domain/order"
)

// Per-km accept thresholds in NT$.
const (
	thresholdFoodpanda = 15.0
	thresholdUberEats  = 13.0
	thresholdDefault   = 15.0
)

func acceptThreshold(p order.Platform) float64 {
	switch p {
	case order.PlatformFoodpanda:
		return thresholdFoodpanda
	case order.PlatformUberEats:
		return thresholdUberEats
	default:
		return thresholdDefault
	}
}

// EarningsPerKm is the profitability metric: fare over distance, rounded
// to two decimals. Zero when the distance is unknown.
func EarningsPerKm(amount, distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0.0
	}
	return math.Round(amount/distanceKm*100) / 100
}

// Suggest produces the accept/reject verdict. Missing distance or duration
// always wins over the profitability check: a zero from the distance
// lookup means the trip could not be measured, not that it is free.
func Suggest(p order.Platform, amount, distanceKm, durationMin float64) string {
	threshold := acceptThreshold(p)
	switch {
	case distanceKm <= 0 || durationMin <= 0:
		return "資訊不足（地址或距離未取到），請再確認後判斷"
	case amount > 0 && EarningsPerKm(amount, distanceKm) >= threshold:
		return "收益良好，建議接單"
	default:
		return fmt.Sprintf("低於門檻（%.1f 元/km），建議拒單", threshold)
	}
}

// BuildReport renders the final human-readable decision report. Field
// order and presence are fixed; this is a display contract only.
func BuildReport(in order.ReportInput) string {
	featureText := "無明顯樣態"
	if len(in.Features) > 0 {
		featureText = strings.Join(in.Features, "、")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "【平台】：%s\n", in.Platform)
	fmt.Fprintf(&b, "【金額】：$%.2f\n", in.Amount)
	fmt.Fprintf(&b, "【取餐地址】：%s\n", in.Pickup.Display())
	fmt.Fprintf(&b, "【送達地址】：%s\n", in.Dropoff.Display())
	fmt.Fprintf(&b, "【距離】：%.2f 公里\n", in.DistanceKm)
	fmt.Fprintf(&b, "【耗時】：約 %.1f 分鐘\n", in.DurationMin)
	fmt.Fprintf(&b, "【黑名單】：%s\n", in.BlacklistVerdict)
	fmt.Fprintf(&b, "【每公里收益】：%.2f 元/km\n", EarningsPerKm(in.Amount, in.DistanceKm))
	fmt.Fprintf(&b, "【辨識特徵】：%s\n", featureText)
	fmt.Fprintf(&b, "【建議】：%s", Suggest(in.Platform, in.Amount, in.DistanceKm, in.DurationMin))
	return b.String()
}
