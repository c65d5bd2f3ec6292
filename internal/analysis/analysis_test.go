package analysis

import (
	"testing"

	"delivery-advisor/internal/domain/order"
)

func TestAnalyzeFoodpandaScreenshot(t *testing.T) {
	text := `上線中
$56.00
(O) 桃園市蘆竹區南崁路一段114號
評分 4.8
準備中
送餐資訊
桃園市蘆竹區忠孝西路101號`

	result := Analyze(text)

	if result.Platform != order.PlatformFoodpanda {
		t.Errorf("platform = %q, want Foodpanda", result.Platform)
	}
	if result.Amount != 56.00 {
		t.Errorf("amount = %v, want 56.00", result.Amount)
	}
	if !result.Pickup.IsResolved() || result.Pickup.Value != "(O) 桃園市蘆竹區南崁路一段114號" {
		t.Errorf("pickup = %+v", result.Pickup)
	}
	if !result.Dropoff.IsResolved() || result.Dropoff.Value != "桃園市蘆竹區忠孝西路101號" {
		t.Errorf("dropoff = %+v", result.Dropoff)
	}
}

func TestAnalyzeEmptyBlob(t *testing.T) {
	result := Analyze("")

	if result.Platform != order.PlatformUnknown {
		t.Errorf("platform = %q, want unknown", result.Platform)
	}
	if result.Amount != 0 {
		t.Errorf("amount = %v, want 0", result.Amount)
	}
	if result.Pickup.Status != order.AddressUnresolved {
		t.Errorf("pickup = %+v, want unresolved", result.Pickup)
	}
	if result.Dropoff.Status != order.AddressUnresolved {
		t.Errorf("dropoff = %+v, want unresolved", result.Dropoff)
	}
}
