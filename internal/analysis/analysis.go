// Package analysis is the heuristic parsing core: it turns a noisy OCR
// blob from a food-delivery app screenshot into structured order facts
// (platform, fare amount, pickup and dropoff addresses). Every function is
// pure and total; absent data comes back as sentinel values, never as an
// error.
package analysis

import "delivery-advisor/internal/domain/order"

// Analyze runs platform detection, amount extraction, and dual-address
// resolution over one OCR blob.
func Analyze(text string) order.Analysis {
	platform, features := DetectPlatform(text)
	pickup, dropoff := ResolveAddresses(text)
	return order.Analysis{
		Platform: platform,
		Features: features,
		Amount:   ExtractAmount(text, AmountLowerBound, AmountUpperBound),
		Pickup:   pickup,
		Dropoff:  dropoff,
	}
}
