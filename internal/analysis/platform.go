package analysis

import (
	"regexp"
	"strings"

	"delivery-advisor/internal/domain/order"
)

var (
	dollarTwoDecRe = regexp.MustCompile(`\$\s*\d+\.\d{2}`)
	dollarIntRe    = regexp.MustCompile(`\$\s*\d{2,3}`)
	kmParenRe      = regexp.MustCompile(`\(\s*\d+(?:\.\d+)?\s*(?:公里|km)\s*\)`)
	minParenRe     = regexp.MustCompile(`\(\s*\d+\s*(?:分鐘|min)\s*\)`)
)

// platformRules are evaluated in order and a later match overrides an
// earlier one, so Foodpanda's strong features win when both platforms
// fire. Feature tags accumulate across every rule that matches, not just
// the winner.
var platformRules = []struct {
	tag      string
	platform order.Platform
	match    func(text string) bool
}{
	{
		tag:      "Uber 強特徵",
		platform: order.PlatformUberEats,
		match: func(t string) bool {
			return kmParenRe.MatchString(t) || minParenRe.MatchString(t) ||
				strings.Contains(t, "現金付款") || strings.Contains(t, "接受") ||
				strings.Contains(t, "外送(")
		},
	},
	{
		tag:      "Panda 強特徵",
		platform: order.PlatformFoodpanda,
		match: func(t string) bool {
			return strings.Contains(t, "拒絕") || strings.Contains(t, "上線中") ||
				strings.Contains(t, "送餐資訊") || strings.Contains(t, "取餐地點") ||
				dollarTwoDecRe.MatchString(t)
		},
	},
}

// DetectPlatform classifies the source app from UI chrome fingerprints in
// the lowercased OCR text. When no strong rule fires, an integer-only
// currency amount with no two-decimal amount anywhere leans Uber Eats.
func DetectPlatform(text string) (order.Platform, []string) {
	t := strings.ToLower(text)
	platform := order.PlatformUnknown
	var features []string

	for _, rule := range platformRules {
		if rule.match(t) {
			features = append(features, rule.tag)
			platform = rule.platform
		}
	}

	if platform == order.PlatformUnknown && dollarIntRe.MatchString(t) && !dollarTwoDecRe.MatchString(t) {
		features = append(features, "金額整數（無小數）")
		platform = order.PlatformUberEats
	}

	return platform, features
}
