package analysis

import (
	"regexp"
	"sort"
)

// twCity enumerates the top-level administrative regions recognized in
// addresses. 臺 spellings are folded to 台 upstream by the OCR post-pass.
const twCity = `(?:台北市|新北市|桃園市|台中市|台南市|高雄市|基隆市|新竹市|嘉義市|新竹縣|苗栗縣|彰化縣|南投縣|雲林縣|嘉義縣|屏東縣|宜蘭縣|花蓮縣|台東縣|澎湖縣|連江縣|金門縣)`

// twRoad matches a road token: a non-space, non-digit run followed by a
// road-type suffix and any trailing section/floor noise.
const twRoad = `[^\s\d]+(?:路|街|大道|巷|弄)[^,\s]*`

var (
	cityRe     = regexp.MustCompile(twCity)
	roadRe     = regexp.MustCompile(twRoad)
	houseNoRe  = regexp.MustCompile(`\d+號`)
	digitRunRe = regexp.MustCompile(`\d{3,6}`)
	markerRe   = regexp.MustCompile(`^\(?[XO]\)`)
	addrLikeRe = regexp.MustCompile(twCity + `|` + twRoad + `|\d+號`)
)

// Score rates how strongly a single line resembles a Taiwanese postal
// address. Signals are additive and order-independent: pickup/dropoff
// marker +4, region name +3, road token +3, house number +2, 3-6 digit
// run +1.
func Score(line string) int {
	s := Normalize(cleanupLine(line))
	score := 0
	if markerRe.MatchString(s) {
		score += 4
	}
	if cityRe.MatchString(s) {
		score += 3
	}
	if roadRe.MatchString(s) {
		score += 3
	}
	if houseNoRe.MatchString(s) {
		score += 2
	}
	if digitRunRe.MatchString(s) {
		score++
	}
	return score
}

// IsAddressLike reports whether any structural address marker (region,
// road token, house number) occurs in the line, independent of the score
// threshold.
func IsAddressLike(line string) bool {
	return addrLikeRe.MatchString(Normalize(line))
}

// PickBest normalizes and scores the candidate lines and returns the top
// scorer. A candidate is accepted only with score >= 3, otherwise
// ("", false).
func PickBest(candidates []string) (string, bool) {
	type scored struct {
		score int
		text  string
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scored{
			score: Score(c),
			text:  Normalize(cleanupLine(c)),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) == 0 || ranked[0].score < 3 {
		return "", false
	}
	return ranked[0].text, true
}
