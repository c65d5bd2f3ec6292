package analysis

import (
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Plausible fare range in NT$. Values outside it are treated as OCR noise.
const (
	AmountLowerBound = 20.0
	AmountUpperBound = 300.0
)

// negContextWindow is how many runes after a numeric candidate are
// inspected for a distance/time unit.
const negContextWindow = 24

var (
	currencyAmountRe = regexp.MustCompile(`\$\s*(\d+(?:\.\d{2})?)`)
	decimalAmountRe  = regexp.MustCompile(`\d+\.\d{1,2}`)
	integerAmountRe  = regexp.MustCompile(`\d{2,3}`)
	negContextRe     = regexp.MustCompile(`(?i)公里|km|分鐘|min|小時|hr|秒|sec|公 里|分 鐘`)
)

// ExtractAmount finds the fare value in an OCR blob. Search is tiered:
// a currency-marked value wins outright, then unmarked decimals, then bare
// 2-3 digit integers. Unmarked candidates followed by a distance/time unit
// within the context window are rejected as distance or duration figures.
// Returns 0 when nothing within [lo, hi] is found.
func ExtractAmount(text string, lo, hi float64) float64 {
	// Tier 1: first currency-marked value, left to right.
	for _, m := range currencyAmountRe.FindAllStringSubmatchIndex(text, -1) {
		if !boundaryAfter(text, m[3]) {
			continue
		}
		if v, err := strconv.ParseFloat(text[m[2]:m[3]], 64); err == nil {
			if v >= lo && v <= hi {
				return v
			}
		}
		break
	}

	// Tier 2: unmarked decimal candidates.
	if v, ok := scanCandidates(text, decimalAmountRe, lo, hi); ok {
		return v
	}

	// Tier 3: bare 2-3 digit integers.
	if v, ok := scanCandidates(text, integerAmountRe, lo, hi); ok {
		return v
	}

	return 0.0
}

func scanCandidates(text string, re *regexp.Regexp, lo, hi float64) (float64, bool) {
	for _, m := range re.FindAllStringIndex(text, -1) {
		if !boundaryBefore(text, m[0]) || !boundaryAfter(text, m[1]) {
			continue
		}
		if negContextRe.MatchString(headRunes(text[m[1]:], negContextWindow)) {
			continue
		}
		v, err := strconv.ParseFloat(text[m[0]:m[1]], 64)
		if err != nil {
			continue
		}
		if v >= lo && v <= hi {
			return v, true
		}
	}
	return 0, false
}

// isWordRune mirrors a Unicode-aware word character: letters (including
// CJK), digits, and underscore. A digit run glued to 號 or 元 is therefore
// not a standalone number.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

// headRunes returns the first n runes of s.
func headRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
