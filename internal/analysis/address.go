package analysis

import (
	"strings"
	"unicode"

	"delivery-advisor/internal/domain/order"
)

// dropoffHeader is the delivery-info block header both platforms render
// above the destination address.
const dropoffHeader = "送餐資訊"

const (
	dropoffWindowSize    = 4
	pickupWindowSize     = 3
	dropoffAltWindowSize = 5
)

// ResolveAddresses scans the OCR lines for the two structural anchors (the
// delivery-info header and the pickup marker) and resolves pickup and
// dropoff addresses. Anchors are the most reliable signal in the OCR
// output, so their neighborhoods are searched first; unconstrained
// address-likeness scans are fallbacks only. When both sides converge on
// the same text the dropoff is authoritative and the pickup degrades to a
// suspected-duplicate sentinel.
func ResolveAddresses(text string) (order.Address, order.Address) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return order.Unresolved(), order.Unresolved()
	}

	headerIdx := -1
	for i, ln := range lines {
		if strings.Contains(strings.ReplaceAll(ln, " ", ""), dropoffHeader) {
			headerIdx = i
			break
		}
	}

	var drop string
	var dropOK bool
	if headerIdx >= 0 {
		cand := window(lines, headerIdx+1, dropoffWindowSize)
		drop, dropOK = PickBest(cand)
		if !dropOK {
			// OCR sometimes breaks one address across lines; a merged
			// window can still qualify as a whole.
			merged := Normalize(cleanupLine(strings.Join(cand, "")))
			if IsAddressLike(merged) {
				drop, dropOK = merged, true
			}
		}
	}

	markerIdx := -1
	for i, ln := range lines {
		if strings.HasPrefix(ln, "(O)") || strings.HasPrefix(ln, "O)") {
			markerIdx = i
			break
		}
	}

	var pick string
	var pickOK bool
	if markerIdx >= 0 {
		pick, pickOK = PickBest(window(lines, markerIdx+1, pickupWindowSize))
		if !pickOK && IsAddressLike(lines[markerIdx]) {
			// The marker line itself often carries the address.
			pick, pickOK = Normalize(cleanupLine(lines[markerIdx])), true
		}
	}

	// Backward fallback: last address-like line above the dropoff header.
	if !pickOK && headerIdx > 0 {
		for i := headerIdx - 1; i >= 0; i-- {
			if IsAddressLike(lines[i]) {
				pick, pickOK = Normalize(cleanupLine(lines[i])), true
				break
			}
		}
	}

	// Forward fallback: first address-like line after the header, or
	// anywhere when no header was found.
	if !dropOK {
		tail := lines
		if headerIdx >= 0 {
			tail = lines[headerIdx+1:]
		}
		for _, ln := range tail {
			if IsAddressLike(ln) {
				drop, dropOK = Normalize(cleanupLine(ln)), true
				break
			}
		}
	}

	pickup := order.Unresolved()
	if pickOK {
		pickup = order.Resolved(pick)
	}
	dropoff := order.Unresolved()
	if dropOK {
		dropoff = order.Resolved(drop)
	}

	if pickOK && dropOK && sameAddress(pick, drop) {
		// Try an alternate dropoff from a widened header window first.
		if headerIdx >= 0 {
			cand := window(lines, headerIdx+1, dropoffAltWindowSize)
			alt := make([]string, 0, len(cand))
			for _, c := range cand {
				if !sameAddress(c, pick) {
					alt = append(alt, c)
				}
			}
			if d2, ok := PickBest(alt); ok && !sameAddress(d2, pick) {
				drop = d2
				dropoff = order.Resolved(d2)
			}
		}
		// Then an alternate pickup from above the pickup marker.
		if sameAddress(pick, drop) && markerIdx > 0 {
			for i := markerIdx - 1; i >= 0; i-- {
				if IsAddressLike(lines[i]) {
					if p2 := Normalize(cleanupLine(lines[i])); !sameAddress(p2, drop) {
						pick = p2
						pickup = order.Resolved(p2)
					}
					break
				}
			}
		}
		if sameAddress(pick, drop) {
			pickup = order.SuspectedDuplicate()
		}
	}

	return pickup, dropoff
}

func splitLines(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

func window(lines []string, start, size int) []string {
	if start >= len(lines) {
		return nil
	}
	end := start + size
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}

// sameAddress compares two addresses after stripping everything except
// Han characters and ASCII alphanumerics. Empty keys never compare equal.
func sameAddress(a, b string) bool {
	ka := canonicalKey(a)
	return ka != "" && ka == canonicalKey(b)
}

func canonicalKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		case unicode.Is(unicode.Han, r):
			return r
		}
		return -1
	}, Normalize(s))
}
