package trend

import (
	"strconv"
	"strings"
)

// matchesAlias implements the deliberately permissive matching rule: after
// trimming and lowercasing, the candidate matches if either string contains
// the other. This absorbs annotator phrasing drift ("Fasting Blood Glucose"
// vs. registered "Fasting Glucose") at the cost of possible false positives
// on short aliases; the trade-off is inherited from observed annotator
// behavior and must not be tightened silently.
func matchesAlias(name, alias string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	alias = strings.ToLower(strings.TrimSpace(alias))
	if name == "" || alias == "" {
		return false
	}
	return strings.Contains(name, alias) || strings.Contains(alias, name)
}

// Resolve maps a free-text test name to every registered metric it matches.
// Zero matches means the name is simply not tracked. More than one match is
// rare but possible with substring containment; the caller must register the
// value under every returned id, since keeping only the first would silently
// drop signal.
func Resolve(name string) []MetricID {
	var ids []MetricID
	for _, m := range registry {
		for _, alias := range m.Aliases {
			if matchesAlias(name, alias) {
				ids = append(ids, m.ID)
				break
			}
		}
	}
	return ids
}

// ParseValue extracts the leading numeric portion of a result value string,
// e.g. "11.9 g/dL" → 11.9. Values with no leading number are excluded from
// timelines, never coerced to zero.
func ParseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	end := 0
	if s[end] == '+' || s[end] == '-' {
		end++
	}
	sawDigit := false
	sawDot := false
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
			sawDigit = true
		case c == '.' && !sawDot:
			sawDot = true
		default:
			goto done
		}
		end++
	}
done:
	if !sawDigit {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
