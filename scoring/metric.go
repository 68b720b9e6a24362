package scoring

import (
	"math"
	"strings"
)

// MetricToMillis converts a metric entered in (fractional) seconds to whole
// milliseconds, truncating toward zero: 42.5 -> 42500.
func MetricToMillis(seconds float64) int64 {
	return int64(seconds * 1000)
}

// MaxMetricSeconds caps a submitted metric at one day.
const MaxMetricSeconds = 24 * 60 * 60

// ValidMetric rejects NaN, infinities, negative values and anything above
// MaxMetricSeconds, so MetricToMillis never overflows.
func ValidMetric(seconds float64) bool {
	return !math.IsNaN(seconds) && seconds >= 0 && seconds <= MaxMetricSeconds
}

// BonusEnabled interprets the time-lap bonus setting: any value starting
// with "y" or "Y" switches it on.
func BonusEnabled(setting string) bool {
	s := strings.TrimSpace(setting)
	return s != "" && (s[0] == 'y' || s[0] == 'Y')
}

// BonusEligible reports whether gameName starts with one of the configured
// bonus title prefixes, ignoring case.
func BonusEligible(gameName string, prefixes []string) bool {
	name := strings.ToLower(strings.TrimSpace(gameName))
	for _, p := range prefixes {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
