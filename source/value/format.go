package value

import "strconv"

// formatNumber renders a Number the way user programs expect to see it
// printed: integral values with no trailing ".0", everything else via the
// shortest round-tripping decimal.
func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
