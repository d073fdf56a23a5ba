// Package roundutil provides the six-decimal rounding shared by the key
// finder and column mapper diagnostic fields (spec §4.4/§4.6). The
// top-level dataset score is deliberately NOT rounded (spec §6).
package roundutil

// Round6 rounds v to six decimal places, half away from zero.
func Round6(v float64) float64 {
	const scale = 1e6
	shifted := v * scale
	if shifted >= 0 {
		shifted += 0.5
	} else {
		shifted -= 0.5
	}
	return float64(int64(shifted)) / scale
}
