package similarity

import (
	"strconv"

	"github.com/extest/tablesim/internal/normalize"
)

// Value implements value_similarity(a,b) per spec §4.2: emptiness, exact
// trim match, boolean equality, decimal closeness (with a division floor
// that prevents blow-up near zero), then normalized edit distance as the
// general fallback.
func Value(a, b string, aPresent, bPresent bool) float64 {
	aEmpty := !aPresent || normalize.IsEmpty(a)
	bEmpty := !bPresent || normalize.IsEmpty(b)
	if aEmpty && bEmpty {
		return 1.0
	}
	if aEmpty || bEmpty {
		return 0.0
	}

	aNorm := normalize.Text(a)
	bNorm := normalize.Text(b)
	if aNorm == bNorm {
		return 1.0
	}

	aBool, aIsBool := normalize.ParseBool(aNorm)
	bBool, bIsBool := normalize.ParseBool(bNorm)
	if aIsBool && bIsBool {
		if aBool == bBool {
			return 1.0
		}
		return 0.0
	}

	aDec, aIsDec := normalize.ParseDecimal(aNorm)
	bDec, bIsDec := normalize.ParseDecimal(bNorm)
	if aIsDec && bIsDec {
		if aDec == bDec {
			return 1.0
		}
		af, aerr := strconv.ParseFloat(aDec, 64)
		bf, berr := strconv.ParseFloat(bDec, 64)
		if aerr == nil && berr == nil {
			denom := absF(af)
			if absF(bf) > denom {
				denom = absF(bf)
			}
			if denom < 1.0 {
				denom = 1.0
			}
			ratio := 1.0 - absF(af-bf)/denom
			if ratio < 0 {
				return 0.0
			}
			return ratio
		}
		// NumericOverflow during float conversion: fall back to text path.
	}

	return normalizedLevenshteinSimilarity(aNorm, bNorm)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
