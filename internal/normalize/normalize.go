// Package normalize canonicalizes raw table cells and header names so that
// heterogeneous textual, numeric, and boolean values become comparable.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	numericRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)
	tokenRe   = regexp.MustCompile(`[a-z0-9]+`)
)

// Text trims a raw cell and normalizes it to Unicode NFC so that
// precomposed and decomposed forms of the same text compare equal. It is a
// no-op for ASCII input.
func Text(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// IsEmpty reports whether a cell counts as empty: absent, or whitespace-only
// after trimming.
func IsEmpty(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// ParseBool parses a trimmed, lowercased cell as a boolean per the fixed
// vocabulary {true,1,yes,y} / {false,0,no,n}. ok is false for anything else.
func ParseBool(raw string) (value bool, ok bool) {
	s := strings.ToLower(Text(raw))
	switch s {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n":
		return false, true
	default:
		return false, false
	}
}

// ParseDecimal accepts strings matching ^[+-]?(\d+\.?\d*|\.\d+)$ after
// trimming and returns the value normalized to fixed notation with
// trailing fractional zeros stripped (no exponent, no grouping). ok is
// false for anything that doesn't match the grammar, including thousands
// separators, exponents, and currency symbols. Normalization is purely
// textual, so a literal of any length is accepted; the NumericOverflow
// fallback to the string path happens in similarity.Value, where the
// normalized text is converted to float64.
func ParseDecimal(raw string) (normalized string, ok bool) {
	s := Text(raw)
	if s == "" || !numericRe.MatchString(s) {
		return "", false
	}
	return normalizeDecimalString(s), true
}

// normalizeDecimalString performs lossless fixed-notation normalization on
// a string already known to match numericRe: strip leading zeros from the
// integer part and strip trailing zeros from the fractional part. The sign
// is preserved even for a zero-valued result ("-0", "-0.00" both normalize
// to "-0"), matching Python's Decimal(s).normalize() formatted with the 'f'
// specifier, without needing arbitrary-precision arithmetic: the input is
// already positional decimal text, so no rounding or base conversion
// occurs.
func normalizeDecimalString(s string) string {
	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	intPart = strings.TrimLeft(intPart, "0")
	fracPart = strings.TrimRight(fracPart, "0")
	if intPart == "" {
		intPart = "0"
	}

	out := intPart
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// CanonicalScalar derives the canonical string form used for set
// membership, key comparison, and exact-match tests (spec §3): empty cells
// canonicalize to "", booleans to "true"/"false", decimals to fixed
// notation, and everything else to its trimmed original. Idempotent:
// CanonicalScalar(CanonicalScalar(x)) == CanonicalScalar(x).
func CanonicalScalar(raw string) string {
	if IsEmpty(raw) {
		return ""
	}
	if b, ok := ParseBool(raw); ok {
		if b {
			return "true"
		}
		return "false"
	}
	if d, ok := ParseDecimal(raw); ok {
		return d
	}
	return Text(raw)
}

// AliasTable maps a lowercased header token to its canonical replacement.
// A present key with an empty value means the token is dropped entirely
// (it carries no matching signal). Exposed as data, not code, so the core
// can be retargeted to a different rename convention without touching
// HeaderTokens.
var AliasTable = map[string]string{
	"crumb":      "breadcrumb",
	"crumbs":     "breadcrumbs",
	"tree":       "path",
	"details":    "desc",
	"highlights": "eyecatchers",
	"badges":     "pills",
	"reviews":    "rating",
	"score":      "value",
	"qty":        "quantity",
	"pack":       "unit",
	"subline":    "subheadline",
	"is":         "has",
	"amt":        "",
	"code":       "",
	"product":    "",
}

// HeaderTokens lowercases name, extracts maximal [a-z0-9]+ runs, applies
// AliasTable token-wise, and drops any token that aliases to empty.
func HeaderTokens(name string) []string {
	lower := strings.ToLower(Text(name))
	raw := tokenRe.FindAllString(lower, -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		mapped, known := AliasTable[t]
		if known {
			if mapped == "" {
				continue
			}
			tokens = append(tokens, mapped)
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}
