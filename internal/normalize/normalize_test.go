package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalScalar_Empty(t *testing.T) {
	assert.Equal(t, "", CanonicalScalar(""))
	assert.Equal(t, "", CanonicalScalar("   "))
}

func TestCanonicalScalar_Bool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "yes", "Y"} {
		assert.Equal(t, "true", CanonicalScalar(s), s)
	}
	for _, s := range []string{"false", "0", "no", "n"} {
		assert.Equal(t, "false", CanonicalScalar(s), s)
	}
}

func TestCanonicalScalar_Decimal(t *testing.T) {
	cases := map[string]string{
		"1.990":   "1.99",
		"007.50":  "7.5",
		"1000":    "1000",
		"0.00":    "0",
		"-0.00":   "-0",
		".5":      "0.5",
		"-1.500":  "-1.5",
		"2":       "2",
	}
	for in, want := range cases {
		got, ok := ParseDecimal(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
}

func TestCanonicalScalar_RejectsNonDecimalForms(t *testing.T) {
	for _, s := range []string{"1,000", "1e10", "$5.00", "5%"} {
		_, ok := ParseDecimal(s)
		assert.False(t, ok, s)
	}
}

func TestCanonicalScalar_Idempotent(t *testing.T) {
	for _, s := range []string{"  Soap  ", "1.990", "TRUE", "", "Hello World"} {
		once := CanonicalScalar(s)
		twice := CanonicalScalar(once)
		assert.Equal(t, once, twice, s)
	}
}

func TestCanonicalScalar_BoolBeforeDecimal(t *testing.T) {
	// Open question (spec §9): "0"/"1" are valid booleans and decimals; bool wins.
	assert.Equal(t, "false", CanonicalScalar("0"))
	assert.Equal(t, "true", CanonicalScalar("1"))
}

func TestHeaderTokens_AliasTable(t *testing.T) {
	assert.Equal(t, []string{"breadcrumb"}, HeaderTokens("crumb"))
	assert.Empty(t, HeaderTokens("product_code"))
	assert.Equal(t, []string{"price", "eur"}, HeaderTokens("price_eur_amt"))
	assert.Equal(t, []string{"gtin"}, HeaderTokens("gtin_code"))
}

func TestHeaderTokens_Empty(t *testing.T) {
	assert.Empty(t, HeaderTokens(""))
	assert.Empty(t, HeaderTokens("___"))
}
