package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Basic(t *testing.T) {
	src := "gtin,name\n100,Soap\n200,Shampoo\n"
	tbl, err := ReadCSV(Reference, "mem", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"gtin", "name"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "100", tbl.Rows[0]["gtin"])
	assert.Equal(t, "Shampoo", tbl.Rows[1]["name"])
}

func TestReadCSV_BOM(t *testing.T) {
	src := "﻿gtin,name\n100,Soap\n"
	tbl, err := ReadCSV(Reference, "mem", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "gtin", tbl.Headers[0])
}

func TestReadCSV_MissingHeader(t *testing.T) {
	_, err := ReadCSV(Reference, "mem", strings.NewReader(""))
	require.Error(t, err)
}

func TestReadCSV_ShortRowsFilledWithEmpty(t *testing.T) {
	src := "a,b,c\n1,2\n"
	tbl, err := ReadCSV(Reference, "mem", strings.NewReader(src))
	require.NoError(t, err)
	v, present := tbl.Rows[0].Cell("c")
	assert.Equal(t, "", v)
	assert.True(t, present, "short rows still populate every header with empty string")
}

func TestReadCSV_DuplicateHeaderLastWins(t *testing.T) {
	src := "a,a\n1,2\n"
	tbl, err := ReadCSV(Reference, "mem", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, tbl.Headers)
	assert.Equal(t, "2", tbl.Rows[0]["a"])
}
