package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestReadMaterials_Latin1(t *testing.T) {
	utf8 := "codigo;nombre;unidad;precio;minimo;reorden;volumen;proveedor\n" +
		"MP-001;Tornillo cabeza hexagonal;PCS;0,25;100;150;0,0001;PROV-1\n" +
		"MP-002;Resina epóxica;kg;12.5;20;30;0.001;\n" +
		"MP-003;Sin unidad;caja;1;1;1;1;\n" +
		";Sin código;kg;1;1;1;1;\n"

	var latin1 bytes.Buffer
	w := transform.NewWriter(&latin1, charmap.ISO8859_1.NewEncoder())
	_, err := w.Write([]byte(utf8))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, skipped, err := readMaterials(transform.NewReader(&latin1, charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, got, 2)

	assert.Equal(t, "pcs", got[0].unit)
	assert.Equal(t, "PROV-1", got[0].supplierCode)
	assert.Equal(t, "0.25", got[0].unitPrice.String())
	assert.Equal(t, "Resina epóxica", got[1].name)
	assert.Equal(t, "12.5", got[1].unitPrice.String())
}

func TestReadMaterials_NumeroInvalido(t *testing.T) {
	_, _, err := readMaterials(strings.NewReader("MP-001;Tornillo;pcs;abc;1;1;1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 1")
}

func TestParseNumber(t *testing.T) {
	cases := map[string]string{
		"":         "0",
		"1.234,50": "1234.5",
		"7":        "7",
		"0.125":    "0.125",
	}
	for in, want := range cases {
		got, err := parseNumber(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}
	_, err := parseNumber("-3")
	assert.Error(t, err)
}

func TestEscapeSQL(t *testing.T) {
	assert.Equal(t, "O''Brien", escapeSQL("O'Brien"))
}
