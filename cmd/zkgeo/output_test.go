package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)

	f, err = ParseFormat("pretty")
	require.NoError(t, err)
	require.Equal(t, FormatPretty, f)

	_, err = ParseFormat("yaml")
	require.Error(t, err)
}

func TestPrinterJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(FormatJSON, &buf)

	require.NoError(t, p.Rows([]string{"value", "element"}, [][]string{{"1", "0x01"}, {"255", "0xff"}}))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.Equal(t, "0x01", rows[0]["element"])
	require.Equal(t, "255", rows[1]["value"])

	buf.Reset()
	require.NoError(t, p.Record("证明结果", [][2]string{{"kind", "preimage"}, {"verified", "true"}}))

	var record map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "true", record["verified"])
}

func TestParseUints(t *testing.T) {
	values, err := parseUints([]string{"1", "0x10", "255"})
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 16, 255}, values)

	_, err = parseUints([]string{"-1"})
	require.Error(t, err)
}
