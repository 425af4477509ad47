// Package report renders batch records as JSON, SARIF or terminal text.
package report

import (
	"fmt"
	"io"
	"strings"

	"frscan/internal/types"
	"frscan/internal/util/jsonutil"
)

const (
	FormatJSON  = "json"
	FormatSARIF = "sarif"
	FormatText  = "text"
)

// Formats lists the accepted Write formats.
var Formats = []string{FormatJSON, FormatSARIF, FormatText}

// Write renders records to w in the named format.
func Write(w io.Writer, format string, records []types.Record) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return JSON(w, records)
	case FormatSARIF:
		return SARIF(w, records)
	case FormatText:
		return Text(w, records)
	default:
		return fmt.Errorf("report: unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// JSON writes the record array indented, leaving <, > and & unescaped.
func JSON(w io.Writer, records []types.Record) error {
	if records == nil {
		records = []types.Record{}
	}
	return jsonutil.EncodeIndent(w, records)
}
