// Package export serializes the filtered record set into downloadable
// files: CSV, spreadsheet-HTML (.xls) and a native workbook (.xlsx).
package export

import (
	"errors"
	"time"

	"khazana/internal/format"
)

// ErrNoRecords is returned when an export is attempted over an empty
// filtered set. Callers surface it as a user notice; no file is produced.
var ErrNoRecords = errors.New("no records to export")

// BOM is the UTF-8 byte-order mark prefixed to text exports so spreadsheet
// applications pick up the encoding.
const BOM = "\uFEFF"

// File is a ready-to-deliver export payload.
type File struct {
	Name string
	MIME string
	Data []byte
}

func stampedName(prefix, ext string, now time.Time) string {
	return prefix + "-" + format.FileStamp(now) + ext
}
