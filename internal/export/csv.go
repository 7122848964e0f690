// Package export builds CSV documents from cached entity records on the
// client side; exporting is never a backend concern.
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/ehmtravel/backoffice/internal/entity"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Filename follows the <entity>_<ISO-date>.csv convention.
func Filename(kind entity.Kind, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", kind, now.Format("2006-01-02"))
}

// Marshal renders one header row plus one row per record, every cell
// double-quoted. A UTF-8 BOM is prepended when any cell contains Arabic
// text so spreadsheet tools pick the right encoding.
func Marshal(schema entity.Schema, records []entity.Record) []byte {
	columns := schema.ExportFields()

	var b strings.Builder
	writeRow(&b, columns)

	arabic := false
	for _, rec := range records {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = rec.String(col)
			if !arabic && containsArabic(cells[i]) {
				arabic = true
			}
		}
		writeRow(&b, cells)
	}

	body := []byte(b.String())
	if arabic {
		return append(utf8BOM, body...)
	}
	return body
}

func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}

func containsArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
