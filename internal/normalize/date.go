// Package normalize converts raw extracted invoice fields into storable
// values. It is the storage-side counterpart of the rules engine: dates are
// resolved through the Thai month vocabulary and converted from the Buddhist
// calendar to Gregorian, while the rules engine keeps comparing the raw
// Buddhist-calendar integers.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
)

// thaiMonths maps Thai month names and zero-padded numerics to month numbers.
var thaiMonths = map[string]int{
	"มกราคม":     1,
	"กุมภาพันธ์": 2,
	"มีนาคม":     3,
	"เมษายน":     4,
	"พฤษภาคม":    5,
	"มิถุนายน":   6,
	"กรกฎาคม":    7,
	"สิงหาคม":    8,
	"กันยายน":    9,
	"ตุลาคม":     10,
	"พฤศจิกายน":  11,
	"ธันวาคม":    12,
	"01":         1,
	"02":         2,
	"03":         3,
	"04":         4,
	"05":         5,
	"06":         6,
	"07":         7,
	"08":         8,
	"09":         9,
	"10":         10,
	"11":         11,
	"12":         12,
}

// buddhistYearFloor: years above it are taken as Buddhist Era and shifted.
const buddhistYearFloor = 2400

// ParseDocumentDate resolves an extracted document date to a Gregorian date.
// Month accepts Thai month names or numerics; a Buddhist Era year is shifted
// to Gregorian; a missing or out-of-range day falls back to the 1st. Returns
// nil when the components do not form a real calendar date. Never panics.
func ParseDocumentDate(d entity.DocumentDate) *time.Time {
	month, ok := parseMonth(d.Month.String())
	if !ok {
		return nil
	}

	year, ok := d.Year.Int()
	if !ok {
		return nil
	}
	if year > buddhistYearFloor {
		year -= 543
	}

	day, ok := d.Day.Int()
	if !ok || day < 1 || day > 31 {
		day = 1
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31 Feb becomes 2-3 Mar); such
	// inputs are not real dates and must come back nil.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return nil
	}
	return &t
}

func parseMonth(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if m, ok := thaiMonths[s]; ok {
		return m, true
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return n, true
	}
	return 0, false
}
