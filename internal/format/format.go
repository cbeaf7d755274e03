package format

import (
	"strconv"

	"github.com/dustin/go-humanize"
)

// Count renders an integer with thousands separators for narrative and
// table use.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Frequency renders a relative frequency to 4 decimal digits. A value whose
// rounded rendering is zero comes back as "<0.0000" so a nonzero frequency
// below display precision is not mistaken for a true zero. The convention
// applies to frequencies only; raw counts render exactly.
func Frequency(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	if s == "0.0000" || s == "-0.0000" {
		return "<0.0000"
	}
	return s
}

// Cell renders the merged "count (frequency)" display form used by the
// frequency table.
func Cell(count int, freq float64) string {
	return Count(count) + " (" + Frequency(freq) + ")"
}

// Percent renders a proportion as a one-decimal percentage, e.g. 0.25 ->
// "25.0%".
func Percent(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 1, 64) + "%"
}
