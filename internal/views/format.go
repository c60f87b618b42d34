package views

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const displayTime = "02/01/2006 15:04"

var vi = message.NewPrinter(language.Vietnamese)

// backend timestamps come with or without an offset and fraction
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// FormatVND renders an amount in dong with Vietnamese digit grouping,
// e.g. 1500000 -> "1.500.000 ₫".
func FormatVND(amount float64) string {
	return vi.Sprintf("%d ₫", int64(math.Round(amount)))
}

// FormatTime renders a backend timestamp as dd/mm/yyyy hh:mm. Values that
// do not parse are returned as they are.
func FormatTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayTime)
		}
	}
	return s
}
