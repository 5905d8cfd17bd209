package sqlgen

import (
	"regexp"
	"strconv"
	"time"
)

var relativeValueRe = regexp.MustCompile(`^last_(day|week|month|quarter|year)_(\d{1,2})$`)

// ResolveRelativeValue turns a symbolic relative-range value such as
// "last_month_3" into the ISO date it stands for, relative to now. Values
// that are not symbolic are returned unchanged.
func ResolveRelativeValue(value string, now time.Time) string {
	m := relativeValueRe.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return value
	}

	var from time.Time
	switch m[1] {
	case "day":
		from = now.AddDate(0, 0, -n)
	case "week":
		from = now.AddDate(0, 0, -7*n)
	case "month":
		from = now.AddDate(0, -n, 0)
	case "quarter":
		from = now.AddDate(0, -3*n, 0)
	case "year":
		from = now.AddDate(-n, 0, 0)
	default:
		return value
	}
	return from.Format("2006-01-02")
}
