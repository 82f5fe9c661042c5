package parse

import (
	"regexp"
	"time"

	"github.com/freightdock/intake/internal/entity"
)

// Date layouts observed across vendor documents.
const (
	DateLayoutDMYShort = "02/01/06"   // 17/09/25
	DateLayoutDMYLong  = "02/01/2006" // 17/09/2025
)

var (
	// "8h00 – 15h00" (en dash or hyphen)
	reTimeRangeHour = regexp.MustCompile(`(\d{1,2})h(\d{2})\s*[–-]\s*(\d{1,2})h(\d{2})`)
	// "0800-1500"
	reTimeRangeCompact = regexp.MustCompile(`\b(\d{2})(\d{2})-(\d{2})(\d{2})\b`)
)

// StartOfToday is the soft-failure default for every missing or
// unparseable date: midnight UTC of the current day.
func StartOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseWindow combines a vendor date token and a time-range token into a
// TimeWindow. An unparseable date yields start of the current day; an
// absent or unparseable time range leaves only datetime_from set, at
// midnight of the parsed date.
func ParseWindow(dateToken, timeToken string, layouts ...string) entity.TimeWindow {
	day, ok := parseDate(dateToken, layouts)
	if !ok {
		return entity.TimeWindow{DatetimeFrom: StartOfToday()}
	}

	fromH, fromM, toH, toM, ok := parseTimeRange(timeToken)
	if !ok {
		return entity.TimeWindow{DatetimeFrom: day}
	}

	from := day.Add(time.Duration(fromH)*time.Hour + time.Duration(fromM)*time.Minute)
	to := day.Add(time.Duration(toH)*time.Hour + time.Duration(toM)*time.Minute)
	return entity.TimeWindow{DatetimeFrom: from, DatetimeTo: &to}
}

func parseDate(token string, layouts []string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, token, time.UTC); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parseTimeRange(token string) (fromH, fromM, toH, toM int, ok bool) {
	if token == "" {
		return 0, 0, 0, 0, false
	}
	if m := reTimeRangeHour.FindStringSubmatch(token); m != nil {
		fromH, fromM = atoi2(m[1]), atoi2(m[2])
		toH, toM = atoi2(m[3]), atoi2(m[4])
	} else if m := reTimeRangeCompact.FindStringSubmatch(token); m != nil {
		fromH, fromM = atoi2(m[1]), atoi2(m[2])
		toH, toM = atoi2(m[3]), atoi2(m[4])
	} else {
		return 0, 0, 0, 0, false
	}
	if fromH > 23 || toH > 23 || fromM > 59 || toM > 59 {
		return 0, 0, 0, 0, false
	}
	return fromH, fromM, toH, toM, true
}

// atoi2 parses the 1-2 digit groups the range regexps capture.
func atoi2(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
