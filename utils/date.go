package utils

import "time"

const DateLayout = "2006-01-02"

// ShiftDates expands an inclusive date range into yyyy-mm-dd keys, the form
// the CRM uses for attendance cells.
func ShiftDates(start, end time.Time) []string {
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

func MustParseDate(dateStr string) time.Time {
	t, _ := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	return t
}
