package people

import "sort"

// Weekdays lists the day names in calendar order, Monday first.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var weekdayIndex = func() map[string]int {
	m := make(map[string]int, len(Weekdays))
	for i, d := range Weekdays {
		m[d] = i
	}
	return m
}()

// CanonicalizeDays returns a copy of days ordered Monday..Sunday.
// Unknown names sort after Sunday in their original order. Duplicates are kept.
func CanonicalizeDays(days []string) []string {
	out := append([]string{}, days...)
	sort.SliceStable(out, func(i, j int) bool {
		return dayRank(out[i]) < dayRank(out[j])
	})
	return out
}

// IsWeekday reports whether name is one of Weekdays.
func IsWeekday(name string) bool {
	_, ok := weekdayIndex[name]
	return ok
}

func dayRank(name string) int {
	if i, ok := weekdayIndex[name]; ok {
		return i
	}
	return len(Weekdays)
}
