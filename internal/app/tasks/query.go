package tasks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeInPattern  = regexp.MustCompile(`^in\s+([0-9]+)\s+(day|days|week|weeks)$`)
	relativeAgoPattern = regexp.MustCompile(`^([0-9]+)\s+(day|days|week|weeks)\s+ago$`)
)

func IsLikelyLiteralFilter(filter string) bool {
	value := strings.TrimSpace(filter)
	if value == "" {
		return false
	}
	if strings.ContainsAny(value, "@#|&!:()[]{}") {
		return false
	}
	switch strings.ToLower(value) {
	case "today", "tomorrow", "overdue", "no date", "recurring", "p1", "p2", "p3", "p4":
		return false
	}
	return true
}

func ToSearchFilter(value string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "\"", "\\\"")
	escaped := replacer.Replace(strings.TrimSpace(value))
	return fmt.Sprintf(`search: "%s"`, escaped)
}

func NormalizeDateValue(value string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Format("2006-01-02"), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(now.Location()).Format("2006-01-02"), nil
	}
	lower := strings.ToLower(value)
	switch lower {
	case "today":
		return now.Format("2006-01-02"), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format("2006-01-02"), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), nil
	}
	if weekday, ok := parseWeekday(strings.TrimPrefix(lower, "next ")); ok {
		return nextWeekday(now, weekday).Format("2006-01-02"), nil
	}
	if m := relativeInPattern.FindStringSubmatch(lower); len(m) == 3 {
		return now.AddDate(0, 0, relativeDays(m[1], m[2])).Format("2006-01-02"), nil
	}
	if m := relativeAgoPattern.FindStringSubmatch(lower); len(m) == 3 {
		return now.AddDate(0, 0, -relativeDays(m[1], m[2])).Format("2006-01-02"), nil
	}
	return "", fmt.Errorf("invalid date %q; use YYYY-MM-DD, today/tomorrow/yesterday, a weekday name, 'in <N> days' or '<N> days ago'", value)
}

func relativeDays(count, unit string) int {
	n, _ := strconv.Atoi(count)
	if strings.HasPrefix(unit, "week") {
		return n * 7
	}
	return n
}

func parseWeekday(value string) (time.Weekday, bool) {
	switch value {
	case "sunday", "sun":
		return time.Sunday, true
	case "monday", "mon":
		return time.Monday, true
	case "tuesday", "tue":
		return time.Tuesday, true
	case "wednesday", "wed":
		return time.Wednesday, true
	case "thursday", "thu":
		return time.Thursday, true
	case "friday", "fri":
		return time.Friday, true
	case "saturday", "sat":
		return time.Saturday, true
	default:
		return time.Sunday, false
	}
}

func nextWeekday(now time.Time, weekday time.Weekday) time.Time {
	diff := (int(weekday) - int(now.Weekday()) + 7) % 7
	if diff == 0 {
		diff = 7
	}
	return now.AddDate(0, 0, diff)
}
