package matcher

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var monthsByName = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

type dateShape int

const (
	shapeMonthDay dateShape = iota
	shapeSlash
	shapeDash
)

var datePatterns = []struct {
	shape   dateShape
	pattern *regexp.Regexp
}{
	{shapeMonthDay, regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)},
	{shapeSlash, regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)},
	{shapeDash, regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{2,4})\b`)},
}

// explicit years further than this from now are treated as noise ("May 4 1234 Main St").
const maxYearDistance = 20

type dateMatch struct {
	start  int
	shape  dateShape
	groups []string
}

// ExtractDate returns the first date mentioned in text that parses into a real
// calendar day, as midnight in now's location. Matches are considered in the
// order they appear; ones that do not form a valid date ("February 30") are
// skipped. It reports false when nothing usable is found.
func ExtractDate(text string, now time.Time) (time.Time, bool) {
	matches := findDateMatches(text)
	for _, m := range matches {
		if date, ok := parseDateMatch(m, now); ok {
			return date, true
		}
	}
	return time.Time{}, false
}

func findDateMatches(text string) []dateMatch {
	var matches []dateMatch
	for _, dp := range datePatterns {
		for _, idx := range dp.pattern.FindAllStringSubmatchIndex(text, -1) {
			groups := make([]string, 0, len(idx)/2-1)
			for g := 2; g+1 < len(idx); g += 2 {
				if idx[g] < 0 {
					groups = append(groups, "")
					continue
				}
				groups = append(groups, text[idx[g]:idx[g+1]])
			}
			matches = append(matches, dateMatch{start: idx[0], shape: dp.shape, groups: groups})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})
	return matches
}

func parseDateMatch(m dateMatch, now time.Time) (time.Time, bool) {
	var (
		month time.Month
		day   int
		year  int
		err   error
	)
	switch m.shape {
	case shapeMonthDay:
		month = monthsByName[strings.ToLower(m.groups[0])]
		if day, err = strconv.Atoi(m.groups[1]); err != nil {
			return time.Time{}, false
		}
		if m.groups[2] != "" {
			year, _ = strconv.Atoi(m.groups[2])
			if abs(year-now.Year()) > maxYearDistance {
				year = 0
			}
		}
	case shapeSlash, shapeDash:
		monthNum, err := strconv.Atoi(m.groups[0])
		if err != nil {
			return time.Time{}, false
		}
		month = time.Month(monthNum)
		if day, err = strconv.Atoi(m.groups[1]); err != nil {
			return time.Time{}, false
		}
		if year, ok := parseYear(m.groups[2], now); ok {
			return calendarDate(year, month, day, now.Location())
		}
		return time.Time{}, false
	}

	if month < time.January || month > time.December {
		return time.Time{}, false
	}
	if year == 0 {
		year = inferYear(month, day, now)
	}
	return calendarDate(year, month, day, now.Location())
}

// parseYear accepts four digit years as written and resolves two digit years
// into now's century.
func parseYear(raw string, now time.Time) (int, bool) {
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	switch len(raw) {
	case 2:
		return now.Year()/100*100 + year, true
	case 4:
		return year, true
	default:
		return 0, false
	}
}

// inferYear picks now's year for a year-less date unless that day is still in
// the future, in which case the customer meant last year.
func inferYear(month time.Month, day int, now time.Time) int {
	year := now.Year()
	if month > now.Month() || (month == now.Month() && day > now.Day()) {
		year--
	}
	return year
}

// calendarDate builds midnight of the given day, rejecting days that
// time.Date would silently normalize (April 31 becoming May 1).
func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if date.Year() != year || date.Month() != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
