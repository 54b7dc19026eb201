// Package when turns free-text answers like "tomorrow", "3d", "Oct 20" or
// "9pm" into concrete dates and clock times. Inputs are tried in a fixed
// order: explicit layouts, duration expressions, month-day forms, named
// relatives.
package when

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nleeper/goment"
)

// ErrUnparsable is wrapped into every parse failure.
var ErrUnparsable = errors.New("when: unparsable input")

// Day-first layouts win over month-first, matching the bot's user base.
var dateLayouts = []string{
	"DD-MM-YYYY", "DD/MM/YYYY", "DD-MM-YY", "DD/MM/YY", "DD.MM.YYYY", "DD.MM.YY",
	"YYYY-MM-DD",
	"MM-DD-YYYY", "MM/DD/YYYY", "MM-DD-YY", "MM/DD/YY", "MM.DD.YYYY", "MM.DD.YY",
}

var timeLayouts = []string{
	"h:mmA", "h:mm A", "hA", "h A",
	"HH:mm:ss", "HH:mm", "HH",
}

var (
	dateDurationRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?) ?(d|days?|w|weeks?|mo|mons?|months?|y|years?)\b`)
	timeDurationRe = regexp.MustCompile(`(?i)(\d+) ?(s|secs?|seconds?|m|mins?|minutes?|h|hrs?|hours?)\b`)
	monthDayRe     = regexp.MustCompile(`(?i)^([a-z]{3,9})\.? ?(\d{1,2})(?:st|nd|rd|th)?$`)
)

var dateUnitSeconds = map[byte]float64{
	'd': 86400,
	'w': 604800,
	'o': 2592000, // mo, month
	'y': 31536000,
}

var timeUnitSeconds = map[byte]int{
	's': 1,
	'm': 60,
	'h': 3600,
}

// Date parses raw into a calendar date. The returned time carries a zero
// clock in now's location.
func Date(raw string, now time.Time) (time.Time, error) {
	arg := strings.ToLower(strings.TrimSpace(raw))
	if arg == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrUnparsable)
	}

	for _, layout := range dateLayouts {
		if g, err := goment.New(arg, layout); err == nil {
			return day(g.ToTime(), now), nil
		}
	}

	if matches := dateDurationRe.FindAllStringSubmatch(arg, -1); matches != nil {
		var total float64
		for _, m := range matches {
			n, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, raw)
			}
			unit := m[2]
			key := unit[0]
			if strings.HasPrefix(unit, "mo") {
				key = 'o'
			}
			secs, ok := dateUnitSeconds[key]
			if !ok {
				return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, raw)
			}
			total += n * secs
		}
		return day(now.Add(time.Duration(total)*time.Second), now), nil
	}

	if m := monthDayRe.FindStringSubmatch(arg); m != nil {
		for _, layout := range []string{"MMMM D", "MMM D"} {
			if g, err := goment.New(m[1]+" "+m[2], layout); err == nil {
				d := g.ToTime()
				return time.Date(now.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location()), nil
			}
		}
	}

	switch arg {
	case "today", "now":
		return day(now, now), nil
	case "tomorrow", "tmr":
		return day(now.AddDate(0, 0, 1), now), nil
	case "next week", "in a week", "in 1 week", "in one week":
		return day(now.AddDate(0, 0, 7), now), nil
	case "next month", "in a month", "in 1 month", "in one month":
		return day(now.AddDate(0, 0, 30), now), nil
	case "next year", "in a year", "in 1 year", "in one year":
		return day(now.AddDate(0, 0, 365), now), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, raw)
}

// Clock parses raw into a wall-clock time anchored to now's date. A bare
// morning hour already past today is pushed into the afternoon, so "9" at
// 14:00 means 21:00.
func Clock(raw string, now time.Time) (time.Time, error) {
	arg := strings.ToLower(strings.TrimSpace(raw))
	if arg == "" {
		return time.Time{}, fmt.Errorf("%w: empty time", ErrUnparsable)
	}

	for _, layout := range timeLayouts {
		g, err := goment.New(strings.ToUpper(arg), layout)
		if err != nil {
			continue
		}
		t := g.ToTime()
		at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location())
		if at.Before(now) && at.Hour() < 12 {
			at = at.Add(12 * time.Hour)
		}
		return at, nil
	}

	if matches := timeDurationRe.FindAllStringSubmatch(arg, -1); matches != nil {
		total := 0
		for _, m := range matches {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, raw)
			}
			secs, ok := timeUnitSeconds[m[2][0]]
			if !ok {
				return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, raw)
			}
			total += n * secs
		}
		return now.Add(time.Duration(total) * time.Second), nil
	}

	switch arg {
	case "noon", "midday":
		return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location()), nil
	case "midnight":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	case "now":
		return now, nil
	case "next hour", "in an hour", "in 1 hour", "in one hour":
		return now.Add(time.Hour), nil
	case "next minute", "in a minute", "in 1 minute", "in one minute":
		return now.Add(time.Minute), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, raw)
}

// day truncates t to its date in ref's location.
func day(t time.Time, ref time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, ref.Location())
}
