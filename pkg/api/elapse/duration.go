package elapse

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDuration = errors.New("invalid duration")

// maxSeconds is the longest whole-second span a time.Duration holds, about 292 years.
const maxSeconds = math.MaxInt64 / int64(time.Second)

var termRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-zA-Z]+)`)
var expressionRegexp = regexp.MustCompile(`^(?:\s*\d+(?:\.\d+)?\s*[a-zA-Z]+)+\s*$`)
var secondsRegexp = regexp.MustCompile(`^\s*\d+(?:\.\d+)?\s*$`)

type unit struct {
	name    string
	seconds float64
}

var (
	unitSecond = unit{"second", 1}
	unitMinute = unit{"minute", 60}
	unitHour   = unit{"hour", 60 * 60}
	unitDay    = unit{"day", 60 * 60 * 24}
	unitWeek   = unit{"week", 60 * 60 * 24 * 7}
	unitMonth  = unit{"month", 60 * 60 * 24 * 30}
	unitYear   = unit{"year", 60 * 60 * 24 * 365}
)

func parseUnit(s string) (unit, bool) {
	switch strings.ToLower(s) {
	case "s", "sec", "secs", "second", "seconds":
		return unitSecond, true
	case "m", "min", "mins", "minute", "minutes":
		return unitMinute, true
	case "h", "hr", "hrs", "hour", "hours":
		return unitHour, true
	case "d", "day", "days":
		return unitDay, true
	case "w", "week", "weeks":
		return unitWeek, true
	case "mo", "mos", "month", "months":
		return unitMonth, true
	case "y", "yr", "yrs", "year", "years":
		return unitYear, true
	default:
		return unit{}, false
	}
}

type term struct {
	quantity float64
	unit     unit
}

func parseTerms(expr string) ([]term, error) {
	if secondsRegexp.MatchString(expr) {
		quantity, err := strconv.ParseFloat(strings.TrimSpace(expr), 64)
		if err != nil {
			return nil, fmt.Errorf("%w, %s", ErrInvalidDuration, expr)
		}
		return []term{{quantity, unitSecond}}, nil
	}

	if !expressionRegexp.MatchString(expr) {
		return nil, fmt.Errorf("%w, %s", ErrInvalidDuration, expr)
	}

	terms := make([]term, 0)
	for _, matches := range termRegexp.FindAllStringSubmatch(expr, -1) {
		quantity, err := strconv.ParseFloat(matches[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w, invalid quantity %s", ErrInvalidDuration, matches[1])
		}

		u, ok := parseUnit(matches[2])
		if !ok {
			return nil, fmt.Errorf("%w, invalid unit %s", ErrInvalidDuration, matches[2])
		}

		terms = append(terms, term{quantity, u})
	}

	return terms, nil
}

// ParseDuration reads expressions such as "1w", "45min", "2h30min" or "1h 30m". A bare number is
// a count of seconds.
func ParseDuration(expr string) (time.Duration, error) {
	terms, err := parseTerms(expr)
	if err != nil {
		return 0, err
	}

	seconds := 0.0
	for _, t := range terms {
		seconds += t.quantity * t.unit.seconds
	}

	seconds = math.Round(seconds)
	if seconds > float64(maxSeconds) {
		return 0, fmt.Errorf("%w, %s is too long", ErrInvalidDuration, expr)
	}

	d := time.Second * time.Duration(seconds)
	if d <= 0 {
		return 0, fmt.Errorf("%w, %s", ErrInvalidDuration, expr)
	}

	return d, nil
}

// ParseDurationDescription renders an expression for people, e.g. "2h30min" as "2 hours 30 minutes".
func ParseDurationDescription(expr string) string {
	terms, err := parseTerms(expr)
	if err != nil {
		return "invalid duration"
	}

	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.quantity == 1 {
			parts = append(parts, fmt.Sprintf("%g %s", t.quantity, t.unit.name))
		} else {
			parts = append(parts, fmt.Sprintf("%g %ss", t.quantity, t.unit.name))
		}
	}

	return strings.Join(parts, " ")
}
