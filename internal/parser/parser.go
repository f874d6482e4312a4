package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fastjson"
)

// DefaultTimestampLayout is the layout winston writes for
// timestamp({format: "YYYY-MM-DD HH:mm:ss"}).
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// ParseTimestamp parses ts with the given layout. The default layout goes
// through a hand-rolled parser that rejects anything but exactly
// "YYYY-MM-DD HH:MM:SS": no fractions, no zone, no surrounding whitespace.
func ParseTimestamp(ts, layout string) (time.Time, error) {
	if layout == "" || layout == DefaultTimestampLayout {
		return fastTimestamp(ts)
	}
	return time.Parse(layout, ts)
}

func fastTimestamp(ts string) (time.Time, error) {
	if len(ts) != len(DefaultTimestampLayout) ||
		ts[4] != '-' || ts[7] != '-' || ts[10] != ' ' || ts[13] != ':' || ts[16] != ':' {
		return time.Time{}, fmt.Errorf("timestamp does not match %q: %q", DefaultTimestampLayout, ts)
	}

	year := parseInt4(ts[0:4])
	month := parseInt2(ts[5:7])
	day := parseInt2(ts[8:10])
	hour := parseInt2(ts[11:13])
	min := parseInt2(ts[14:16])
	sec := parseInt2(ts[17:19])

	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 ||
		hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return time.Time{}, fmt.Errorf("timestamp out of range: %q", ts)
	}

	t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
	// time.Date normalises 2024-02-30 into March
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("day out of range for month: %q", ts)
	}
	return t, nil
}

// parseInt2 parses a 2-digit decimal string. Returns -1 on error.
func parseInt2(s string) int {
	if len(s) != 2 {
		return -1
	}
	d1, d2 := s[0]-'0', s[1]-'0'
	if d1 > 9 || d2 > 9 {
		return -1
	}
	return int(d1)*10 + int(d2)
}

// parseInt4 parses a 4-digit decimal string. Returns -1 on error.
func parseInt4(s string) int {
	if len(s) != 4 {
		return -1
	}
	d1, d2, d3, d4 := s[0]-'0', s[1]-'0', s[2]-'0', s[3]-'0'
	if d1 > 9 || d2 > 9 || d3 > 9 || d4 > 9 {
		return -1
	}
	return int(d1)*1000 + int(d2)*100 + int(d3)*10 + int(d4)
}

// errNotNumeric is returned by coerceFloat for values with no float reading.
var errNotNumeric = errors.New("value is not numeric")

// coerceFloat converts a message field to float64. A missing field reads as 0.
// The monitor writes readings with toFixed(2), so numeric strings are common;
// booleans read as 1 and 0. Null, objects, arrays and other strings fail.
func coerceFloat(v *fastjson.Value) (float64, error) {
	if v == nil {
		return 0, nil
	}
	switch v.Type() {
	case fastjson.TypeNumber:
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		// an integer literal too large for float64 has no reading;
		// exponent literals such as 1e400 still read as ±Inf
		if math.IsInf(f, 0) && !strings.ContainsAny(v.String(), ".eE") {
			return 0, fmt.Errorf("%w: integer %s overflows", errNotNumeric, v.String())
		}
		return f, nil
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		f, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
		if err != nil {
			// overflow still yields ±Inf, which is a valid reading
			if errors.Is(err, strconv.ErrRange) {
				return f, nil
			}
			return 0, fmt.Errorf("%w: %q", errNotNumeric, b)
		}
		return f, nil
	case fastjson.TypeTrue:
		return 1, nil
	case fastjson.TypeFalse:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %s", errNotNumeric, v.Type())
	}
}
