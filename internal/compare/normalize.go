package compare

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const significantDigits = 9

// maxExactInt is the largest magnitude at which every integer is exactly
// representable as a float64.
const maxExactInt = 1 << 53

var numericString = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Normalize maps a driver value to a comparison token. Numbers of any Go
// type, and strings that look like numbers, share one canonical form;
// floats are rounded to 9 significant digits first.
func Normalize(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		if x {
			return "n:1"
		}
		return "n:0"
	case int:
		return "n:" + strconv.FormatInt(int64(x), 10)
	case int8:
		return "n:" + strconv.FormatInt(int64(x), 10)
	case int16:
		return "n:" + strconv.FormatInt(int64(x), 10)
	case int32:
		return "n:" + strconv.FormatInt(int64(x), 10)
	case int64:
		return "n:" + strconv.FormatInt(x, 10)
	case uint:
		return "n:" + strconv.FormatUint(uint64(x), 10)
	case uint8:
		return "n:" + strconv.FormatUint(uint64(x), 10)
	case uint16:
		return "n:" + strconv.FormatUint(uint64(x), 10)
	case uint32:
		return "n:" + strconv.FormatUint(uint64(x), 10)
	case uint64:
		return "n:" + strconv.FormatUint(x, 10)
	case float32:
		return "n:" + formatFloat(float64(x))
	case float64:
		return "n:" + formatFloat(x)
	case []byte:
		return normalizeString(string(x))
	case string:
		return normalizeString(x)
	case time.Time:
		return "s:" + x.UTC().Format(time.RFC3339)
	default:
		return "s:" + fmt.Sprint(x)
	}
}

func normalizeString(s string) string {
	t := strings.TrimSpace(s)
	if numericString.MatchString(t) {
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			if !strings.ContainsAny(t, ".eE") {
				if i, err := strconv.ParseInt(t, 10, 64); err == nil {
					return "n:" + strconv.FormatInt(i, 10)
				}
			}
			return "n:" + formatFloat(f)
		}
	}
	return "s:" + s
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	if isExactInt(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'g', significantDigits, 64), 64)
	if isExactInt(r) {
		return strconv.FormatInt(int64(r), 10)
	}
	return strconv.FormatFloat(r, 'g', -1, 64)
}

func isExactInt(f float64) bool {
	return f == math.Trunc(f) && math.Abs(f) < maxExactInt
}
