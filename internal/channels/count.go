package channels

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Count is an optional non-negative integer. The zero value is absent, which
// is distinct from a present 0: a channel may hide a figure on purpose.
type Count struct {
	value int64
	ok    bool
}

// CountOf returns a present Count.
func CountOf(v int64) Count { return Count{value: v, ok: true} }

// Present reports whether c holds a value.
func (c Count) Present() bool { return c.ok }

// Get returns the value and whether it is present.
func (c Count) Get() (int64, bool) { return c.value, c.ok }

// Value returns the value, or 0 when absent.
func (c Count) Value() int64 { return c.value }

// Or returns c when present, otherwise the result of fn.
// fn is not evaluated when c is already present.
func (c Count) Or(fn func() Count) Count {
	if c.ok {
		return c
	}
	return fn()
}

// String renders the value or an em dash placeholder.
func (c Count) String() string {
	if !c.ok {
		return "—"
	}
	return strconv.FormatInt(c.value, 10)
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.ok {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, c.value, 10), nil
}

func (c *Count) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = Count{}
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = CountOf(v)
	return nil
}

// FirstPresent returns the first present Count, or absent.
func FirstPresent(counts ...Count) Count {
	for _, c := range counts {
		if c.ok {
			return c
		}
	}
	return Count{}
}

// space matches whitespace including the no-break and narrow no-break
// spaces pages use as digit group separators.
const space = `[\s\x{00A0}\x{202F}]`

var (
	countSepRe     = regexp.MustCompile(`[,\s\x{00A0}\x{202F}]`)
	suffixedRe     = regexp.MustCompile(`^([\d.]+)([KMB])?$`)
	plainDigitsRe  = regexp.MustCompile(`^\d{1,15}$`)
	numberTokenRe  = regexp.MustCompile(`(?i)\b\d+(?:(?:,|` + space + `)\d{3})+\b|\b\d+(?:\.\d+)?` + space + `*[KMB]\b|\b\d+\b`)
	maxPlainDigits = 15
)

var suffixMultiplier = map[string]float64{
	"K": 1e3,
	"M": 1e6,
	"B": 1e9,
}

// ParseCount converts a human-readable count token ("12.3K", "1,234,567",
// "1 234") into an integer. Suffixed values are rounded to the nearest unit.
// Empty or unparseable tokens give an absent Count.
func ParseCount(token string) Count {
	t := strings.ToUpper(countSepRe.ReplaceAllString(token, ""))
	if t == "" {
		return Count{}
	}

	m := suffixedRe.FindStringSubmatch(t)
	if m == nil {
		return Count{}
	}
	if m[2] == "" && !strings.Contains(m[1], ".") {
		if !plainDigitsRe.MatchString(m[1]) {
			return Count{}
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Count{}
		}
		return CountOf(n)
	}

	intPart, _, _ := strings.Cut(m[1], ".")
	if len(intPart) > maxPlainDigits {
		return Count{}
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Count{}
	}
	if mul, ok := suffixMultiplier[m[2]]; ok {
		f *= mul
	}
	f = math.Round(f)
	if f >= math.MaxInt64 {
		return Count{}
	}
	return CountOf(int64(f))
}

// FirstNumberToken returns the first number-like token in a display string
// such as "45.3K subscribers" or "2,345,678 views", or "" when none.
func FirstNumberToken(s string) string {
	return numberTokenRe.FindString(s)
}

// countFromText parses the first number token of a display string.
func countFromText(s string) Count {
	return ParseCount(FirstNumberToken(s))
}
