package channels

import (
	"regexp"
	"sync"
)

const (
	suffixedNumber = `\d+(?:\.\d+)?` + space + `*[KMB]|` + groupedNumber
	groupedNumber  = `\d{1,3}(?:(?:,|` + space + `)\d{3})+|\d+`
)

var labelPatterns sync.Map // "label|suffix" → *regexp.Regexp

func labelPattern(label string, allowSuffix bool) *regexp.Regexp {
	key := label + "|0"
	num := groupedNumber
	if allowSuffix {
		key = label + "|1"
		num = suffixedNumber
	}
	if re, ok := labelPatterns.Load(key); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)\b(` + num + `)` + space + `+` + regexp.QuoteMeta(label) + `\b`)
	labelPatterns.Store(key, re)
	return re
}

// NumberBeforeLabel finds the first number token immediately followed by
// label in plain text ("1,234 subscribers") and normalizes it. allowSuffix
// admits abbreviated tokens such as "12.3K"; otherwise only grouped or bare
// digits match.
func NumberBeforeLabel(text, label string, allowSuffix bool) Count {
	m := labelPattern(label, allowSuffix).FindStringSubmatch(text)
	if m == nil {
		return Count{}
	}
	return ParseCount(m[1])
}
