package channels

import (
	"log/slog"
	"strings"

	"github.com/titanous/json5"
)

// DefaultMarkers precede the embedded initial-data assignment on a channel page.
var DefaultMarkers = []string{
	`var ytInitialData = `,
	`window["ytInitialData"] = `,
	`window['ytInitialData'] = `,
	`"ytInitialData":`,
}

// ExtractJSONAfter returns the brace-balanced object that starts at the first
// '{' after marker. Braces inside single- or double-quoted strings are
// ignored and backslash escapes are honored, so script string literals
// containing '{' or '}' do not unbalance the scan.
func ExtractJSONAfter(html, marker string) (string, bool) {
	i := strings.Index(html, marker)
	if i < 0 {
		return "", false
	}
	rel := strings.IndexByte(html[i+len(marker):], '{')
	if rel < 0 {
		return "", false
	}
	start := i + len(marker) + rel

	depth := 0
	var quote byte
	escaped := false
	for j := start; j < len(html); j++ {
		c := html[j]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return html[start : j+1], true
			}
		}
	}
	return "", false
}

// LocatePayload tries each marker in order and returns the first embedded
// object that parses, or nil. Strict JSON is tried first; script literals
// that only a JSON5 parser accepts (single quotes, trailing commas) fall
// back to json5.
func LocatePayload(html string, markers []string) *Node {
	for _, m := range markers {
		raw, ok := ExtractJSONAfter(html, m)
		if !ok {
			continue
		}
		if n, err := ParseNode([]byte(raw)); err == nil {
			return n
		}
		var v any
		err := json5.Unmarshal([]byte(raw), &v)
		if err == nil {
			slog.Debug("payload parsed as json5", slog.String("marker", m))
			return nodeFromValue(v)
		}
		slog.Debug("payload parse failed", slog.String("marker", m), slog.Any("error", err))
	}
	return nil
}
