package channels

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	channelIDRe  = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
	urlSchemeRe  = regexp.MustCompile(`(?i)^https?://`)
	urlChannelRe = regexp.MustCompile(`/channel/([A-Za-z0-9_-]{24})`)
	urlHandleRe  = regexp.MustCompile(`/@([^/?#]+)`)
)

// IsChannelID reports whether s is a canonical channel id.
func IsChannelID(s string) bool { return channelIDRe.MatchString(s) }

// IsHandle reports whether s is an @-prefixed handle.
func IsHandle(s string) bool { return strings.HasPrefix(s, "@") }

func isURL(s string) bool { return urlSchemeRe.MatchString(s) }

// NormalizeInput trims s and reduces channel URLs to their id or handle.
// Other URLs (legacy /user/ or /c/ paths) and bare names pass through.
func NormalizeInput(s string) string {
	t := strings.TrimSpace(s)
	if !isURL(t) {
		return t
	}
	u, err := url.Parse(t)
	if err != nil {
		return t
	}
	path := u.EscapedPath()
	if m := urlChannelRe.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	if m := urlHandleRe.FindStringSubmatch(path); m != nil {
		return "@" + m[1]
	}
	return t
}

// PrepareInputs normalizes raw identifiers, drops blanks and removes
// duplicates, keeping first-seen order.
func PrepareInputs(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		n := NormalizeInput(r)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// MatchesPage reports whether the fetched page belongs to input.
// A handle or id is compared exactly when the page exposes the same kind of
// identifier. Otherwise, as for legacy identifiers, any channel identity on
// the page is accepted.
func MatchesPage(input string, b PageBasics) bool {
	switch {
	case IsHandle(input) && b.Handle != "":
		return strings.EqualFold(input, b.Handle)
	case IsChannelID(input) && b.ID != "":
		return input == b.ID
	}
	return b.HasIdentity()
}

// ChannelURL returns the channel page URL for a normalized input.
func ChannelURL(baseURL, input string) string {
	switch {
	case isURL(input):
		return strings.TrimRight(input, "/")
	case IsHandle(input):
		return baseURL + "/" + input
	case IsChannelID(input):
		return baseURL + "/channel/" + input
	}
	return baseURL + "/@" + strings.TrimPrefix(input, "@")
}
