package channels

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PageBasics is the identity and display metadata of a fetched channel page.
type PageBasics struct {
	Title     string
	AvatarURL string
	Handle    string
	ID        string
	Verified  bool
}

// HasIdentity reports whether the page exposes a canonical handle or id.
func (b PageBasics) HasIdentity() bool {
	return b.Handle != "" || b.ID != ""
}

var (
	canonicalIDRe = regexp.MustCompile(`^/channel/([A-Za-z0-9_-]{24})`)
	handlePathRe  = regexp.MustCompile(`^/(@[^/?#]+)/?$`)
	verifiedRe    = regexp.MustCompile(`(?i)BADGE_STYLE_TYPE_VERIFIED|"Verified"`)
)

const canonicalHost = "www.youtube.com"

// ExtractBasics reads title, avatar, canonical handle or id and the verified
// badge from page metadata. It never fails: unreadable fields stay empty.
func ExtractBasics(page string) PageBasics {
	var b PageBasics
	b.Verified = verifiedRe.MatchString(page)

	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return b
	}
	doc := goquery.NewDocumentFromNode(root)

	b.Title, _ = doc.Find(`meta[property="og:title"]`).First().Attr("content")
	b.AvatarURL, _ = doc.Find(`link[rel="image_src"]`).First().Attr("href")

	canonical, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok {
		return b
	}
	u, err := url.Parse(canonical)
	if err != nil || !strings.EqualFold(u.Host, canonicalHost) {
		return b
	}
	path := u.EscapedPath()
	if m := handlePathRe.FindStringSubmatch(path); m != nil {
		b.Handle = m[1]
	}
	if m := canonicalIDRe.FindStringSubmatch(path); m != nil {
		b.ID = m[1]
	}
	return b
}
