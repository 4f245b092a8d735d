package channels

import (
	"fmt"
	"strings"
)

const testChannelID = "UCabcdefghijklmnopqrstuv"

type testPage struct {
	title     string
	avatar    string
	canonical string
	verified  bool
	data      string // embedded initial data, "" for none
	body      string // visible text
}

func (p testPage) String() string {
	var sb strings.Builder
	sb.WriteString("<html><head>")
	if p.title != "" {
		fmt.Fprintf(&sb, `<meta property="og:title" content="%s">`, p.title)
	}
	if p.avatar != "" {
		fmt.Fprintf(&sb, `<link rel="image_src" href="%s">`, p.avatar)
	}
	if p.canonical != "" {
		fmt.Fprintf(&sb, `<link rel="canonical" href="%s">`, p.canonical)
	}
	sb.WriteString("</head><body>")
	if p.verified {
		sb.WriteString(`<script>var badge = "BADGE_STYLE_TYPE_VERIFIED";</script>`)
	}
	if p.data != "" {
		fmt.Fprintf(&sb, `<script>var ytInitialData = %s;</script>`, p.data)
	}
	fmt.Fprintf(&sb, "<div>%s</div></body></html>", p.body)
	return sb.String()
}

func handleURL(handle string) string { return "https://www.youtube.com/" + handle }

func idURL(id string) string { return "https://www.youtube.com/channel/" + id }

// aboutData is initial data with the usual header and about renderers.
const aboutData = `{
	"header": {"c4TabbedHeaderRenderer": {
		"title": "Chan",
		"subscriberCountText": {"simpleText": "45.3K subscribers"},
		"videosCountText": {"runs": [{"text": "128"}, {"text": " videos"}]}
	}},
	"contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
		{"tabRenderer": {"content": {"sectionListRenderer": {"contents": [
			{"channelAboutFullMetadataRenderer": {
				"viewCountText": {"simpleText": "2,345,678 views"}
			}}
		]}}}}
	]}}
}`
