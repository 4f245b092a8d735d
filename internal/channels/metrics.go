package channels

import (
	"regexp"

	"github.com/anatolykoptev/go_channels/internal/engine"
)

// Metrics is the resolved set of channel counters. Any field may be absent.
type Metrics struct {
	Subscribers Count
	Views       Count
	Videos      Count
}

func (m Metrics) complete() bool {
	return m.Subscribers.Present() && m.Views.Present() && m.Videos.Present()
}

// VideoSanityPolicy rejects a text-derived video count that is likely a
// neighbouring number caught by the label heuristic.
type VideoSanityPolicy struct {
	// RejectEqual discards a count equal to the resolved subscriber or view count.
	RejectEqual bool
	// MaxVideos discards counts above this ceiling. 0 disables the ceiling.
	MaxVideos int64
}

// DefaultVideoSanity is the policy used when none is configured.
var DefaultVideoSanity = VideoSanityPolicy{RejectEqual: true, MaxVideos: 1_000_000}

// Accept reports whether a text-derived video count survives the policy.
func (p VideoSanityPolicy) Accept(videos int64, m Metrics) bool {
	if p.RejectEqual {
		if s, ok := m.Subscribers.Get(); ok && s != 0 && videos == s {
			return false
		}
		if v, ok := m.Views.Get(); ok && v != 0 && videos == v {
			return false
		}
	}
	return p.MaxVideos <= 0 || videos <= p.MaxVideos
}

// resolveState is the accumulator handed down the step chain.
type resolveState struct {
	payload *Node
	html    string
	text    string
	policy  VideoSanityPolicy
	m       Metrics
}

// plainText converts the document lazily; most pages never need it.
func (st *resolveState) plainText() string {
	if st.text == "" {
		st.text = engine.HTMLToText(st.html)
	}
	return st.text
}

// metricsStep fills whichever fields of the accumulator are still absent.
type metricsStep func(st *resolveState)

var metricsChain = []metricsStep{
	headerStep,
	aboutStep,
	deepSearchStep,
	textFallbackStep,
}

var viewsQualifierRe = regexp.MustCompile(`(?i)views`)

// ResolveMetrics assembles subscriber, view and video counts from the
// structured payload (may be nil), falling back to text patterns in html.
func ResolveMetrics(payload *Node, html string, policy VideoSanityPolicy) Metrics {
	st := &resolveState{payload: payload, html: html, policy: policy}
	for _, step := range metricsChain {
		if st.m.complete() {
			break
		}
		step(st)
	}
	return st.m
}

func videosText(n *Node) *Node {
	return n.Field("videosCountText", "videoCountText")
}

// headerStep reads the channel header renderer in either known layout.
func headerStep(st *resolveState) {
	header := st.payload.Path("header", "c4TabbedHeaderRenderer")
	if !header.Truthy() {
		header = st.payload.Path("header", "pageHeaderRenderer", "content", "pageHeaderViewModel", "c4TabbedHeaderRenderer")
	}
	if !header.Truthy() {
		return
	}
	st.m.Subscribers = st.m.Subscribers.Or(func() Count {
		return countFromText(TextOf(header.Get("subscriberCountText")))
	})
	st.m.Videos = st.m.Videos.Or(func() Count {
		return countFromText(TextOf(videosText(header)))
	})
}

// aboutStep reads the about metadata renderer for lifetime views.
func aboutStep(st *resolveState) {
	holder := Find(st.payload, HasKey("channelAboutFullMetadataRenderer"))
	if holder == nil {
		return
	}
	about := holder.Get("channelAboutFullMetadataRenderer")
	st.m.Views = st.m.Views.Or(func() Count {
		return countFromText(TextOf(about.Get("viewCountText")))
	})
	st.m.Videos = st.m.Videos.Or(func() Count {
		return countFromText(TextOf(videosText(about)))
	})
}

// deepSearchStep takes the first node anywhere in the payload that carries
// the wanted key, covering layouts the named renderers miss.
func deepSearchStep(st *resolveState) {
	if st.payload == nil {
		return
	}
	st.m.Subscribers = st.m.Subscribers.Or(func() Count {
		n := Find(st.payload, HasKey("subscriberCountText"))
		return countFromText(TextOf(n.Get("subscriberCountText")))
	})
	st.m.Videos = st.m.Videos.Or(func() Count {
		n := Find(st.payload, HasKey("videosCountText", "videoCountText"))
		return countFromText(TextOf(videosText(n)))
	})
	st.m.Views = st.m.Views.Or(func() Count {
		n := Find(st.payload, func(n *Node) bool {
			v := n.Get("viewCountText")
			return v.Truthy() && viewsQualifierRe.MatchString(TextOf(v))
		})
		return countFromText(TextOf(n.Get("viewCountText")))
	})
}

// textFallbackStep derives missing fields from the visible page text.
// Video counts are rarely abbreviated, so the grouped grammar goes first.
func textFallbackStep(st *resolveState) {
	engine.IncrTextFallback()
	st.m.Subscribers = st.m.Subscribers.Or(func() Count {
		return NumberBeforeLabel(st.plainText(), "subscribers", true)
	})
	st.m.Views = st.m.Views.Or(func() Count {
		return NumberBeforeLabel(st.plainText(), "views", true)
	})
	st.m.Videos = st.m.Videos.Or(func() Count {
		vids := NumberBeforeLabel(st.plainText(), "videos", false).Or(func() Count {
			return NumberBeforeLabel(st.plainText(), "videos", true)
		})
		if v, ok := vids.Get(); ok && !st.policy.Accept(v, st.m) {
			return Count{}
		}
		return vids
	})
}
