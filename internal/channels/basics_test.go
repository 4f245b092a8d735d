package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBasics(t *testing.T) {
	tests := []struct {
		name string
		page testPage
		want PageBasics
	}{
		{
			name: "handle canonical",
			page: testPage{title: "Chan", avatar: "https://yt3.example/a.jpg", canonical: handleURL("@chan"), verified: true},
			want: PageBasics{Title: "Chan", AvatarURL: "https://yt3.example/a.jpg", Handle: "@chan", Verified: true},
		},
		{
			name: "id canonical",
			page: testPage{title: "Chan", canonical: idURL(testChannelID)},
			want: PageBasics{Title: "Chan", ID: testChannelID},
		},
		{
			name: "handle with trailing slash",
			page: testPage{canonical: handleURL("@chan") + "/"},
			want: PageBasics{Handle: "@chan"},
		},
		{
			name: "handle with subpath ignored",
			page: testPage{canonical: handleURL("@chan") + "/about"},
			want: PageBasics{},
		},
		{
			name: "foreign host ignored",
			page: testPage{canonical: "https://example.com/@chan"},
			want: PageBasics{},
		},
		{
			name: "escaped title",
			page: testPage{title: "Tom &amp; Jerry"},
			want: PageBasics{Title: "Tom & Jerry"},
		},
		{
			name: "no metadata",
			page: testPage{body: "hello"},
			want: PageBasics{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBasics(tt.page.String()))
		})
	}
}

func TestExtractBasics_VerifiedLabel(t *testing.T) {
	b := ExtractBasics(`<script>{"tooltip":"Verified"}</script>`)
	assert.True(t, b.Verified)
	assert.False(t, ExtractBasics(`<p>verified by users</p>`).Verified)
}

func TestPageBasics_HasIdentity(t *testing.T) {
	assert.False(t, PageBasics{Title: "x"}.HasIdentity())
	assert.True(t, PageBasics{Handle: "@x"}.HasIdentity())
	assert.True(t, PageBasics{ID: testChannelID}.HasIdentity())
}
