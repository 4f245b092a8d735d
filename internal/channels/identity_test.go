package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsChannelID(t *testing.T) {
	assert.True(t, IsChannelID(testChannelID))
	assert.True(t, IsChannelID("UC_x-yz0123456789ABCDEFG"))
	assert.False(t, IsChannelID("UCshort"))
	assert.False(t, IsChannelID("XYabcdefghijklmnopqrstuv"))
	assert.False(t, IsChannelID(testChannelID+"a"))
}

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  @chan  ", "@chan"},
		{testChannelID, testChannelID},
		{"https://www.youtube.com/channel/" + testChannelID, testChannelID},
		{"https://www.youtube.com/channel/" + testChannelID + "/videos", testChannelID},
		{"https://www.youtube.com/@chan", "@chan"},
		{"HTTPS://youtube.com/@chan/about?x=1", "@chan"},
		{"https://www.youtube.com/user/legacy", "https://www.youtube.com/user/legacy"},
		{"LegacyName", "LegacyName"},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeInput(tt.in))
		})
	}
}

func TestPrepareInputs(t *testing.T) {
	got := PrepareInputs([]string{"@b", " @a", "", "https://www.youtube.com/@b", "@a", "c"})
	assert.Equal(t, []string{"@b", "@a", "c"}, got)
}

func TestMatchesPage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		page  PageBasics
		want  bool
	}{
		{"handle exact", "@Chan", PageBasics{Handle: "@Chan"}, true},
		{"handle case-insensitive", "@chan", PageBasics{Handle: "@CHAN"}, true},
		{"handle differs", "@chan", PageBasics{Handle: "@other"}, false},
		{"handle with id-only page", "@chan", PageBasics{ID: testChannelID}, true},
		{"handle with no identity", "@chan", PageBasics{Title: "Chan"}, false},
		{"id exact", testChannelID, PageBasics{ID: testChannelID}, true},
		{"id differs", testChannelID, PageBasics{ID: "UCzzzzzzzzzzzzzzzzzzzzzz"}, false},
		{"id with handle-only page", testChannelID, PageBasics{Handle: "@chan"}, true},
		{"id with no identity", testChannelID, PageBasics{Title: "Chan"}, false},
		{"legacy with handle", "LegacyName", PageBasics{Handle: "@legacy"}, true},
		{"legacy with id", "LegacyName", PageBasics{ID: testChannelID}, true},
		{"legacy without identity", "LegacyName", PageBasics{Title: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesPage(tt.input, tt.page))
		})
	}
}

func TestChannelURL(t *testing.T) {
	const base = "https://www.youtube.com"
	assert.Equal(t, base+"/@chan", ChannelURL(base, "@chan"))
	assert.Equal(t, base+"/channel/"+testChannelID, ChannelURL(base, testChannelID))
	assert.Equal(t, base+"/@LegacyName", ChannelURL(base, "LegacyName"))
	assert.Equal(t, "https://www.youtube.com/user/legacy", ChannelURL(base, "https://www.youtube.com/user/legacy/"))
}
