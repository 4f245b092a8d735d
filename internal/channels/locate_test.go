package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONAfter(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		marker string
		want   string
		ok     bool
	}{
		{"simple", `<script>var ytInitialData = {"a":1};</script>`, `var ytInitialData = `, `{"a":1}`, true},
		{"nested", `x = {"a":{"b":{}}} tail }`, `x = `, `{"a":{"b":{}}}`, true},
		{"brace in string", `x = {"a":"}{"} rest`, `x = `, `{"a":"}{"}`, true},
		{"escaped quote", `x = {"a":"\"}"} rest`, `x = `, `{"a":"\"}"}`, true},
		{"escaped backslash", `x = {"a":"\\"} rest`, `x = `, `{"a":"\\"}`, true},
		{"single quotes", `x = {'a':'}'} rest`, `x = `, `{'a':'}'}`, true},
		{"marker missing", `nothing`, `x = `, "", false},
		{"no brace", `x = [1,2]`, `x = `, "", false},
		{"unbalanced", `x = {"a":{`, `x = `, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONAfter(tt.html, tt.marker)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocatePayload(t *testing.T) {
	t.Run("first marker", func(t *testing.T) {
		n := LocatePayload(`<script>var ytInitialData = {"header":{"k":1}};</script>`, DefaultMarkers)
		require.NotNil(t, n)
		assert.NotNil(t, n.Path("header", "k"))
	})

	t.Run("later marker", func(t *testing.T) {
		n := LocatePayload(`<script>window["ytInitialData"] = {"ok":true};</script>`, DefaultMarkers)
		require.NotNil(t, n)
		assert.True(t, n.Get("ok").Truthy())
	})

	t.Run("unparseable candidate skipped", func(t *testing.T) {
		page := `var ytInitialData = {"a": nope};` + `"ytInitialData":{"b":2}`
		n := LocatePayload(page, DefaultMarkers)
		require.NotNil(t, n)
		assert.NotNil(t, n.Get("b"))
	})

	t.Run("json5 literal", func(t *testing.T) {
		n := LocatePayload(`var ytInitialData = {'title': 'x', list: [1,2,],};`, DefaultMarkers)
		require.NotNil(t, n)
		assert.Equal(t, "x", n.Get("title").Str)
		assert.Len(t, n.Get("list").Items, 2)
	})

	t.Run("absent", func(t *testing.T) {
		assert.Nil(t, LocatePayload(`<html>no data</html>`, DefaultMarkers))
	})
}
