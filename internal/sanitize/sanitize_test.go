package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		value    string
		fallback string
		want     string
	}{
		{name: "short form expands", value: "#abc", fallback: "#000000", want: "#aabbcc"},
		{name: "long form kept", value: "#a1b2c3", fallback: "#000000", want: "#a1b2c3"},
		{name: "upper case normalised", value: "#ABCDEF", fallback: "#000000", want: "#abcdef"},
		{name: "short upper case", value: "#F0A", fallback: "#000000", want: "#ff00aa"},
		{name: "surrounding whitespace", value: "  #fff ", fallback: "#000000", want: "#ffffff"},
		{name: "transparent literal", value: "transparent", fallback: "#000000", want: "transparent"},
		{name: "transparent any case", value: "Transparent", fallback: "#000000", want: "transparent"},
		{name: "garbage", value: "not-a-color", fallback: "#000000", want: "#000000"},
		{name: "missing hash", value: "abcdef", fallback: "#111111", want: "#111111"},
		{name: "four digits", value: "#abcd", fallback: "#000000", want: "#000000"},
		{name: "css injection", value: "#fff;background:url(x)", fallback: "#000000", want: "#000000"},
		{name: "empty", value: "", fallback: "#123456", want: "#123456"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Hex(tc.value, tc.fallback))
		})
	}
}

func TestHexIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"#abc", "#ABCDEF", "transparent", "nope"} {
		once := Hex(input, "#000000")
		require.Equal(t, once, Hex(once, "#000000"))
	}
}

func TestHref(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		want  string
	}{
		{value: "javascript:alert(1)", want: "#"},
		{value: "  JavaScript:alert(1)", want: "#"},
		{value: "", want: "#"},
		{value: "   ", want: "#"},
		{value: "example.com", want: "https://example.com"},
		{value: "/local", want: "/local"},
		{value: "#anchor", want: "#anchor"},
		{value: "//cdn.example.com/a.js", want: "//cdn.example.com/a.js"},
		{value: "http://example.com", want: "http://example.com"},
		{value: "HTTPS://Example.com/Path", want: "HTTPS://Example.com/Path"},
		{value: "mailto:hi@example.com", want: "mailto:hi@example.com"},
		{value: "tel:+123", want: "tel:+123"},
		{value: " https://example.com ", want: "https://example.com"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, Href(tc.value), "input %q", tc.value)
	}
}

func TestHrefNeverYieldsScript(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"javascript:void(0)", "JAVASCRIPT:x", "\tjavascript:x"} {
		require.False(t, strings.HasPrefix(strings.ToLower(Href(input)), "javascript:"))
	}
}

func TestRichTextStripsScripts(t *testing.T) {
	t.Parallel()

	out := RichText(`<p onclick="x()">Hello <strong>world</strong></p><script>alert(1)</script>`)
	require.Equal(t, "<p>Hello <strong>world</strong></p>", out)
}

func TestRichTextIsStable(t *testing.T) {
	t.Parallel()

	once := RichText(`<p class="lead">Tom &amp; Jerry</p><a href="https://example.com">link</a>`)
	require.Equal(t, once, RichText(once))
	require.Contains(t, once, `rel="nofollow"`)
}
