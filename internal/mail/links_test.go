package mail

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	t.Run("html anchors yield text and href", func(t *testing.T) {
		body := `<html><body>
			<p>Read <a href="https://example.com/guide">the guide</a> and
			<a href="https://example.com/faq">the
			FAQ</a>.</p>
		</body></html>`
		links := extractLinks(body)
		require.Len(t, links, 2)
		require.Equal(t, "the guide", links[0].Text)
		require.Equal(t, "https://example.com/guide", links[0].URL)
		require.Equal(t, "the FAQ", links[1].Text)
	})

	t.Run("duplicate hrefs and fragment anchors are skipped", func(t *testing.T) {
		body := `<a href="https://example.com">one</a>
			<a href="https://example.com">two</a>
			<a href="#top">back to top</a>
			<a href="">blank</a>`
		links := extractLinks(body)
		require.Len(t, links, 1)
		require.Equal(t, "one", links[0].Text)
	})

	t.Run("anchor without text falls back to the href", func(t *testing.T) {
		links := extractLinks(`<a href="https://example.com/img"><img src="x.png"/></a>`)
		require.Len(t, links, 1)
		require.Equal(t, "https://example.com/img", links[0].Text)
	})

	t.Run("plain text bodies get a url scan", func(t *testing.T) {
		body := "Docs at https://example.com/docs, tracker at http://issues.example.com/42."
		links := extractLinks(body)
		require.Len(t, links, 2)
		require.Equal(t, "https://example.com/docs", links[0].URL)
		require.Equal(t, "http://issues.example.com/42", links[1].URL)
	})

	t.Run("the list is capped", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < maxExtractedLinks+10; i++ {
			fmt.Fprintf(&sb, "https://example.com/page/%d\n", i)
		}
		require.Len(t, extractLinks(sb.String()), maxExtractedLinks)
	})

	t.Run("a body with no links yields nothing", func(t *testing.T) {
		require.Empty(t, extractLinks("just words, no urls"))
	})
}
