package mail

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sebbaker/apple-mcp/pkg/types"
)

const maxExtractedLinks = 20

var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// extractLinks pulls hyperlinks out of a message body. HTML bodies yield
// anchor text and href pairs; plain-text bodies fall back to a URL scan.
// The list is capped and deduplicated by URL.
func extractLinks(body string) []types.Link {
	var links []types.Link
	if strings.Contains(body, "<a") || strings.Contains(body, "<A") {
		links = extractAnchors(body)
	}
	if len(links) == 0 {
		links = extractBareURLs(body)
	}
	return links
}

func extractAnchors(body string) []types.Link {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{})
	var links []types.Link
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		if _, dup := seen[href]; dup {
			return true
		}
		seen[href] = struct{}{}
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" {
			text = href
		}
		links = append(links, types.Link{Text: text, URL: href})
		return len(links) < maxExtractedLinks
	})
	return links
}

func extractBareURLs(body string) []types.Link {
	seen := make(map[string]struct{})
	var links []types.Link
	for _, url := range urlPattern.FindAllString(body, -1) {
		url = strings.TrimRight(url, ".,;")
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		links = append(links, types.Link{Text: url, URL: url})
		if len(links) >= maxExtractedLinks {
			break
		}
	}
	return links
}
