package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// invisible elements are dropped before text is collected.
const invisible = "script, style, noscript"

// VisibleText returns the whitespace-normalized text of markup, without
// script, style and noscript content, capped at maxChars code points.
// Empty markup yields empty text.
func VisibleText(markup string, maxChars int) (string, error) {
	if markup == "" {
		return "", nil
	}

	doc, err := Load(markup)
	if err != nil {
		return "", err
	}
	doc.Find(invisible).Remove()

	var parts []string
	for _, root := range doc.Nodes {
		collectText(root, &parts)
	}

	text := NormalizeWhitespace(strings.Join(parts, " "))
	return TruncateRunes(text, maxChars), nil
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if s := strings.TrimSpace(n.Data); s != "" {
			*parts = append(*parts, s)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
