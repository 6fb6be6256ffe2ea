package scraper

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

const (
	xpathStructuredData = "//*[@itemtype]"
	xpathOpenGraph      = "//meta[starts-with(@property, 'og:')]"
)

// countXPath returns the number of nodes under root matching expr.
func countXPath(root *html.Node, expr string) (int, error) {
	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return 0, fmt.Errorf("xpath %q: %w", expr, err)
	}
	return len(nodes), nil
}
