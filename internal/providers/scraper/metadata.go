package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Signals are the raw structural counts of a page.
type Signals struct {
	Headings       int // h1 to h4
	Metas          int
	StructuredData int // elements carrying itemtype
	OpenGraph      int // meta elements with an og: property
	Anchors        int // a elements carrying href
	BrokenLinks    int // anchors whose href is empty or a fragment
	Images         int
	ImagesWithAlt  int
}

// AltCoverage is the share of images with non-empty alt text. A page with no
// images counts as fully covered.
func (s Signals) AltCoverage() float64 {
	total := max(s.Images, 1)
	missing := s.Images - s.ImagesWithAlt
	return float64(total-missing) / float64(total)
}

// LinkHealth is the share of anchors that point somewhere. A page with no
// anchors counts as healthy.
func (s Signals) LinkHealth() float64 {
	total := max(s.Anchors, 1)
	return float64(total-s.BrokenLinks) / float64(total)
}

// Analyze parses markup and counts its structural signals.
func Analyze(markup string) (Signals, error) {
	doc, err := Load(markup)
	if err != nil {
		return Signals{}, err
	}
	return AnalyzeDocument(doc)
}

// AnalyzeDocument counts structural signals on an already parsed document.
func AnalyzeDocument(doc *goquery.Document) (Signals, error) {
	var s Signals

	s.Headings = doc.Find("h1, h2, h3, h4").Length()
	s.Metas = doc.Find("meta").Length()

	anchors := doc.Find("a[href]")
	s.Anchors = anchors.Length()
	anchors.Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			s.BrokenLinks++
		}
	})

	images := doc.Find("img")
	s.Images = images.Length()
	images.Each(func(_ int, img *goquery.Selection) {
		if strings.TrimSpace(img.AttrOr("alt", "")) != "" {
			s.ImagesWithAlt++
		}
	})

	if len(doc.Nodes) == 0 {
		return s, nil
	}
	root := doc.Nodes[0]

	var err error
	if s.StructuredData, err = countXPath(root, xpathStructuredData); err != nil {
		return s, err
	}
	if s.OpenGraph, err = countXPath(root, xpathOpenGraph); err != nil {
		return s, err
	}
	return s, nil
}
