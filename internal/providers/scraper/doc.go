// Package scraper parses fetched HTML and extracts what the audit scores:
// visible text and structural signals.
//
// Built on:
//   - goquery: CSS selectors and tree edits
//   - htmlquery: XPath for attribute-prefix queries
//   - chardet: encoding detection for non-UTF-8 markup
//   - bluemonday: stripping markup from untrusted text
//
// Example Usage:
//
//	text, err := scraper.VisibleText(markup, 100_000)
//	signals, err := scraper.Analyze(markup)
//	fmt.Println(signals.Headings, signals.AltCoverage())
package scraper
