package scraper

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// MaxHTMLSize limits HTML input to 10MB to prevent memory exhaustion
const MaxHTMLSize = 10 * 1024 * 1024

var (
	ErrEmpty    = errors.New("html content required")
	ErrTooLarge = fmt.Errorf("html exceeds maximum size of %d bytes", MaxHTMLSize)
)

// Validate checks HTML size.
func Validate(markup string) error {
	if len(markup) == 0 {
		return ErrEmpty
	}
	if len(markup) > MaxHTMLSize {
		return ErrTooLarge
	}
	return nil
}

// DetectCharset guesses the encoding of data, defaulting to utf-8.
func DetectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// Load parses markup into a queryable document. Valid UTF-8 is parsed as is;
// anything else is run through charset detection first.
func Load(markup string) (*goquery.Document, error) {
	if err := Validate(markup); err != nil {
		return nil, err
	}

	var r io.Reader = strings.NewReader(markup)
	if !utf8.ValidString(markup) {
		label := DetectCharset([]byte(markup))
		if converted, err := charset.NewReaderLabel(label, r); err == nil {
			r = converted
		}
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	return doc, nil
}

// NormalizeWhitespace collapses runs of whitespace into single spaces and trims.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateRunes cuts s to at most limit code points. limit <= 0 disables the cap.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

// Sanitizer strips markup from untrusted text.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a sanitizer that removes every tag.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text returns in with all HTML removed and whitespace collapsed. Entities
// escaped by the policy are decoded again since the result is plain text.
func (s *Sanitizer) Text(in string) string {
	return NormalizeWhitespace(html.UnescapeString(s.policy.Sanitize(in)))
}
