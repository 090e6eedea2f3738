package quote

import (
	"errors"
	"fmt"
	"strings"

	"BuffettIndicator/pkg/util"

	"github.com/PuerkitoBio/goquery"
)

// ErrValueNotFound means no strategy produced a number from the document.
var ErrValueNotFound = errors.New("quote: value not found with any strategy")

// Strategy locates the text holding the value inside a parsed page.
type Strategy interface {
	Name() string
	Locate(doc *goquery.Document) (string, bool)
}

// SelectorStrategy takes the text of the first element matching a CSS selector.
type SelectorStrategy struct {
	Label    string
	Selector string
}

func (s SelectorStrategy) Name() string { return s.Label }

func (s SelectorStrategy) Locate(doc *goquery.Document) (string, bool) {
	sel := doc.Find(s.Selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	text := strings.TrimSpace(sel.Text())
	return text, text != ""
}

// DefaultStrategies are tried in order against the Google Finance quote page.
func DefaultStrategies() []Strategy {
	return []Strategy{
		SelectorStrategy{Label: "exact-price", Selector: "div.YMlKec.fxKbKc"},
		SelectorStrategy{Label: "price-panel", Selector: `div[jsname="ip75Cb"].kf1m0 div.YMlKec.fxKbKc`},
		SelectorStrategy{Label: "generic-price", Selector: "div.YMlKec"},
	}
}

// Attempt records why a single strategy did not produce a value.
type Attempt struct {
	Strategy string
	Text     string
	Err      error
}

// ExtractError carries every failed attempt.
type ExtractError struct {
	Attempts []Attempt
}

func (e *ExtractError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Strategy, a.Err))
	}
	return fmt.Sprintf("%v (%s)", ErrValueNotFound, strings.Join(parts, "; "))
}

func (e *ExtractError) Unwrap() error { return ErrValueNotFound }

var errNoMatch = errors.New("no matching element")

// NumericExtractor pulls one number out of a document by trying its
// strategies in order until one yields parsable text.
type NumericExtractor struct {
	strategies  []Strategy
	diagnostics string
}

// NewNumericExtractor builds an extractor. With no strategies it uses
// DefaultStrategies.
func NewNumericExtractor(strategies ...Strategy) *NumericExtractor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &NumericExtractor{
		strategies:  strategies,
		diagnostics: `div[class*="YMlKec"]`,
	}
}

// Strategies returns the names in evaluation order.
func (e *NumericExtractor) Strategies() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

// Extract returns the value and the name of the strategy that found it.
func (e *NumericExtractor) Extract(doc *goquery.Document) (float64, string, error) {
	attempts := make([]Attempt, 0, len(e.strategies))
	for _, s := range e.strategies {
		text, ok := s.Locate(doc)
		if !ok {
			attempts = append(attempts, Attempt{Strategy: s.Name(), Err: errNoMatch})
			continue
		}
		v, err := util.ParseGroupedFloat(text)
		if err != nil {
			attempts = append(attempts, Attempt{Strategy: s.Name(), Text: text, Err: err})
			continue
		}
		return v, s.Name(), nil
	}
	return 0, "", &ExtractError{Attempts: attempts}
}

// Candidates lists up to limit elements that look like price containers.
// The listing is best-effort and may be empty.
func (e *NumericExtractor) Candidates(doc *goquery.Document, limit int) []string {
	var out []string
	doc.Find(e.diagnostics).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if html, err := goquery.OuterHtml(s); err == nil {
			out = append(out, html)
		}
		return len(out) < limit
	})
	return out
}
