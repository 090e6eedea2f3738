package quote

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractUsesFirstMatchingStrategy(t *testing.T) {
	doc := mustDoc(t, `<div jsname="ip75Cb" class="kf1m0"><div class="YMlKec fxKbKc">52,000.00</div></div>`)

	v, strategy, err := NewNumericExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, 52000.0, v)
	assert.Equal(t, "exact-price", strategy)
}

func TestExtractFallsBackToGenericSelector(t *testing.T) {
	doc := mustDoc(t, `<div class="YMlKec">48,123.4567</div>`)

	v, strategy, err := NewNumericExtractor().Extract(doc)
	require.NoError(t, err)
	assert.InDelta(t, 48123.4567, v, 1e-9)
	assert.Equal(t, "generic-price", strategy)
}

func TestExtractSkipsUnparsableText(t *testing.T) {
	doc := mustDoc(t, `
		<div class="YMlKec fxKbKc">n/a</div>
		<div class="YMlKec">1,234.5</div>`)

	ex := NewNumericExtractor(
		SelectorStrategy{Label: "first", Selector: "div.fxKbKc"},
		SelectorStrategy{Label: "second", Selector: "div.YMlKec:not(.fxKbKc)"},
	)
	v, strategy, err := ex.Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, 1234.5, v)
	assert.Equal(t, "second", strategy)
}

func TestExtractReportsEveryAttempt(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>nothing here</p></body></html>`)

	_, _, err := NewNumericExtractor().Extract(doc)
	require.ErrorIs(t, err, ErrValueNotFound)

	var extractErr *ExtractError
	require.ErrorAs(t, err, &extractErr)
	assert.Len(t, extractErr.Attempts, 3)
	assert.Equal(t, "exact-price", extractErr.Attempts[0].Strategy)
}

func TestExtractIgnoresEmptyText(t *testing.T) {
	doc := mustDoc(t, `<div class="YMlKec fxKbKc">   </div>`)

	_, _, err := NewNumericExtractor().Extract(doc)
	assert.ErrorIs(t, err, ErrValueNotFound)
}

func TestStrategiesKeepOrder(t *testing.T) {
	assert.Equal(t, []string{"exact-price", "price-panel", "generic-price"}, NewNumericExtractor().Strategies())
}

func TestCandidatesAreLimited(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString(`<div class="x YMlKec-ish">?</div>`)
	}
	doc := mustDoc(t, b.String())

	got := NewNumericExtractor().Candidates(doc, 5)
	assert.Len(t, got, 5)
	assert.Contains(t, got[0], "YMlKec-ish")
}

func TestCandidatesMayBeEmpty(t *testing.T) {
	doc := mustDoc(t, `<p>plain</p>`)
	assert.Empty(t, NewNumericExtractor().Candidates(doc, 5))
}
