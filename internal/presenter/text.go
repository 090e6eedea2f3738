// Package presenter renders indicator reports for people.
package presenter

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"BuffettIndicator/internal/domain/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// UnavailableMessage is printed when no report could be produced.
const UnavailableMessage = "❌ Unable to calculate Buffett Indicator."

// WriteText renders r with English digit grouping.
func WriteText(w io.Writer, r *models.Report) error {
	p := message.NewPrinter(language.English)
	bw := bufio.NewWriter(w)

	ratio := formatRatio(r.BuffettRatio)
	p.Fprintf(bw, "\n🔢 Current Buffett Indicator: %s%%\n", ratio)

	p.Fprintf(bw, "\n📊 Detailed Information:\n")
	p.Fprintf(bw, "- Wilshire 5000 Index: %.2f\n", r.Wilshire5000)
	p.Fprintf(bw, "- US Stock Market Value: $%.3f trillion\n", r.MarketCapTrillions)
	p.Fprintf(bw, "- US GDP: $%.3f trillion ($%.2f billion)\n", r.GDPTrillions, r.GDPBillions)
	if r.GDPDate != "" {
		p.Fprintf(bw, "- GDP Observation Date: %s\n", r.GDPDate)
	}
	p.Fprintf(bw, "- Data Source: %s\n", r.DataSource)
	p.Fprintf(bw, "- Measurement Time: %s\n", r.FormattedTimestamp())

	p.Fprintf(bw, "\n💡 Calculation:\n")
	p.Fprintf(bw, "Buffett Indicator = ($%.3fT ÷ $%.3fT) × 100 = %s%%\n",
		r.MarketCapTrillions, r.GDPTrillions, ratio)

	p.Fprintf(bw, "\n📈 Buffett Indicator Interpretation:\n")
	p.Fprintf(bw, "- %s %s\n", r.Valuation.Marker(), r.Valuation.Description())

	if r.PointsPerTrillion > 0 {
		p.Fprintf(bw, "\nNote: market value assumes %.0f index points per $1 trillion of market capitalization.\n",
			r.PointsPerTrillion)
	}
	return bw.Flush()
}

// formatRatio prints the shortest form of an already rounded ratio, keeping
// one decimal for whole numbers: 100 -> "100.0", 75.5 -> "75.5".
func formatRatio(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// WriteUnavailable prints the failure line.
func WriteUnavailable(w io.Writer) error {
	_, err := io.WriteString(w, UnavailableMessage+"\n")
	return err
}
