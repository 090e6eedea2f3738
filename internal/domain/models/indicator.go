package models

import (
	"fmt"
	"time"
)

// DataSource labels where the indicator inputs come from.
const DataSource = "Wilshire 5000 index + FRED GDP"

// TimestampLayout is how capture times are shown to people.
const TimestampLayout = "2006-01-02 15:04:05"

// Report is the outcome of one indicator calculation.
type Report struct {
	RunID              string    `json:"run_id"`
	BuffettRatio       float64   `json:"buffett_ratio"`
	Valuation          Valuation `json:"valuation"`
	Wilshire5000       float64   `json:"wilshire_5000"`
	MarketCapTrillions float64   `json:"market_cap_trillions"`
	PointsPerTrillion  float64   `json:"points_per_trillion"`
	GDPTrillions       float64   `json:"gdp_trillions"`
	GDPBillions        float64   `json:"gdp_billions"`
	GDPDate            string    `json:"gdp_date,omitempty"`
	Strategy           string    `json:"strategy,omitempty"`
	DataSource         string    `json:"data_source"`
	Timestamp          time.Time `json:"timestamp"`
}

// FormattedTimestamp renders the capture time in local wall-clock form.
func (r *Report) FormattedTimestamp() string {
	return r.Timestamp.Format(TimestampLayout)
}

// MarketValue is a number scraped from the quote page together with the
// extraction strategy that produced it.
type MarketValue struct {
	Value    float64 `json:"value"`
	Strategy string  `json:"strategy"`
}

// Observation is one point of a FRED time series.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Valuation buckets the indicator ratio.
type Valuation int

const (
	SignificantlyUndervalued Valuation = iota + 1
	FairlyValued
	ModeratelyOvervalued
	SignificantlyOvervalued
	ExtremelyOvervalued
)

var valuationNames = map[Valuation]string{
	SignificantlyUndervalued: "significantly_undervalued",
	FairlyValued:             "fairly_valued",
	ModeratelyOvervalued:     "moderately_overvalued",
	SignificantlyOvervalued:  "significantly_overvalued",
	ExtremelyOvervalued:      "extremely_overvalued",
}

func (v Valuation) String() string {
	if name, ok := valuationNames[v]; ok {
		return name
	}
	return fmt.Sprintf("valuation(%d)", int(v))
}

// Description is the one-line interpretation shown in reports.
func (v Valuation) Description() string {
	switch v {
	case SignificantlyUndervalued:
		return "The stock market is significantly undervalued."
	case FairlyValued:
		return "The stock market is fairly valued."
	case ModeratelyOvervalued:
		return "The stock market is somewhat overvalued."
	case SignificantlyOvervalued:
		return "The stock market is significantly overvalued."
	case ExtremelyOvervalued:
		return "The stock market is extremely overvalued. Caution is advised."
	default:
		return "Unknown valuation."
	}
}

// Marker is the colored circle printed next to the description.
func (v Valuation) Marker() string {
	switch v {
	case SignificantlyUndervalued:
		return "🟢"
	case FairlyValued:
		return "🔵"
	case ModeratelyOvervalued:
		return "🟡"
	case SignificantlyOvervalued:
		return "🟠"
	case ExtremelyOvervalued:
		return "🔴"
	default:
		return "⚪"
	}
}

func (v Valuation) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Valuation) UnmarshalText(b []byte) error {
	for k, name := range valuationNames {
		if name == string(b) {
			*v = k
			return nil
		}
	}
	return fmt.Errorf("unknown valuation %q", string(b))
}
