package metrics

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a derived, point-in-time summary of a batch of session
// records. It is a pure aggregate: immutable once built, carrying no
// reference back to the records it summarized beyond the counts.
type Snapshot struct {
	GeneratedAt   time.Time `json:"generated_at"`
	TotalSessions int64     `json:"total_sessions"`
	Conversions   int64     `json:"conversions"`

	// ConversionRate is conversions / total_sessions * 100, rounded to two
	// decimal places. Zero when the batch is empty.
	ConversionRate decimal.Decimal `json:"conversion_rate"`

	// TotalRevenue is the sum of cart_value over all considered records,
	// rounded to two decimal places at output only.
	TotalRevenue decimal.Decimal `json:"total_revenue"`

	// AvgCartValue is total_revenue / conversions, rounded to two decimal
	// places. Zero when there are no conversions.
	AvgCartValue decimal.Decimal `json:"avg_cart_value"`
}

// MarshalJSON emits the derived fields as JSON numbers. The fold stays
// exact internally; float64 appears only at the serialization boundary,
// and the values are already rounded to two places so the conversion is
// lossless for any realistic magnitude.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type wireSnapshot struct {
		GeneratedAt    time.Time `json:"generated_at"`
		TotalSessions  int64     `json:"total_sessions"`
		Conversions    int64     `json:"conversions"`
		ConversionRate float64   `json:"conversion_rate"`
		TotalRevenue   float64   `json:"total_revenue"`
		AvgCartValue   float64   `json:"avg_cart_value"`
	}
	return json.Marshal(wireSnapshot{
		GeneratedAt:    s.GeneratedAt,
		TotalSessions:  s.TotalSessions,
		Conversions:    s.Conversions,
		ConversionRate: s.ConversionRate.InexactFloat64(),
		TotalRevenue:   s.TotalRevenue.InexactFloat64(),
		AvgCartValue:   s.AvgCartValue.InexactFloat64(),
	})
}
