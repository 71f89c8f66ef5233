package metrics

import (
	"time"

	"github.com/sightline-lab/project-sightline/internal/core/session"
	"github.com/shopspring/decimal"
)

const outputScale = 2

var hundred = decimal.NewFromInt(100)

// Aggregate folds a finite batch of session records into a Snapshot
// generated at the given instant.
//
// The fold is commutative over count, conversions and revenue, so record
// order never affects the result. Revenue accumulates as exact decimals;
// rounding is applied only to the three derived output fields, never to
// intermediate sums. A record's cart value counts toward revenue whether or
// not the session converted.
//
// An empty batch yields an all-zero snapshot, not an error.
func Aggregate(records []session.Record, at time.Time) Snapshot {
	var conversions int64
	revenue := decimal.Zero
	for _, rec := range records {
		if rec.Converted {
			conversions++
		}
		revenue = revenue.Add(rec.CartValue)
	}

	total := int64(len(records))

	rate := decimal.Zero
	if total > 0 {
		rate = decimal.NewFromInt(conversions).
			Div(decimal.NewFromInt(total)).
			Mul(hundred).
			Round(outputScale)
	}

	avg := decimal.Zero
	if conversions > 0 {
		avg = revenue.Div(decimal.NewFromInt(conversions)).Round(outputScale)
	}

	return Snapshot{
		GeneratedAt:    at,
		TotalSessions:  total,
		Conversions:    conversions,
		ConversionRate: rate,
		TotalRevenue:   revenue.Round(outputScale),
		AvgCartValue:   avg,
	}
}
