package pricing

import (
	"math"

	"tweeshirt-backend/models"
)

// Prices are in USD, mirroring the supplier's rate card.
const (
	PrintingPrice    = 2.00
	CourierCharge    = 0.60 // flat estimate; pincode-based rates are not live yet
	ProfitMargin     = 1.50
	GSTRate          = 0.05
	DefaultBasePrice = 2.75
)

var basePrices = map[string]float64{
	"S":   2.75,
	"M":   2.75,
	"L":   2.75,
	"XL":  2.75,
	"2XL": 2.95,
	"3XL": 3.20,
	"4XL": 3.45,
	"5XL": 3.60,
}

// BasePrice returns the supplier base price for a t-shirt size.
// Unknown or empty sizes fall back to the small-size price.
func BasePrice(size string) float64 {
	if price, ok := basePrices[size]; ok {
		return price
	}
	return DefaultBasePrice
}

// Compute builds the full price breakdown for a size and destination
// pincode. The pincode is accepted so a courier rate lookup can slot in
// later; today the charge is flat. All components are rounded to cents,
// the total from the unrounded sum so it never drifts from what was
// actually charged.
func Compute(size, pincode string) models.PriceBreakdown {
	basePrice := BasePrice(size)
	courierCharge := courierFor(pincode)

	subtotal := basePrice + PrintingPrice + courierCharge
	profit := subtotal * ProfitMargin
	gst := (subtotal + profit) * GSTRate
	total := subtotal + profit + gst

	return models.PriceBreakdown{
		BasePrice:     round2(basePrice),
		PrintingPrice: round2(PrintingPrice),
		CourierCharge: round2(courierCharge),
		Subtotal:      round2(subtotal),
		Profit:        round2(profit),
		GST:           round2(gst),
		Total:         round2(total),
	}
}

// courierFor will hold the pincode rate-card lookup once the courier
// integration goes live. Every destination costs the flat estimate today.
func courierFor(string) float64 {
	return CourierCharge
}

// Cents converts a non-negative amount to the smallest currency unit.
// The tiny relative nudge keeps half-cent amounts rounding up: 8.325
// is stored as 832.4999... hundredths in float64 and would otherwise
// round down.
func Cents(v float64) int64 {
	return int64(math.Round(v * 100 * (1 + 1e-12)))
}

func round2(v float64) float64 {
	return float64(Cents(v)) / 100
}
