package reservation

type PriceCalculator interface {
	PriceCents(nightlyRateCents int64, period StayPeriod) int64
}

// NightlyPriceCalculator prices a stay as nights times the nightly rate.
// All amounts are integer cents, so no rounding can occur. Taxes, fees and
// discounts are out of scope.
type NightlyPriceCalculator struct{}

func NewNightlyPriceCalculator() *NightlyPriceCalculator {
	return &NightlyPriceCalculator{}
}

func (c *NightlyPriceCalculator) PriceCents(nightlyRateCents int64, period StayPeriod) int64 {
	return int64(period.Nights()) * nightlyRateCents
}
