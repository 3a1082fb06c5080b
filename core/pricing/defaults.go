package pricing

import "billboard-pricing/core/types"

// defaultSizePrices is the last step of the fallback chain
var defaultSizePrices = map[types.Size]int64{
	"5x13": 24000,
	"4x12": 18000,
	"4x10": 15000,
	"3x8":  10000,
	"3x6":  8000,
	"3x4":  6000,
}

// DefaultPrice returns the hardcoded monthly price for a size, or 0
func DefaultPrice(size types.Size) int64 {
	return defaultSizePrices[size]
}

// DefaultPrices returns a copy of the hardcoded size table
func DefaultPrices() map[types.Size]int64 {
	out := make(map[types.Size]int64, len(defaultSizePrices))
	for k, v := range defaultSizePrices {
		out[k] = v
	}
	return out
}
