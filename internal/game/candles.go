package game

import "math/rand"

// Trend biases synthetic candle generation
type Trend string

const (
	TrendUp       Trend = "up"
	TrendDown     Trend = "down"
	TrendSideways Trend = "sideways"
)

// Direction is a price-movement prediction
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// GenerateCandles builds a synthetic candle sequence as a biased random
// walk. The trend only shapes the displayed history; round answers are
// sampled independently. Per-candle moves stay within 3% of price.
func GenerateCandles(rng *rand.Rand, count int, startPrice float64, trend Trend) []Candle {
	candles := make([]Candle, 0, count)
	price := startPrice

	for i := 0; i < count; i++ {
		bias := 0.5
		switch trend {
		case TrendUp:
			bias = 0.6
		case TrendDown:
			bias = 0.4
		}

		change := (rng.Float64() - bias) * price * 0.03

		open := price
		close := price + change
		wick := rng.Float64() * abs(change) * 0.5

		candles = append(candles, Candle{
			Open:  open,
			High:  max(open, close) + wick,
			Low:   min(open, close) - rng.Float64()*abs(change)*0.5,
			Close: close,
		})
		price = close
	}

	return candles
}

// nextCandle extends a sequence by one candle in the given direction, moving
// price by 1-4%.
func nextCandle(rng *rand.Rand, lastPrice float64, direction Direction) Candle {
	sign := 1.0
	if direction == DirectionDown {
		sign = -1.0
	}

	change := sign * lastPrice * (0.01 + rng.Float64()*0.04)
	close := lastPrice + change

	return Candle{
		Open:  lastPrice,
		Close: close,
		High:  max(lastPrice, close) + abs(change)*0.3,
		Low:   min(lastPrice, close) - abs(change)*0.3,
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
