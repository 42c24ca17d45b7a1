package game

// Candle is a single OHLC candlestick
type Candle struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Pattern is a named candlestick pattern used by lessons and drills
type Pattern struct {
	Key           string
	Name          string
	Candles       []Candle
	HighlightLast int
	IsBullish     bool
}

// patternCatalog holds the fixed set of teachable patterns, in display order
var patternCatalog = []Pattern{
	{
		Key:  "bullishEngulfing",
		Name: "Bullish Engulfing",
		Candles: []Candle{
			{Open: 100, High: 102, Low: 95, Close: 96},
			{Open: 96, High: 98, Low: 94, Close: 95},
			{Open: 95, High: 96, Low: 93, Close: 94},
			{Open: 94, High: 95, Low: 92, Close: 93},
			{Open: 92, High: 100, Low: 91, Close: 99},
		},
		HighlightLast: 2,
		IsBullish:     true,
	},
	{
		Key:  "bearishEngulfing",
		Name: "Bearish Engulfing",
		Candles: []Candle{
			{Open: 90, High: 95, Low: 89, Close: 94},
			{Open: 94, High: 98, Low: 93, Close: 97},
			{Open: 97, High: 100, Low: 96, Close: 99},
			{Open: 99, High: 101, Low: 98, Close: 100},
			{Open: 101, High: 102, Low: 93, Close: 94},
		},
		HighlightLast: 2,
		IsBullish:     false,
	},
	{
		Key:  "hammer",
		Name: "Hammer",
		Candles: []Candle{
			{Open: 100, High: 101, Low: 97, Close: 98},
			{Open: 98, High: 99, Low: 94, Close: 95},
			{Open: 95, High: 96, Low: 90, Close: 91},
			{Open: 91, High: 92, Low: 85, Close: 86},
			{Open: 85, High: 89, Low: 80, Close: 88},
		},
		HighlightLast: 1,
		IsBullish:     true,
	},
	{
		Key:  "shootingStar",
		Name: "Shooting Star",
		Candles: []Candle{
			{Open: 85, High: 88, Low: 84, Close: 87},
			{Open: 87, High: 91, Low: 86, Close: 90},
			{Open: 90, High: 94, Low: 89, Close: 93},
			{Open: 93, High: 97, Low: 92, Close: 96},
			{Open: 97, High: 105, Low: 96, Close: 98},
		},
		HighlightLast: 1,
		IsBullish:     false,
	},
	{
		Key:  "doji",
		Name: "Doji",
		Candles: []Candle{
			{Open: 95, High: 98, Low: 94, Close: 97},
			{Open: 97, High: 100, Low: 96, Close: 99},
			{Open: 99, High: 102, Low: 98, Close: 101},
			{Open: 101, High: 104, Low: 100, Close: 103},
			{Open: 103, High: 107, Low: 99, Close: 103.2},
		},
		HighlightLast: 1,
		// Signals indecision, scored as a reversal warning
		IsBullish: false,
	},
	{
		Key:  "morningStar",
		Name: "Morning Star",
		Candles: []Candle{
			{Open: 100, High: 101, Low: 95, Close: 96},
			{Open: 96, High: 97, Low: 91, Close: 92},
			{Open: 92, High: 93, Low: 88, Close: 89},
			{Open: 88, High: 90, Low: 86, Close: 87.5},
			{Open: 88, High: 95, Low: 87, Close: 94},
		},
		HighlightLast: 3,
		IsBullish:     true,
	},
	{
		Key:  "eveningStar",
		Name: "Evening Star",
		Candles: []Candle{
			{Open: 88, High: 92, Low: 87, Close: 91},
			{Open: 91, High: 96, Low: 90, Close: 95},
			{Open: 95, High: 100, Low: 94, Close: 99},
			{Open: 100, High: 102, Low: 99, Close: 100.5},
			{Open: 100, High: 101, Low: 93, Close: 94},
		},
		HighlightLast: 3,
		IsBullish:     false,
	},
	{
		Key:  "doubleBottom",
		Name: "Double Bottom",
		Candles: []Candle{
			{Open: 100, High: 101, Low: 96, Close: 97},
			{Open: 97, High: 98, Low: 90, Close: 91},
			{Open: 91, High: 95, Low: 90, Close: 94},
			{Open: 94, High: 95, Low: 89, Close: 90},
			{Open: 90, High: 97, Low: 89, Close: 96},
		},
		HighlightLast: 4,
		IsBullish:     true,
	},
	{
		Key:  "headAndShoulders",
		Name: "Head & Shoulders",
		Candles: []Candle{
			{Open: 90, High: 95, Low: 89, Close: 94},
			{Open: 94, High: 100, Low: 93, Close: 99},
			{Open: 99, High: 105, Low: 98, Close: 100},
			{Open: 100, High: 101, Low: 94, Close: 95},
			{Open: 95, High: 96, Low: 88, Close: 89},
		},
		HighlightLast: 5,
		IsBullish:     false,
	},
	{
		Key:  "threeWhiteSoldiers",
		Name: "Three White Soldiers",
		Candles: []Candle{
			{Open: 90, High: 91, Low: 87, Close: 88},
			{Open: 88, High: 89, Low: 85, Close: 86},
			{Open: 87, High: 92, Low: 86, Close: 91},
			{Open: 91, High: 96, Low: 90, Close: 95},
			{Open: 95, High: 100, Low: 94, Close: 99},
		},
		HighlightLast: 3,
		IsBullish:     true,
	},
}

// Patterns returns the pattern catalog in display order
func Patterns() []Pattern {
	return patternCatalog
}

// PatternByKey looks up a pattern in the catalog
func PatternByKey(key string) (Pattern, bool) {
	for _, p := range patternCatalog {
		if p.Key == key {
			return p, true
		}
	}
	return Pattern{}, false
}
