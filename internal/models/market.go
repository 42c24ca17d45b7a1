package models

// Quote is a single price sample for a stock symbol. The engine treats it
// as opaque input.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previousClose"`
	Volume        int64   `json:"volume"`
}

// SymbolSearchResult is one match from a keyword symbol search
type SymbolSearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Region string `json:"region"`
}

// CryptoListing is a crypto asset with its recent price history for
// sparkline rendering
type CryptoListing struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	ChangePercent float64   `json:"changePercent"`
	MarketCap     float64   `json:"marketCap"`
	Sparkline     []float64 `json:"sparkline,omitempty"`
}
