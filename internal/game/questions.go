package game

// QuizQuestion is one multiple-choice question in the quick quiz bank
type QuizQuestion struct {
	Prompt       string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"-"`
}

// quizBank is the fixed question pool quizzes sample from
var quizBank = []QuizQuestion{
	{
		Prompt:       "What does 'bullish' mean in trading?",
		Options:      []string{"Expecting prices to fall", "Expecting prices to rise", "Market is closed", "High volatility"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What is a 'stop-loss' order?",
		Options:      []string{"An order to buy more", "An order to sell at profit", "An order to limit losses", "A market order"},
		CorrectIndex: 2,
	},
	{
		Prompt:       "What does P/E ratio stand for?",
		Options:      []string{"Profit/Expense", "Price/Earnings", "Performance/Equity", "Potential/Estimate"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What is market capitalization?",
		Options:      []string{"Total company debt", "Share price x shares outstanding", "Annual revenue", "Profit margin"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What does 'going short' mean?",
		Options:      []string{"Buying quickly", "Selling borrowed shares", "Small investment", "Day trading"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What is a dividend?",
		Options:      []string{"Stock split", "Company debt", "Profit paid to shareholders", "Trading fee"},
		CorrectIndex: 2,
	},
	{
		Prompt:       "What is an IPO?",
		Options:      []string{"Internal Price Option", "Initial Public Offering", "Investment Portfolio Order", "Index Performance Outcome"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What does 'bearish' indicate?",
		Options:      []string{"Market optimism", "Market pessimism", "Neutral market", "High volume"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What is a candlestick chart used for?",
		Options:      []string{"Tracking dividends", "Showing price movement", "Calculating taxes", "Measuring volume only"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What is diversification?",
		Options:      []string{"Buying one stock", "Spreading investments", "Day trading", "Shorting stocks"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What is a limit order?",
		Options:      []string{"Unlimited buying", "Order at specific price", "Market price order", "Stop order"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What does ROI stand for?",
		Options:      []string{"Rate of Interest", "Return on Investment", "Risk of Investment", "Revenue of Income"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What is a bull market?",
		Options:      []string{"Declining prices", "Rising prices", "Flat market", "Volatile market"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What is liquidity?",
		Options:      []string{"Company profits", "Ease of buying/selling", "Debt level", "Market timing"},
		CorrectIndex: 1,
	},
	{
		Prompt:       "What is a portfolio?",
		Options:      []string{"Single stock", "Collection of investments", "Trading platform", "Market index"},
		CorrectIndex: 1,
	},
}

// QuizBank returns the full question pool
func QuizBank() []QuizQuestion {
	return quizBank
}
