package handlers

import (
	"time"

	"tradeup/internal/game"
	"tradeup/internal/models"
	"tradeup/internal/service"
)

// UserView is the public shape of an account
type UserView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newUserView(u *models.User) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// ProgressView is the user's progress and economy state
type ProgressView struct {
	XP               int  `json:"xp"`
	XPToNextLevel    int  `json:"xpToNextLevel"`
	Level            int  `json:"level"`
	Streak           int  `json:"streak"`
	Hearts           int  `json:"hearts"`
	Coins            int  `json:"coins"`
	LessonsCompleted int  `json:"lessonsCompleted"`
	DailyGoal        int  `json:"dailyGoal"`
	DailyProgress    int  `json:"dailyProgress"`
	IsPremium        bool `json:"isPremium"`
}

func newProgressView(p *models.UserProgress) ProgressView {
	return ProgressView{
		XP:               p.XP,
		XPToNextLevel:    p.XPToNextLevel,
		Level:            p.Level,
		Streak:           p.Streak,
		Hearts:           p.Hearts,
		Coins:            p.Coins,
		LessonsCompleted: p.LessonsCompleted,
		DailyGoal:        p.DailyGoal,
		DailyProgress:    p.DailyProgress,
		IsPremium:        p.IsPremium,
	}
}

// LeaderboardEntryView is one leaderboard row
type LeaderboardEntryView struct {
	Rank        int    `json:"rank"`
	DisplayName string `json:"displayName"`
	Level       int    `json:"level"`
	XP          int    `json:"xp"`
	Streak      int    `json:"streak"`
}

func newLeaderboardView(entries []models.LeaderboardEntry) []LeaderboardEntryView {
	views := make([]LeaderboardEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, LeaderboardEntryView{
			Rank:        e.Rank,
			DisplayName: e.DisplayName,
			Level:       e.Level,
			XP:          e.XP,
			Streak:      e.Streak,
		})
	}
	return views
}

// LessonSummaryView is a catalog row with the user's completion state
type LessonSummaryView struct {
	ID          string `json:"id"`
	ModuleID    string `json:"moduleId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	OrderIndex  int    `json:"orderIndex"`
	XPReward    int    `json:"xpReward"`
	CoinReward  int    `json:"coinReward"`
	IsPremium   bool   `json:"isPremium"`
	Questions   int    `json:"questions"`
	Completed   bool   `json:"completed"`
	Score       int    `json:"score"`
}

func newLessonSummaryView(s service.LessonStatus) LessonSummaryView {
	return LessonSummaryView{
		ID:          s.Lesson.ID,
		ModuleID:    s.Lesson.ModuleID,
		Title:       s.Lesson.Title,
		Description: s.Lesson.Description,
		Difficulty:  s.Lesson.Difficulty,
		OrderIndex:  s.Lesson.OrderIndex,
		XPReward:    s.Lesson.XPReward,
		CoinReward:  s.Lesson.CoinReward,
		IsPremium:   s.Lesson.IsPremium,
		Questions:   len(s.Lesson.Content),
		Completed:   s.Completed,
		Score:       s.Score,
	}
}

// QuestionView is a lesson question with the answer fields stripped. The
// client learns the outcome from the answer endpoint, never from the
// question payload.
type QuestionView struct {
	Type            models.QuestionType `json:"type"`
	Question        string              `json:"question,omitempty"`
	Options         []string            `json:"options,omitempty"`
	Statement       string              `json:"statement,omitempty"`
	Sentence        string              `json:"sentence,omitempty"`
	Scenario        string              `json:"scenario,omitempty"`
	PatternKey      string              `json:"patternKey,omitempty"`
	ShowPatternName bool                `json:"showPatternName,omitempty"`
	Candles         []game.Candle       `json:"candles,omitempty"`
}

func newQuestionView(q models.Question) QuestionView {
	view := QuestionView{Type: q.Type()}

	switch question := q.(type) {
	case models.MultipleChoiceQuestion:
		view.Question = question.Question
		view.Options = question.Options
	case models.TrueFalseQuestion:
		view.Statement = question.Statement
	case models.FillBlankQuestion:
		view.Sentence = question.Sentence
	case models.SwipeQuestion:
		view.Scenario = question.Scenario
	case models.PatternRecognitionQuestion:
		view.PatternKey = question.PatternKey
		view.ShowPatternName = question.ShowPatternName
		view.Candles = patternCandles(question.PatternKey)
	case models.PatternNamingQuestion:
		view.PatternKey = question.PatternKey
		view.Options = question.Options
		view.Candles = patternCandles(question.PatternKey)
	}
	return view
}

func patternCandles(key string) []game.Candle {
	pattern, ok := game.PatternByKey(key)
	if !ok {
		return nil
	}
	return pattern.Candles
}

// DrillRoundView is a drill round with the answer stripped. The pattern
// name is only present when the round shows it or asks for recognition by
// name.
type DrillRoundView struct {
	Kind          game.DrillKind `json:"kind"`
	PatternKey    string         `json:"patternKey"`
	PatternName   string         `json:"patternName,omitempty"`
	Candles       []game.Candle  `json:"candles"`
	HighlightLast int            `json:"highlightLast"`
	Options       []string       `json:"options,omitempty"`
}

func newDrillRoundView(round game.DrillRound) DrillRoundView {
	view := DrillRoundView{
		Kind:          round.Kind,
		PatternKey:    round.Pattern.Key,
		Candles:       round.Pattern.Candles,
		HighlightLast: round.Pattern.HighlightLast,
		Options:       round.Options,
	}
	if round.ShowPatternName {
		view.PatternName = round.Pattern.Name
	}
	return view
}

// ChartRoundView is a chart round before the reveal
type ChartRoundView struct {
	Round   int           `json:"round"`
	Total   int           `json:"total"`
	Candles []game.Candle `json:"candles"`
}

// BattleRoundView is a battle round before the reveal
type BattleRoundView struct {
	Round         int     `json:"round"`
	Total         int     `json:"total"`
	Symbol        string  `json:"symbol"`
	StartPrice    float64 `json:"startPrice"`
	TimeRemaining float64 `json:"timeRemaining"`
}

// PortfolioView is the paper-trading account summary
type PortfolioView struct {
	ID              string  `json:"id"`
	Balance         float64 `json:"balance"`
	TotalValue      float64 `json:"totalValue"`
	TotalProfitLoss float64 `json:"totalProfitLoss"`
}

func newPortfolioView(p *models.Portfolio) PortfolioView {
	return PortfolioView{
		ID:              p.ID,
		Balance:         p.Balance,
		TotalValue:      p.TotalValue,
		TotalProfitLoss: p.TotalProfitLoss,
	}
}

// HoldingView is one open position
type HoldingView struct {
	Symbol      string  `json:"symbol"`
	AssetType   string  `json:"assetType"`
	Quantity    float64 `json:"quantity"`
	AvgBuyPrice float64 `json:"avgBuyPrice"`
}

func newHoldingViews(holdings []models.Holding) []HoldingView {
	views := make([]HoldingView, 0, len(holdings))
	for _, h := range holdings {
		views = append(views, HoldingView{
			Symbol:      h.Symbol,
			AssetType:   h.AssetType,
			Quantity:    h.Quantity,
			AvgBuyPrice: h.AvgBuyPrice,
		})
	}
	return views
}

// TradeView is one executed paper trade
type TradeView struct {
	ID         string           `json:"id"`
	Symbol     string           `json:"symbol"`
	AssetType  string           `json:"assetType"`
	TradeType  models.TradeType `json:"tradeType"`
	Quantity   float64          `json:"quantity"`
	Price      float64          `json:"price"`
	TotalValue float64          `json:"totalValue"`
	ExecutedAt time.Time        `json:"executedAt"`
}

func newTradeView(t models.Trade) TradeView {
	return TradeView{
		ID:         t.ID,
		Symbol:     t.Symbol,
		AssetType:  t.AssetType,
		TradeType:  t.TradeType,
		Quantity:   t.Quantity,
		Price:      t.Price,
		TotalValue: t.TotalValue,
		ExecutedAt: t.ExecutedAt,
	}
}
