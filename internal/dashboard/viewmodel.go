package dashboard

import (
	"github.com/tidwall/gjson"

	"stockpulse/internal/backend"
)

// ViewModel is the per-request aggregate handed to the templates. It is
// built fresh for every request and discarded once the page is written.
type ViewModel struct {
	Symbol    string
	Error     string
	ErrorBody string
	Stock     *StockSnapshot
	News      []NewsItem
	UserText  string
	Analysis  *UserAnalysis
}

// StockSnapshot holds the stock-info fields. Scalars the backend omitted
// stay nil/empty here; the template substitutes "N/A" at render time.
type StockSnapshot struct {
	LivePrice         *float64
	Beta              *float64
	IdiosyncraticRisk *float64
	SentimentImpact   *float64
	Notes             string
	Trend             *SentimentTrend
}

type SentimentTrend struct {
	Bullish  *int64
	Bearish  *int64
	Neutral  *int64
	Dominant string
}

type NewsItem struct {
	Headline   string
	Link       string
	Sentiment  string
	Confidence float64
	Published  string
}

// UserAnalysis carries the /analyze_news outcome as-is: either a failure
// scoped to the custom-analysis section, or the scored result.
type UserAnalysis struct {
	Err       string
	RawBody   string
	Sentiment string
	Score     float64
	Summary   string
}

func (a UserAnalysis) OK() bool { return a.Err == "" }

func snapshotFrom(res backend.Result) *StockSnapshot {
	s := &StockSnapshot{
		LivePrice:         floatField(res.Get("live_price")),
		Beta:              floatField(res.Get("beta")),
		IdiosyncraticRisk: floatField(res.Get("idiosyncratic_risk")),
		SentimentImpact:   floatField(res.Get("sentiment_impact")),
		Notes:             res.Get("notes").String(),
	}
	if trend := res.Get("sentiment_trend_10_day"); trend.IsObject() {
		s.Trend = &SentimentTrend{
			Bullish:  intField(trend.Get("bullish")),
			Bearish:  intField(trend.Get("bearish")),
			Neutral:  intField(trend.Get("neutral")),
			Dominant: trend.Get("dominant_sentiment").String(),
		}
	}
	return s
}

// newsFrom keeps backend order. A missing or non-array "items" value means
// no news rather than a page error.
func newsFrom(res backend.Result) []NewsItem {
	items := res.Get("items")
	if !items.IsArray() {
		return nil
	}
	var out []NewsItem
	items.ForEach(func(_, v gjson.Result) bool {
		out = append(out, NewsItem{
			Headline:   v.Get("headline").String(),
			Link:       v.Get("link").String(),
			Sentiment:  v.Get("sentiment").String(),
			Confidence: v.Get("confidence").Float(),
			Published:  v.Get("published").String(),
		})
		return true
	})
	return out
}

func analysisFrom(res backend.Result) *UserAnalysis {
	if !res.OK() {
		return &UserAnalysis{Err: res.Err, RawBody: res.RawBody}
	}
	// The backend reports analysis failures inside a 200 body.
	if msg := res.Get("error"); msg.Exists() {
		return &UserAnalysis{Err: msg.String()}
	}
	return &UserAnalysis{
		Sentiment: res.Get("user_sentiment").String(),
		Score:     res.Get("user_score").Float(),
		Summary:   res.Get("impact_summary_plain_english").String(),
	}
}

func floatField(v gjson.Result) *float64 {
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	return &f
}

func intField(v gjson.Result) *int64 {
	if v.Type != gjson.Number {
		return nil
	}
	n := v.Int()
	return &n
}
