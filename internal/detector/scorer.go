package detector

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Reasons reported alongside a score. The last matching rule wins.
const (
	ReasonModelPrediction   = "model prediction"
	ReasonKeywordAdjustment = "keyword-based adjustment"
	ReasonCallToAction      = "contains suspicious call-to-action"
	ReasonUrgency           = "urgency language detected"
	ReasonEmailStructure    = "contains email-like structure"
	ReasonUncertainKeywords = "model uncertain, keyword-based adjustment"
	ReasonUncertainSafe     = "model uncertain, defaulting to safe"
)

const (
	baseScore         = 0.5
	keywordWeight     = 0.08
	callToActionBoost = 0.15
	urgencyBoost      = 0.1
	emailPenalty      = 0.1
	minScore          = 0.1
	maxScore          = 0.95
	uncertaintyMargin = 0.05
	uncertainPhishing = 0.55
	uncertainSafe     = 0.45
	probabilityDigits = 4
)

// phishingKeywords are matched by substring presence against lowercased text.
var phishingKeywords = [...]string{
	"urgent",
	"verify",
	"click",
	"account",
	"bank",
	"suspended",
	"login",
	"password",
	"confirm",
	"update",
	"validate",
	"unusual activity",
}

// ScoreResult is the probability split produced for one text.
type ScoreResult struct {
	PhishingProbability float64
	SafeProbability     float64
	Reason              string
}

// Score evaluates text with the keyword and pattern heuristic. It accepts any
// string, including the empty one.
func Score(text string) ScoreResult {
	lower := strings.ToLower(text)
	score := baseScore
	reason := ReasonModelPrediction

	keywords := countKeywords(lower)
	if keywords > 0 {
		score = baseScore + float64(keywords)*keywordWeight
		reason = ReasonKeywordAdjustment
	}

	if containsAny(lower, "click here", "click below") {
		score += callToActionBoost
		reason = ReasonCallToAction
	}

	if containsAny(lower, "limited time", "act now") {
		score += urgencyBoost
		reason = ReasonUrgency
	}

	if strings.Contains(lower, "@") && strings.Contains(lower, "[") && strings.Contains(lower, "]") {
		score -= emailPenalty
		reason = ReasonEmailStructure
	}

	score = math.Min(math.Max(score, minScore), maxScore)

	return settle(score, reason, keywords)
}

// KeywordCount reports how many distinct phishing keywords appear in text.
func KeywordCount(text string) int {
	return countKeywords(strings.ToLower(text))
}

// settle applies the uncertainty override and rounds the final split.
func settle(score float64, reason string, keywords int) ScoreResult {
	safe := 1 - score
	if math.Abs(score-safe) < uncertaintyMargin {
		if keywords > 0 {
			score = uncertainPhishing
			reason = ReasonUncertainKeywords
		} else {
			score = uncertainSafe
			reason = ReasonUncertainSafe
		}
	}

	return ScoreResult{
		PhishingProbability: round(score),
		SafeProbability:     round(1 - score),
		Reason:              reason,
	}
}

func countKeywords(lower string) int {
	count := 0
	for _, keyword := range phishingKeywords {
		if strings.Contains(lower, keyword) {
			count++
		}
	}
	return count
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(probabilityDigits).InexactFloat64()
}
