package models

// Severity is the discrete harassment severity tier derived from the score.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// HarassmentFlagThreshold is the score at which a message is flagged as
// harassment. It is deliberately lower than the High tier boundary (0.6):
// scores in [0.55, 0.6) are flagged but still tiered Medium.
const HarassmentFlagThreshold = 0.55

// Emotion labels produced by the emotion model.
const (
	EmotionHappy   = "happy"
	EmotionSad     = "sad"
	EmotionAngry   = "angry"
	EmotionFear    = "fear"
	EmotionAnxiety = "anxiety"
	EmotionCalm    = "calm"
	EmotionNeutral = "neutral"
)

// ClassificationResult is the combined output of the emotion and harassment
// models for a single message. Produced fresh per request, never persisted.
type ClassificationResult struct {
	Emotion  string   `json:"emotion"`
	Score    float64  `json:"score"`
	Tier     Severity `json:"tier"`
	Keywords []string `json:"keywords"`
}

// SeverityFromScore buckets a harassment score into a tier.
// Boundaries: score < 0.3 Low, score < 0.6 Medium, otherwise High.
func SeverityFromScore(score float64) Severity {
	switch {
	case score < 0.3:
		return SeverityLow
	case score < 0.6:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// IsHarassment applies the boolean flag threshold, independent of tiers.
func IsHarassment(score float64) bool {
	return score >= HarassmentFlagThreshold
}

var severityRank = map[Severity]int{
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

// MaxSeverity returns the higher of two tiers. Unknown tiers rank lowest.
func MaxSeverity(a, b Severity) Severity {
	if severityRank[b] > severityRank[a] {
		return b
	}
	return a
}

// ParseSeverity normalizes a client-provided tier, defaulting to Low.
func ParseSeverity(s string) Severity {
	switch s {
	case string(SeverityMedium):
		return SeverityMedium
	case string(SeverityHigh):
		return SeverityHigh
	default:
		return SeverityLow
	}
}
