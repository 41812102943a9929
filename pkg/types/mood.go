package types

import "strings"

// DefaultMoodScore is used when a mood label is not in the lookup table.
const DefaultMoodScore = 3

// moodScores maps free-text mood labels to a 1-5 score. Matching is
// case-insensitive on the trimmed label.
var moodScores = map[string]int{
	"amazing":   5,
	"great":     5,
	"happy":     5,
	"excited":   5,
	"good":      4,
	"calm":      4,
	"content":   4,
	"grateful":  4,
	"okay":      3,
	"neutral":   3,
	"fine":      3,
	"meh":       3,
	"tired":     2,
	"sad":       2,
	"stressed":  2,
	"anxious":   2,
	"angry":     1,
	"awful":     1,
	"terrible":  1,
	"depressed": 1,
}

// MoodScore maps a free-text mood label to its numeric score.
// Unrecognized labels map to DefaultMoodScore.
func MoodScore(label string) int {
	if score, ok := moodScores[strings.ToLower(strings.TrimSpace(label))]; ok {
		return score
	}
	return DefaultMoodScore
}
