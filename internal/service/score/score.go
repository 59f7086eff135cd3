// Package score derives the winning team from a segmented transcript.
package score

import (
	"strings"

	"debate-scoring-service/internal/models"
)

// Contender tags. Only these two speakers compete; every other tag is
// audience, moderator or diarization noise as far as scoring is concerned.
const (
	TeamOne int32 = 1
	TeamTwo int32 = 2
)

// NoDecision is the outcome when team one does not strictly out-talk team
// two, or when either contender is absent. The wire value is 0 either way;
// the name records that 0 is "no decision", not "team 0 won".
const NoDecision int32 = 0

// Evaluate applies the word-count rule: team one wins only when its total
// whitespace-delimited word count across all utterances strictly exceeds
// team two's. Ties and team-two leads both yield NoDecision, as does the
// absence of either contender.
func Evaluate(transcript *models.SpeakerTranscript) models.ScoreOutcome {
	outcome := models.ScoreOutcome{
		WinningTeam: NoDecision,
		Details:     map[string]any{},
	}

	if !transcript.Has(TeamOne) || !transcript.Has(TeamTwo) {
		return outcome
	}

	if wordCount(transcript.Utterances(TeamOne)) > wordCount(transcript.Utterances(TeamTwo)) {
		outcome.WinningTeam = TeamOne
	}
	return outcome
}

func wordCount(utterances []string) int {
	total := 0
	for _, u := range utterances {
		total += len(strings.Fields(u))
	}
	return total
}
