// Package segment converts word-level, speaker-tagged recognition results
// into per-speaker utterance lists.
package segment

import (
	"strings"

	"debate-scoring-service/internal/models"
)

// BySpeaker scans each result's words in order and groups maximal runs of
// consecutive same-speaker words into utterances, accumulating them into a
// shared transcript keyed by speaker tag.
//
// Scanning state never carries across results: a result's trailing run is
// flushed even when the next result opens with the same tag, and the engine
// gives no temporal ordering across results to merge on anyway. Word text is
// joined with single spaces and otherwise untouched.
func BySpeaker(results []models.RecognitionResult) *models.SpeakerTranscript {
	out := models.NewSpeakerTranscript()
	for _, res := range results {
		var (
			current []string
			tag     int32
			open    bool
		)
		for _, w := range res.Words {
			if !open || w.SpeakerTag != tag {
				if len(current) > 0 {
					out.Append(tag, strings.Join(current, " "))
				}
				current = []string{w.Text}
				tag = w.SpeakerTag
				open = true
				continue
			}
			current = append(current, w.Text)
		}
		if len(current) > 0 {
			out.Append(tag, strings.Join(current, " "))
		}
	}
	return out
}
