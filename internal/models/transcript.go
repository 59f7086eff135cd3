// Package models defines the data structures exchanged between the
// transcription, segmentation and scoring stages.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// WordToken is a single recognized word with the speaker tag the engine
// attributed it to. Tag 0 means diarization left the word unassigned; it is
// still a valid bucket and must never be dropped.
type WordToken struct {
	Text       string `json:"word"`
	SpeakerTag int32  `json:"speaker_tag"`
}

// RecognitionResult is one normalized result from the speech engine.
// The engine does not guarantee that results arrive in temporal order of
// speech; only word order within a result is meaningful.
type RecognitionResult struct {
	Confidence float64     `json:"confidence"`
	Transcript string      `json:"transcript"`
	Words      []WordToken `json:"words"`
}

// SpeakerTranscript maps a speaker tag to the ordered list of utterances
// attributed to that speaker. Keys keep the order in which speakers were
// first encountered, which a plain map cannot provide.
type SpeakerTranscript struct {
	tags       []int32
	utterances map[int32][]string
}

// NewSpeakerTranscript returns an empty transcript with no pre-initialized
// speaker entries.
func NewSpeakerTranscript() *SpeakerTranscript {
	return &SpeakerTranscript{utterances: make(map[int32][]string)}
}

// Append adds an utterance to the given speaker, registering the speaker on
// first use.
func (s *SpeakerTranscript) Append(tag int32, utterance string) {
	if _, ok := s.utterances[tag]; !ok {
		s.tags = append(s.tags, tag)
	}
	s.utterances[tag] = append(s.utterances[tag], utterance)
}

// Has reports whether any utterance was recorded for the speaker.
func (s *SpeakerTranscript) Has(tag int32) bool {
	_, ok := s.utterances[tag]
	return ok
}

// Utterances returns the utterances recorded for the speaker, in insertion
// order. Nil if the speaker was never seen.
func (s *SpeakerTranscript) Utterances(tag int32) []string {
	return s.utterances[tag]
}

// Tags returns the speaker tags in first-seen order.
func (s *SpeakerTranscript) Tags() []int32 {
	return s.tags
}

// Len returns the number of distinct speakers.
func (s *SpeakerTranscript) Len() int {
	return len(s.tags)
}

// MarshalJSON renders the transcript as a JSON object whose keys appear in
// first-seen speaker order.
func (s *SpeakerTranscript) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tag := range s.tags {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(strconv.FormatInt(int64(tag), 10))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(s.utterances[tag])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ScoreOutcome is the result of evaluating a segmented transcript.
type ScoreOutcome struct {
	WinningTeam int32          `json:"winning_team"`
	Details     map[string]any `json:"details"`
}
