package segment

import (
	"strings"
	"testing"

	"debate-scoring-service/internal/models"
)

func words(pairs ...any) []models.WordToken {
	out := make([]models.WordToken, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, models.WordToken{
			Text:       pairs[i].(string),
			SpeakerTag: int32(pairs[i+1].(int)),
		})
	}
	return out
}

func result(ws []models.WordToken) models.RecognitionResult {
	return models.RecognitionResult{Words: ws}
}

func TestBySpeaker_SingleResult(t *testing.T) {
	st := BySpeaker([]models.RecognitionResult{
		result(words("A", 1, "B", 1, "C", 2, "D", 2, "E", 2)),
	})

	if got := st.Utterances(1); len(got) != 1 || got[0] != "A B" {
		t.Errorf("speaker 1: got %v, want [A B]", got)
	}
	if got := st.Utterances(2); len(got) != 1 || got[0] != "C D E" {
		t.Errorf("speaker 2: got %v, want [C D E]", got)
	}
}

func TestBySpeaker_AlternatingSpeakers(t *testing.T) {
	st := BySpeaker([]models.RecognitionResult{
		result(words("a", 1, "b", 2, "c", 1, "d", 2)),
	})

	if got := st.Utterances(1); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("speaker 1: got %v, want [a c]", got)
	}
	if got := st.Utterances(2); len(got) != 2 || got[0] != "b" || got[1] != "d" {
		t.Errorf("speaker 2: got %v, want [b d]", got)
	}
}

func TestBySpeaker_NoMergeAcrossResults(t *testing.T) {
	// Same speaker closes one result and opens the next; the runs must stay
	// separate utterances.
	st := BySpeaker([]models.RecognitionResult{
		result(words("end", 1, "of", 1, "one", 1)),
		result(words("start", 1, "of", 1, "two", 1)),
	})

	got := st.Utterances(1)
	if len(got) != 2 {
		t.Fatalf("expected 2 utterances, got %v", got)
	}
	if got[0] != "end of one" || got[1] != "start of two" {
		t.Errorf("utterances merged or reordered: %v", got)
	}
}

func TestBySpeaker_EveryWordExactlyOnce(t *testing.T) {
	results := []models.RecognitionResult{
		result(words("w1", 1, "w2", 2, "w3", 2, "w4", 0, "w5", 1)),
		result(words("w6", 3, "w7", 3)),
		result(nil),
	}

	st := BySpeaker(results)

	var all []string
	for _, tag := range st.Tags() {
		for _, utt := range st.Utterances(tag) {
			all = append(all, strings.Fields(utt)...)
		}
	}

	seen := make(map[string]int)
	for _, w := range all {
		seen[w]++
	}
	for _, want := range []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7"} {
		if seen[want] != 1 {
			t.Errorf("word %s appears %d times, want exactly 1", want, seen[want])
		}
	}
	if len(all) != 7 {
		t.Errorf("expected 7 words total, got %d", len(all))
	}
}

func TestBySpeaker_UnassignedTagIsOwnBucket(t *testing.T) {
	st := BySpeaker([]models.RecognitionResult{
		result(words("tagged", 1, "lost", 0, "again", 1)),
	})

	if !st.Has(0) {
		t.Fatal("unassigned (tag 0) words must get their own bucket")
	}
	if got := st.Utterances(0); len(got) != 1 || got[0] != "lost" {
		t.Errorf("tag 0: got %v, want [lost]", got)
	}
	if got := st.Utterances(1); len(got) != 2 {
		t.Errorf("tag 0 transition must split speaker 1's run: %v", got)
	}
}

func TestBySpeaker_SingleWordResult(t *testing.T) {
	st := BySpeaker([]models.RecognitionResult{
		result(words("alone", 4)),
	})
	if got := st.Utterances(4); len(got) != 1 || got[0] != "alone" {
		t.Errorf("got %v, want [alone]", got)
	}
}

func TestBySpeaker_EmptyWordTextPreserved(t *testing.T) {
	st := BySpeaker([]models.RecognitionResult{
		result(words("a", 1, "", 1, "b", 1)),
	})
	if got := st.Utterances(1); len(got) != 1 || got[0] != "a  b" {
		t.Errorf("empty word text must be kept verbatim, got %q", got)
	}
}

func TestBySpeaker_Empty(t *testing.T) {
	st := BySpeaker(nil)
	if st.Len() != 0 {
		t.Errorf("expected empty transcript, got %d speakers", st.Len())
	}

	st = BySpeaker([]models.RecognitionResult{result(nil), result(nil)})
	if st.Len() != 0 {
		t.Errorf("results with no words must contribute nothing, got %d speakers", st.Len())
	}
}

func TestBySpeaker_InsertionOrderAcrossResults(t *testing.T) {
	st := BySpeaker([]models.RecognitionResult{
		result(words("x", 5, "y", 2)),
		result(words("z", 1)),
	})

	tags := st.Tags()
	want := []int32{5, 2, 1}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", tags, want)
		}
	}
}
