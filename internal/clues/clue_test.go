package clues

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func sampleSet() ClueSet {
	name := "Times Cryptic"
	set := NewClueSet()
	set.Metadata.PuzzleName = &name
	set.Across[10] = Clue{Number: 10, Text: "Tenth", AnswerLength: AnswerLength{10}}
	set.Across[2] = Clue{Number: 2, Text: "Second", AnswerLength: AnswerLength{4, 4}}
	set.Down[1] = Clue{Number: 1, Text: "First down", AnswerLength: AnswerLength{5}}
	return set
}

func TestClueSetMarshalJSON(t *testing.T) {
	data, err := json.Marshal(sampleSet())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	want := `{"metadata":{"puzzle_name":"Times Cryptic"},` +
		`"across":{"2":{"clue":"Second","answer_length":[4,4],"answer":null},"10":{"clue":"Tenth","answer_length":[10],"answer":null}},` +
		`"down":{"1":{"clue":"First down","answer_length":[5],"answer":null}}}`
	if got != want {
		t.Fatalf("unexpected JSON\n got: %s\nwant: %s", got, want)
	}
}

func TestClueSetUnmarshalJSON(t *testing.T) {
	data, err := json.Marshal(sampleSet())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded ClueSet
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, sampleSet()) {
		t.Fatalf("decoded set differs:\n%#v", decoded)
	}

	if err := json.Unmarshal([]byte(`{"across":{"x":{"clue":"c","answer_length":[1]}}}`), &decoded); err == nil {
		t.Fatal("expected an error for a non-numeric clue key")
	}
}

func TestWithAnswersReturnsNewSet(t *testing.T) {
	base := sampleSet()
	answered := base.WithAnswers(Answers{
		Across: {2: "RIOBRAVO"},
		Down:   {1: "CHEDDAR", 99: "IGNORED"},
	})

	if base.Across[2].Answer != nil {
		t.Fatal("WithAnswers modified the original set")
	}
	if got := answered.Across[2].Answer; got == nil || *got != "RIOBRAVO" {
		t.Fatalf("expected across 2 answer, got %v", got)
	}
	if answered.Across[10].Answer != nil {
		t.Fatal("expected across 10 to stay unanswered")
	}
	if _, ok := answered.Down[99]; ok {
		t.Fatal("answers for unknown clues must not create entries")
	}
	if answered.Count() != base.Count() {
		t.Fatalf("expected %d clues, got %d", base.Count(), answered.Count())
	}

	data, _ := json.Marshal(answered)
	if !strings.Contains(string(data), `"answer":"CHEDDAR"`) {
		t.Fatalf("expected answer in JSON, got %s", data)
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"across": Across, "A": Across, "Down": Down, "d": Down} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Fatalf("ParseDirection(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDirection("diagonal"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}
