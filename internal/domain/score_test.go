package domain

import "testing"

func cardsWithStates(states ...Correctness) []Card {
	cards := make([]Card, len(states))
	for i, s := range states {
		cards[i] = Card{Question: "q", Answer: "a", Correctness: s}
	}
	return cards
}

func TestComputeAverageScore(t *testing.T) {
	tests := []struct {
		name   string
		states []Correctness
		want   int
	}{
		{"no cards", nil, 0},
		{"no reviewed cards", []Correctness{CorrectnessUnattempted, CorrectnessUnattempted}, 0},
		{"single correct", []Correctness{CorrectnessCorrect}, 100},
		{"single incorrect", []Correctness{CorrectnessIncorrect}, 0},
		{"half correct", []Correctness{CorrectnessCorrect, CorrectnessIncorrect}, 50},
		{"unattempted excluded", []Correctness{CorrectnessCorrect, CorrectnessUnattempted, CorrectnessUnattempted}, 100},
		// Rounding is half-up: 1/3 → 33.33 → 33, 2/3 → 66.67 → 67.
		{"one of three", []Correctness{CorrectnessCorrect, CorrectnessIncorrect, CorrectnessIncorrect}, 33},
		{"two of three", []Correctness{CorrectnessCorrect, CorrectnessCorrect, CorrectnessIncorrect}, 67},
		// Exact half rounds up: 1/8 = 12.5 → 13.
		{"exact half rounds up", []Correctness{
			CorrectnessCorrect,
			CorrectnessIncorrect, CorrectnessIncorrect, CorrectnessIncorrect,
			CorrectnessIncorrect, CorrectnessIncorrect, CorrectnessIncorrect,
			CorrectnessIncorrect,
		}, 13},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeAverageScore(cardsWithStates(tc.states...))
			if got != tc.want {
				t.Errorf("Expected score %d, got %d", tc.want, got)
			}
			if got < 0 || got > 100 {
				t.Errorf("Score %d out of [0,100]", got)
			}
		})
	}
}
